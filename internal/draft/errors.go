package draft

import "errors"

// ErrInvalidArgument marks caller bugs: non-positive pick numbers or
// participant counts, out-of-range seat indices. These are fatal to the
// single call and are returned, never papered over with a default.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrDataConsistency marks anomalies in the pick data itself (duplicate
// pick numbers, a player drafted twice). Assignment degrades gracefully:
// the offending pick is skipped and a Warning is surfaced instead.
var ErrDataConsistency = errors.New("inconsistent draft data")

// Warning describes a pick that was excluded from roster assignment
// because the pick log is internally inconsistent.
type Warning struct {
	PickNumber int    `json:"pickNumber"`
	Reason     string `json:"reason"`
}
