package draft

import "fmt"

// ResolveParticipant maps a 1-based overall pick number to the 0-based seat
// that owns it under snake ordering: odd rounds run seat 0..N-1, even rounds
// reverse to N-1..0. This is the single authoritative definition of the
// mapping; callers must never recompute it inline or trust a stored index.
func ResolveParticipant(pickNumber, participantCount int) (int, error) {
	if participantCount <= 0 {
		return 0, fmt.Errorf("%w: participant count must be positive, got %d", ErrInvalidArgument, participantCount)
	}
	if pickNumber < 1 {
		return 0, fmt.Errorf("%w: pick number must be >= 1, got %d", ErrInvalidArgument, pickNumber)
	}

	round := (pickNumber-1)/participantCount + 1
	indexInRound := (pickNumber - 1) % participantCount

	if round%2 == 0 {
		return participantCount - 1 - indexInRound, nil
	}
	return indexInRound, nil
}

// ResolvePickNumber is the exact inverse of ResolveParticipant within a
// round: it returns the overall pick number at which the given seat picks
// in the given 1-based round.
func ResolvePickNumber(round, participantIndex, participantCount int) (int, error) {
	if participantCount <= 0 {
		return 0, fmt.Errorf("%w: participant count must be positive, got %d", ErrInvalidArgument, participantCount)
	}
	if round < 1 {
		return 0, fmt.Errorf("%w: round must be >= 1, got %d", ErrInvalidArgument, round)
	}
	if participantIndex < 0 || participantIndex >= participantCount {
		return 0, fmt.Errorf("%w: participant index %d out of range [0,%d)", ErrInvalidArgument, participantIndex, participantCount)
	}

	base := (round - 1) * participantCount
	if round%2 == 0 {
		return base + (participantCount - participantIndex), nil
	}
	return base + participantIndex + 1, nil
}

// RoundOf returns the 1-based round a pick number falls in.
func RoundOf(pickNumber, participantCount int) (int, error) {
	if participantCount <= 0 {
		return 0, fmt.Errorf("%w: participant count must be positive, got %d", ErrInvalidArgument, participantCount)
	}
	if pickNumber < 1 {
		return 0, fmt.Errorf("%w: pick number must be >= 1, got %d", ErrInvalidArgument, pickNumber)
	}
	return (pickNumber-1)/participantCount + 1, nil
}
