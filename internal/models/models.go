package models

// Position is a player's skill position
type Position string

const (
	PositionQB Position = "QB"
	PositionRB Position = "RB"
	PositionWR Position = "WR"
	PositionTE Position = "TE"
)

// KnownPositions lists every position the engine recognizes, in display order.
var KnownPositions = []Position{PositionQB, PositionRB, PositionWR, PositionTE}

// Valid reports whether p is one of the four draftable positions.
func (p Position) Valid() bool {
	switch p {
	case PositionQB, PositionRB, PositionWR, PositionTE:
		return true
	}
	return false
}

// FlexEligible reports whether p can fill a FLEX roster slot.
func (p Position) FlexEligible() bool {
	switch p {
	case PositionRB, PositionWR, PositionTE:
		return true
	}
	return false
}

// Player represents a draftable NFL player. ID is the stable identity used
// everywhere in the engine; Name is a display attribute only and is not
// guaranteed unique.
type Player struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Position        Position `json:"position"`
	Team            string   `json:"team"`
	ADP             float64  `json:"adp"`
	ProjectedPoints float64  `json:"projectedPoints,omitempty"`
	Drafted         bool     `json:"drafted"`
}

// Pick is one selection in the draft. PickNumber is 1-based and globally
// sequential across rounds. Player is nil while the slot is still on the
// clock. The owning participant is always derived from PickNumber by the
// draft package, never stored.
type Pick struct {
	PickNumber int     `json:"pickNumber"`
	Player     *Player `json:"player,omitempty"`
}

// Made reports whether the pick has been used on a player.
func (p Pick) Made() bool {
	return p.Player != nil
}

// Participant is a seat in the draft room. Index is the 0-based seat
// position and is fixed for the lifetime of the draft; by convention the
// participant at index 0 is the local user in every client view.
type Participant struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// DraftState is the full state of a draft as served to clients. CurrentPick
// and OnClockIndex are derived fields recomputed on every read.
type DraftState struct {
	Players      []Player      `json:"players"`
	Participants []Participant `json:"participants"`
	Picks        []Pick        `json:"picks"`
	CurrentPick  int           `json:"currentPick"`
	OnClockIndex int           `json:"onClockIndex"`
	Complete     bool          `json:"complete"`
}
