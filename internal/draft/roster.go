package draft

import (
	"fmt"
	"sort"

	"github.com/draftroom/bestball-draft/internal/models"
)

// SlotKind is the category of a roster slot.
type SlotKind string

const (
	SlotQB    SlotKind = "QB"
	SlotRB    SlotKind = "RB"
	SlotWR    SlotKind = "WR"
	SlotTE    SlotKind = "TE"
	SlotFlex  SlotKind = "FLEX"
	SlotBench SlotKind = "BN"
)

// Slot is one position in the roster template. ID is unique within a
// template ("RB2", "FLEX1", "BN7") and is what clients key their rows on.
type Slot struct {
	ID   string   `json:"id"`
	Kind SlotKind `json:"kind"`
}

// DefaultSlotTemplate returns the standard best ball layout: 9 starters
// (QB, 2 RB, 3 WR, TE, 2 FLEX) followed by 9 bench slots, matching an
// 18-round draft.
func DefaultSlotTemplate() []Slot {
	return []Slot{
		{ID: "QB", Kind: SlotQB},
		{ID: "RB1", Kind: SlotRB},
		{ID: "RB2", Kind: SlotRB},
		{ID: "WR1", Kind: SlotWR},
		{ID: "WR2", Kind: SlotWR},
		{ID: "WR3", Kind: SlotWR},
		{ID: "TE", Kind: SlotTE},
		{ID: "FLEX1", Kind: SlotFlex},
		{ID: "FLEX2", Kind: SlotFlex},
		{ID: "BN1", Kind: SlotBench},
		{ID: "BN2", Kind: SlotBench},
		{ID: "BN3", Kind: SlotBench},
		{ID: "BN4", Kind: SlotBench},
		{ID: "BN5", Kind: SlotBench},
		{ID: "BN6", Kind: SlotBench},
		{ID: "BN7", Kind: SlotBench},
		{ID: "BN8", Kind: SlotBench},
		{ID: "BN9", Kind: SlotBench},
	}
}

// SlotAssignment pairs a template slot with the player occupying it.
// Player is nil for an empty slot.
type SlotAssignment struct {
	Slot   Slot           `json:"slot"`
	Player *models.Player `json:"player,omitempty"`
}

// Roster is the result of assigning a participant's picks to a slot
// template. Slots preserves template order. Overflow holds drafted players
// that did not fit any slot; the UI does not display them, but they are
// surfaced here so the drop is explicit rather than silent. Warnings lists
// picks excluded because the pick log was inconsistent.
type Roster struct {
	Slots    []SlotAssignment `json:"slots"`
	Overflow []models.Player  `json:"overflow,omitempty"`
	Warnings []Warning        `json:"warnings,omitempty"`
}

// AssignRoster distributes a participant's made picks across the slot
// template. Picks are considered in ascending pick-number order, so draft
// order decides which named slot fills first within a position group.
// Fixed slots take the next unused player of that exact position, FLEX
// slots take the next unused RB/WR/TE, and bench slots take whatever is
// left in draft order. The assignment is deterministic: the same pick list
// always produces the same roster.
func AssignRoster(picks []models.Pick, participantIndex, participantCount int, template []Slot) (Roster, error) {
	if participantIndex < 0 || participantIndex >= participantCount {
		return Roster{}, fmt.Errorf("%w: participant index %d out of range [0,%d)", ErrInvalidArgument, participantIndex, participantCount)
	}
	if len(template) == 0 {
		template = DefaultSlotTemplate()
	}

	var roster Roster

	mine, warnings, err := participantPicks(picks, participantIndex, participantCount)
	if err != nil {
		return Roster{}, err
	}
	roster.Warnings = warnings

	used := make([]bool, len(mine))

	// takeNext claims the earliest unused player matching the predicate.
	takeNext := func(match func(models.Position) bool) *models.Player {
		for i := range mine {
			if used[i] {
				continue
			}
			if match(mine[i].Player.Position) {
				used[i] = true
				return mine[i].Player
			}
		}
		return nil
	}

	for _, slot := range template {
		var player *models.Player
		switch slot.Kind {
		case SlotQB, SlotRB, SlotWR, SlotTE:
			want := models.Position(slot.Kind)
			player = takeNext(func(p models.Position) bool { return p == want })
		case SlotFlex:
			player = takeNext(func(p models.Position) bool { return p.FlexEligible() })
		case SlotBench:
			player = takeNext(func(models.Position) bool { return true })
		}
		roster.Slots = append(roster.Slots, SlotAssignment{Slot: slot, Player: player})
	}

	for i := range mine {
		if !used[i] {
			roster.Overflow = append(roster.Overflow, *mine[i].Player)
		}
	}

	return roster, nil
}

// participantPicks filters the pick log down to this participant's made
// picks in ascending order. Deduplication runs over the whole log, not
// just this seat's picks, so a player recorded twice anywhere is voided on
// the second occurrence. Warnings are only reported for picks that would
// have belonged to the requested seat; anomalies on other seats surface
// when their rosters are assembled.
func participantPicks(picks []models.Pick, participantIndex, participantCount int) ([]models.Pick, []Warning, error) {
	ordered := make([]models.Pick, len(picks))
	copy(ordered, picks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PickNumber < ordered[j].PickNumber
	})

	var (
		mine        []models.Pick
		warnings    []Warning
		seenPick    = make(map[int]bool)
		seenPlayers = make(map[string]bool)
	)

	warn := func(relevant bool, pickNumber int, reason string) {
		if relevant {
			warnings = append(warnings, Warning{PickNumber: pickNumber, Reason: reason})
		}
	}

	for _, pick := range ordered {
		if !pick.Made() {
			continue
		}

		owner, err := ResolveParticipant(pick.PickNumber, participantCount)
		if err != nil {
			// Ownership is unknowable, so flag it for everyone.
			warn(true, pick.PickNumber, "pick number outside the draft's pick space")
			continue
		}
		isMine := owner == participantIndex

		if seenPick[pick.PickNumber] {
			warn(isMine, pick.PickNumber, "duplicate pick number, treated as void")
			continue
		}
		seenPick[pick.PickNumber] = true

		if seenPlayers[pick.Player.ID] {
			warn(isMine, pick.PickNumber, fmt.Sprintf("player %s already consumed by an earlier pick", pick.Player.ID))
			continue
		}
		seenPlayers[pick.Player.ID] = true

		if isMine {
			mine = append(mine, pick)
		}
	}

	return mine, warnings, nil
}
