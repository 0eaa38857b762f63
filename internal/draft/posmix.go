package draft

import "github.com/draftroom/bestball-draft/internal/models"

// Segment is one band of the position tracker bar.
type Segment struct {
	Position   models.Position `json:"position"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
	Color      string          `json:"color"`
}

// PositionMix summarizes how a set of picks splits across positions.
// Segments are ordered QB, RB, WR, TE regardless of draft order, and
// positions with zero picks are omitted. Percentages are kept as floats;
// rounding is a render-time concern.
type PositionMix struct {
	TotalPicks int       `json:"totalPicks"`
	Segments   []Segment `json:"segments"`
}

// positionColors are the tracker-bar band colors, keyed by position.
var positionColors = map[models.Position]string{
	models.PositionQB: "bg-rose-400",
	models.PositionRB: "bg-emerald-400",
	models.PositionWR: "bg-sky-400",
	models.PositionTE: "bg-amber-400",
}

// ComputeSegments builds the position mix for any list of picks: a full
// roster, or a prefix of the draft for an in-progress tracker bar. Picks
// without a player are pending and do not count. A pick whose player
// carries an unrecognized position is excluded from both the total and the
// segments, so the returned percentages always sum to 100 when any picks
// counted.
func ComputeSegments(picks []models.Pick) PositionMix {
	counts := make(map[models.Position]int)
	total := 0

	for _, pick := range picks {
		if !pick.Made() {
			continue
		}
		pos := pick.Player.Position
		if !pos.Valid() {
			continue
		}
		counts[pos]++
		total++
	}

	mix := PositionMix{TotalPicks: total}
	if total == 0 {
		return mix
	}

	for _, pos := range models.KnownPositions {
		count := counts[pos]
		if count == 0 {
			continue
		}
		mix.Segments = append(mix.Segments, Segment{
			Position:   pos,
			Count:      count,
			Percentage: 100 * float64(count) / float64(total),
			Color:      positionColors[pos],
		})
	}

	return mix
}
