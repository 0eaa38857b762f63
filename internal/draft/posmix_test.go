package draft

import (
	"math"
	"testing"

	"github.com/draftroom/bestball-draft/internal/models"
)

func mixPicks(positions ...models.Position) []models.Pick {
	picks := make([]models.Pick, len(positions))
	for i, pos := range positions {
		picks[i] = models.Pick{
			PickNumber: i + 1,
			Player:     &models.Player{ID: string(pos) + "-" + string(rune('a'+i)), Position: pos},
		}
	}
	return picks
}

func TestComputeSegmentsEmpty(t *testing.T) {
	mix := ComputeSegments(nil)
	if mix.TotalPicks != 0 {
		t.Fatalf("TotalPicks = %d, want 0", mix.TotalPicks)
	}
	if len(mix.Segments) != 0 {
		t.Fatalf("Segments = %v, want empty", mix.Segments)
	}
}

func TestComputeSegmentsFixedDisplayOrder(t *testing.T) {
	// Drafted TE first, QB last: segments still come back QB, RB, WR, TE.
	mix := ComputeSegments(mixPicks(
		models.PositionTE,
		models.PositionWR,
		models.PositionRB,
		models.PositionQB,
	))

	want := []models.Position{models.PositionQB, models.PositionRB, models.PositionWR, models.PositionTE}
	if len(mix.Segments) != len(want) {
		t.Fatalf("got %d segments, want %d", len(mix.Segments), len(want))
	}
	for i, seg := range mix.Segments {
		if seg.Position != want[i] {
			t.Errorf("segment %d = %s, want %s", i, seg.Position, want[i])
		}
		if seg.Count != 1 {
			t.Errorf("segment %s count = %d, want 1", seg.Position, seg.Count)
		}
		if seg.Color == "" {
			t.Errorf("segment %s has no color", seg.Position)
		}
	}
}

func TestComputeSegmentsOmitsZeroPositions(t *testing.T) {
	mix := ComputeSegments(mixPicks(
		models.PositionWR,
		models.PositionWR,
		models.PositionRB,
	))

	if len(mix.Segments) != 2 {
		t.Fatalf("got %d segments, want 2: %v", len(mix.Segments), mix.Segments)
	}
	if mix.Segments[0].Position != models.PositionRB || mix.Segments[1].Position != models.PositionWR {
		t.Fatalf("segments = %v, want [RB WR]", mix.Segments)
	}
}

func TestComputeSegmentsPercentagesSumTo100(t *testing.T) {
	cases := [][]models.Position{
		{models.PositionQB},
		{models.PositionWR, models.PositionWR, models.PositionRB},
		{models.PositionQB, models.PositionRB, models.PositionWR, models.PositionTE,
			models.PositionWR, models.PositionRB, models.PositionWR},
		{models.PositionTE, models.PositionTE, models.PositionTE},
	}

	for _, positions := range cases {
		mix := ComputeSegments(mixPicks(positions...))
		sum := 0.0
		for _, seg := range mix.Segments {
			sum += seg.Percentage
		}
		if math.Abs(sum-100) > 1e-6 {
			t.Errorf("percentages for %v sum to %v, want 100", positions, sum)
		}
	}
}

func TestComputeSegmentsIgnoresPendingAndUnknown(t *testing.T) {
	picks := mixPicks(models.PositionWR, models.PositionRB)
	picks = append(picks,
		models.Pick{PickNumber: 3},                                                    // pending
		models.Pick{PickNumber: 4, Player: &models.Player{ID: "k-1", Position: "K"}}, // not a tracked position
	)

	mix := ComputeSegments(picks)
	if mix.TotalPicks != 2 {
		t.Fatalf("TotalPicks = %d, want 2", mix.TotalPicks)
	}
	sum := 0.0
	for _, seg := range mix.Segments {
		sum += seg.Percentage
	}
	if math.Abs(sum-100) > 1e-6 {
		t.Fatalf("percentages sum to %v, want 100", sum)
	}
}

func TestComputeSegmentsPrefixView(t *testing.T) {
	all := mixPicks(
		models.PositionWR,
		models.PositionRB,
		models.PositionQB,
		models.PositionWR,
	)

	prefix := ComputeSegments(all[:2])
	if prefix.TotalPicks != 2 {
		t.Fatalf("prefix TotalPicks = %d, want 2", prefix.TotalPicks)
	}
	for _, seg := range prefix.Segments {
		if seg.Percentage != 50 {
			t.Errorf("prefix segment %s = %v%%, want 50%%", seg.Position, seg.Percentage)
		}
	}
}
