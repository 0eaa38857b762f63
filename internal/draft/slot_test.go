package draft

import (
	"errors"
	"testing"
)

func TestResolveParticipantSnakeOrder(t *testing.T) {
	cases := []struct {
		name             string
		pickNumber       int
		participantCount int
		want             int
	}{
		{"first pick goes to seat 0", 1, 12, 0},
		{"last pick of round 1 goes to seat 11", 12, 12, 11},
		{"round 2 opens with the last seat", 13, 12, 11},
		{"round 2 closes with seat 0", 24, 12, 0},
		{"round 3 runs forward again", 25, 12, 0},
		{"mid round 3", 30, 12, 5},
		{"single participant always picks", 7, 1, 0},
		{"two seats alternate with doubled turns", 4, 2, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveParticipant(tc.pickNumber, tc.participantCount)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ResolveParticipant(%d, %d) = %d, want %d", tc.pickNumber, tc.participantCount, got, tc.want)
			}
		})
	}
}

func TestResolveParticipantRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name             string
		pickNumber       int
		participantCount int
	}{
		{"zero participant count", 1, 0},
		{"negative participant count", 1, -3},
		{"zero pick number", 0, 12},
		{"negative pick number", -5, 12},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ResolveParticipant(tc.pickNumber, tc.participantCount)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("want ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestResolvePickNumberInverts(t *testing.T) {
	// Round-trip across every seat count a real draft room could have.
	for count := 1; count <= 20; count++ {
		for pick := 1; pick <= count*20; pick++ {
			seat, err := ResolveParticipant(pick, count)
			if err != nil {
				t.Fatalf("ResolveParticipant(%d, %d): %v", pick, count, err)
			}
			round, err := RoundOf(pick, count)
			if err != nil {
				t.Fatalf("RoundOf(%d, %d): %v", pick, count, err)
			}
			back, err := ResolvePickNumber(round, seat, count)
			if err != nil {
				t.Fatalf("ResolvePickNumber(%d, %d, %d): %v", round, seat, count, err)
			}
			if back != pick {
				t.Fatalf("round trip failed: pick %d count %d -> seat %d round %d -> pick %d", pick, count, seat, round, back)
			}
		}
	}
}

func TestResolvePickNumberRejectsBadSeat(t *testing.T) {
	if _, err := ResolvePickNumber(1, 12, 12); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("seat equal to count should be rejected, got %v", err)
	}
	if _, err := ResolvePickNumber(1, -1, 12); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("negative seat should be rejected, got %v", err)
	}
	if _, err := ResolvePickNumber(0, 0, 12); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("round 0 should be rejected, got %v", err)
	}
}

func TestSnakePropertyFirstTwoRounds(t *testing.T) {
	for count := 1; count <= 20; count++ {
		// Round 1: seats 0..N-1 in increasing pick order.
		for i := 0; i < count; i++ {
			seat, err := ResolveParticipant(i+1, count)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if seat != i {
				t.Fatalf("count %d round 1 pick %d: got seat %d, want %d", count, i+1, seat, i)
			}
		}
		// Round 2: seats N-1..0.
		for i := 0; i < count; i++ {
			seat, err := ResolveParticipant(count+i+1, count)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if want := count - 1 - i; seat != want {
				t.Fatalf("count %d round 2 pick %d: got seat %d, want %d", count, count+i+1, seat, want)
			}
		}
	}
}

func FuzzResolveParticipantRoundTrip(f *testing.F) {
	f.Add(1, 12)
	f.Add(13, 12)
	f.Add(216, 12)
	f.Add(0, 0)
	f.Add(-4, 7)

	f.Fuzz(func(t *testing.T, pickNumber, participantCount int) {
		seat, err := ResolveParticipant(pickNumber, participantCount)
		if err != nil {
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("unexpected error type: %v", err)
			}
			return
		}

		if seat < 0 || seat >= participantCount {
			t.Fatalf("seat %d out of range for count %d", seat, participantCount)
		}

		round, err := RoundOf(pickNumber, participantCount)
		if err != nil {
			t.Fatalf("RoundOf after successful resolve: %v", err)
		}
		back, err := ResolvePickNumber(round, seat, participantCount)
		if err != nil {
			t.Fatalf("ResolvePickNumber after successful resolve: %v", err)
		}
		if back != pickNumber {
			t.Fatalf("round trip failed: %d -> seat %d round %d -> %d", pickNumber, seat, round, back)
		}
	})
}
