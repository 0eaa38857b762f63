package dal

import (
	"github.com/draftroom/bestball-draft/internal/draft"
	"github.com/draftroom/bestball-draft/internal/models"
)

// AnnotateClock fills in the derived clock fields on a draft state: the
// next overall pick number, which seat is on the clock for it, and whether
// the draft has run out of picks. The pick log is the source of truth;
// nothing here is stored.
func AnnotateClock(state *models.DraftState, cfg draft.Config) {
	made := 0
	for _, pick := range state.Picks {
		if pick.Made() {
			made++
		}
	}

	state.CurrentPick = made + 1
	state.Complete = made >= cfg.TotalPicks()
	state.OnClockIndex = -1

	if state.Complete {
		return
	}

	seat, err := draft.ResolveParticipant(state.CurrentPick, cfg.ParticipantCount)
	if err != nil {
		return
	}
	state.OnClockIndex = seat
}
