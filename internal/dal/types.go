package dal

import (
	"errors"

	"github.com/draftroom/bestball-draft/internal/models"
)

var (
	ErrPlayerNotFound      = errors.New("player not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrAlreadyDrafted      = errors.New("player already drafted")
	ErrDraftComplete       = errors.New("draft is complete")
)

// DraftDAL defines the interface for data access layer
type DraftDAL interface {
	GetState() (*models.DraftState, error)
	Reset() error
	AddPlayer(player *models.Player) (*models.Player, error)
	SetPlayerADP(id string, adp float64) (*models.Player, error)
	SetParticipantName(index int, name string) error
	MakePick(playerID string) (*models.Pick, error)
	ListPicks() ([]models.Pick, error)
	SaveQueue(userID string, playerIDs []string) error
	LoadQueue(userID string) ([]string, error)
}
