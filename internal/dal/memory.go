package dal

import (
	"fmt"
	"sync"

	"github.com/draftroom/bestball-draft/internal/draft"
	"github.com/draftroom/bestball-draft/internal/models"
)

// MemoryDAL implements DraftDAL using in-memory storage
type MemoryDAL struct {
	mu           sync.RWMutex
	cfg          draft.Config
	players      []models.Player
	participants []models.Participant
	picks        []models.Pick
	queues       map[string][]string
}

// NewMemoryDAL creates a new in-memory data access layer
func NewMemoryDAL(cfg draft.Config) *MemoryDAL {
	return &MemoryDAL{
		cfg:          cfg,
		players:      getDefaultPlayers(),
		participants: getDefaultParticipants(cfg.ParticipantCount),
		queues:       make(map[string][]string),
	}
}

func (m *MemoryDAL) GetState() (*models.DraftState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Copies, so callers never see a slice we keep mutating.
	state := &models.DraftState{
		Players:      make([]models.Player, len(m.players)),
		Participants: make([]models.Participant, len(m.participants)),
		Picks:        copyPicks(m.picks),
	}
	copy(state.Players, m.players)
	copy(state.Participants, m.participants)

	AnnotateClock(state, m.cfg)
	return state, nil
}

func (m *MemoryDAL) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.players = getDefaultPlayers()
	m.participants = getDefaultParticipants(m.cfg.ParticipantCount)
	m.picks = nil
	m.queues = make(map[string][]string)

	return nil
}

func (m *MemoryDAL) AddPlayer(player *models.Player) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if player.ID == "" {
		player.ID = genID("player")
	}
	if player.ADP == 0 {
		// Unranked additions sort behind the seeded board.
		player.ADP = float64(len(m.players) + 1)
	}

	m.players = append(m.players, *player)
	return player, nil
}

func (m *MemoryDAL) SetPlayerADP(id string, adp float64) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.players {
		if m.players[i].ID == id {
			m.players[i].ADP = adp
			return &m.players[i], nil
		}
	}
	return nil, ErrPlayerNotFound
}

func (m *MemoryDAL) SetParticipantName(index int, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.participants {
		if m.participants[i].Index == index {
			m.participants[i].Name = name
			return nil
		}
	}
	return ErrParticipantNotFound
}

// MakePick records the next overall pick for the given player. The pick
// number is always one past the last recorded pick, so the log stays
// dense and duplicate-free no matter who calls.
func (m *MemoryDAL) MakePick(playerID string) (*models.Pick, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.picks) >= m.cfg.TotalPicks() {
		return nil, ErrDraftComplete
	}

	var player *models.Player
	for i := range m.players {
		if m.players[i].ID == playerID {
			player = &m.players[i]
			break
		}
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}
	if player.Drafted {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyDrafted, player.Name)
	}

	player.Drafted = true
	snapshot := *player
	pick := models.Pick{
		PickNumber: len(m.picks) + 1,
		Player:     &snapshot,
	}
	m.picks = append(m.picks, pick)

	return &pick, nil
}

func (m *MemoryDAL) ListPicks() ([]models.Pick, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyPicks(m.picks), nil
}

func (m *MemoryDAL) SaveQueue(userID string, playerIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := make([]string, len(playerIDs))
	copy(saved, playerIDs)
	m.queues[userID] = saved
	return nil
}

func (m *MemoryDAL) LoadQueue(userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	saved := m.queues[userID]
	out := make([]string, len(saved))
	copy(out, saved)
	return out, nil
}

func copyPicks(picks []models.Pick) []models.Pick {
	out := make([]models.Pick, len(picks))
	for i, p := range picks {
		out[i] = p
		if p.Player != nil {
			player := *p.Player
			out[i].Player = &player
		}
	}
	return out
}

func getDefaultPlayers() []models.Player {
	return []models.Player{
		{ID: "1", Name: "Ja'Marr Chase", Position: models.PositionWR, Team: "CIN", ADP: 1.2, ProjectedPoints: 312.4},
		{ID: "2", Name: "Bijan Robinson", Position: models.PositionRB, Team: "ATL", ADP: 2.1, ProjectedPoints: 298.7},
		{ID: "3", Name: "Justin Jefferson", Position: models.PositionWR, Team: "MIN", ADP: 3.4, ProjectedPoints: 295.1},
		{ID: "4", Name: "Saquon Barkley", Position: models.PositionRB, Team: "PHI", ADP: 4.0, ProjectedPoints: 289.9},
		{ID: "5", Name: "CeeDee Lamb", Position: models.PositionWR, Team: "DAL", ADP: 5.3, ProjectedPoints: 281.6},
		{ID: "6", Name: "Jahmyr Gibbs", Position: models.PositionRB, Team: "DET", ADP: 6.1, ProjectedPoints: 278.0},
		{ID: "7", Name: "Amon-Ra St. Brown", Position: models.PositionWR, Team: "DET", ADP: 7.5, ProjectedPoints: 271.3},
		{ID: "8", Name: "Puka Nacua", Position: models.PositionWR, Team: "LAR", ADP: 8.2, ProjectedPoints: 266.8},
		{ID: "9", Name: "Christian McCaffrey", Position: models.PositionRB, Team: "SF", ADP: 9.7, ProjectedPoints: 262.5},
		{ID: "10", Name: "Malik Nabers", Position: models.PositionWR, Team: "NYG", ADP: 10.4, ProjectedPoints: 258.2},
		{ID: "11", Name: "Derrick Henry", Position: models.PositionRB, Team: "BAL", ADP: 11.8, ProjectedPoints: 251.9},
		{ID: "12", Name: "Brian Thomas Jr.", Position: models.PositionWR, Team: "JAX", ADP: 12.6, ProjectedPoints: 247.4},
		{ID: "13", Name: "Josh Allen", Position: models.PositionQB, Team: "BUF", ADP: 13.9, ProjectedPoints: 389.5},
		{ID: "14", Name: "Lamar Jackson", Position: models.PositionQB, Team: "BAL", ADP: 15.2, ProjectedPoints: 381.2},
		{ID: "15", Name: "Brock Bowers", Position: models.PositionTE, Team: "LV", ADP: 16.8, ProjectedPoints: 198.6},
		{ID: "16", Name: "Ashton Jeanty", Position: models.PositionRB, Team: "LV", ADP: 17.3, ProjectedPoints: 238.1},
		{ID: "17", Name: "Nico Collins", Position: models.PositionWR, Team: "HOU", ADP: 18.5, ProjectedPoints: 235.7},
		{ID: "18", Name: "Trey McBride", Position: models.PositionTE, Team: "ARI", ADP: 19.1, ProjectedPoints: 189.3},
		{ID: "19", Name: "Jayden Daniels", Position: models.PositionQB, Team: "WAS", ADP: 20.6, ProjectedPoints: 364.8},
		{ID: "20", Name: "A.J. Brown", Position: models.PositionWR, Team: "PHI", ADP: 21.2, ProjectedPoints: 229.4},
		{ID: "21", Name: "De'Von Achane", Position: models.PositionRB, Team: "MIA", ADP: 22.7, ProjectedPoints: 226.0},
		{ID: "22", Name: "George Kittle", Position: models.PositionTE, Team: "SF", ADP: 24.3, ProjectedPoints: 176.5},
		{ID: "23", Name: "Joe Burrow", Position: models.PositionQB, Team: "CIN", ADP: 25.9, ProjectedPoints: 352.1},
		{ID: "24", Name: "Drake London", Position: models.PositionWR, Team: "ATL", ADP: 26.4, ProjectedPoints: 221.8},
	}
}

func getDefaultParticipants(count int) []models.Participant {
	participants := make([]models.Participant, count)
	for i := range participants {
		name := fmt.Sprintf("Team %d", i+1)
		if i == 0 {
			name = "You"
		}
		participants[i] = models.Participant{Index: i, Name: name}
	}
	return participants
}
