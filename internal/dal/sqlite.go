package dal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/draftroom/bestball-draft/internal/draft"
	"github.com/draftroom/bestball-draft/internal/models"
)

// SQLiteDAL implements DraftDAL using SQLite
type SQLiteDAL struct {
	db  *sql.DB
	cfg draft.Config
}

// NewSQLiteDAL creates a new SQLite data access layer
func NewSQLiteDAL(dbPath string, cfg draft.Config) (*SQLiteDAL, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	dal := &SQLiteDAL{db: db, cfg: cfg}
	if err := dal.initSchema(); err != nil {
		return nil, err
	}

	return dal, nil
}

func (s *SQLiteDAL) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		position TEXT NOT NULL,
		team TEXT NOT NULL,
		adp REAL NOT NULL DEFAULT 0,
		projected_points REAL NOT NULL DEFAULT 0,
		drafted INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS participants (
		idx INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS picks (
		pick_number INTEGER PRIMARY KEY,
		player_id TEXT NOT NULL REFERENCES players(id)
	);

	CREATE TABLE IF NOT EXISTS queues (
		user_id TEXT NOT NULL,
		slot INTEGER NOT NULL,
		player_id TEXT NOT NULL,
		PRIMARY KEY (user_id, slot)
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Seed default data if empty
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM players").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		if err := s.seedData(); err != nil {
			return err
		}
	}

	return nil
}

func (s *SQLiteDAL) seedData() error {
	for _, p := range getDefaultPlayers() {
		_, err := s.db.Exec(`
			INSERT INTO players (id, name, position, team, adp, projected_points, drafted)
			VALUES (?, ?, ?, ?, ?, ?, 0)
		`, p.ID, p.Name, p.Position, p.Team, p.ADP, p.ProjectedPoints)
		if err != nil {
			return err
		}
	}

	for _, part := range getDefaultParticipants(s.cfg.ParticipantCount) {
		_, err := s.db.Exec(`
			INSERT INTO participants (idx, name) VALUES (?, ?)
		`, part.Index, part.Name)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *SQLiteDAL) GetState() (*models.DraftState, error) {
	state := &models.DraftState{
		Players:      []models.Player{},
		Participants: []models.Participant{},
	}

	rows, err := s.db.Query(`
		SELECT id, name, position, team, adp, projected_points, drafted
		FROM players ORDER BY adp ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Player
		var drafted int
		if err := rows.Scan(&p.ID, &p.Name, &p.Position, &p.Team, &p.ADP, &p.ProjectedPoints, &drafted); err != nil {
			return nil, err
		}
		p.Drafted = drafted == 1
		state.Players = append(state.Players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	partRows, err := s.db.Query(`SELECT idx, name FROM participants ORDER BY idx ASC`)
	if err != nil {
		return nil, err
	}
	defer partRows.Close()

	for partRows.Next() {
		var part models.Participant
		if err := partRows.Scan(&part.Index, &part.Name); err != nil {
			return nil, err
		}
		state.Participants = append(state.Participants, part)
	}
	if err := partRows.Err(); err != nil {
		return nil, err
	}

	state.Picks, err = s.ListPicks()
	if err != nil {
		return nil, err
	}

	AnnotateClock(state, s.cfg)
	return state, nil
}

func (s *SQLiteDAL) Reset() error {
	for _, table := range []string{"picks", "queues", "participants", "players"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	return s.seedData()
}

func (s *SQLiteDAL) AddPlayer(player *models.Player) (*models.Player, error) {
	if player.ID == "" {
		player.ID = genID("player")
	}
	if player.ADP == 0 {
		var count int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM players").Scan(&count); err != nil {
			return nil, err
		}
		player.ADP = float64(count + 1)
	}

	drafted := 0
	if player.Drafted {
		drafted = 1
	}

	_, err := s.db.Exec(`
		INSERT INTO players (id, name, position, team, adp, projected_points, drafted)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, player.ID, player.Name, player.Position, player.Team, player.ADP, player.ProjectedPoints, drafted)

	return player, err
}

func (s *SQLiteDAL) SetPlayerADP(id string, adp float64) (*models.Player, error) {
	res, err := s.db.Exec(`UPDATE players SET adp = ? WHERE id = ?`, adp, id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrPlayerNotFound
	}

	var p models.Player
	var drafted int
	err = s.db.QueryRow(`
		SELECT id, name, position, team, adp, projected_points, drafted
		FROM players WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Position, &p.Team, &p.ADP, &p.ProjectedPoints, &drafted)
	if err != nil {
		return nil, err
	}
	p.Drafted = drafted == 1

	return &p, nil
}

func (s *SQLiteDAL) SetParticipantName(index int, name string) error {
	res, err := s.db.Exec(`UPDATE participants SET name = ? WHERE idx = ?`, name, index)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

func (s *SQLiteDAL) MakePick(playerID string) (*models.Pick, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var made int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM picks`).Scan(&made); err != nil {
		return nil, err
	}
	if made >= s.cfg.TotalPicks() {
		return nil, ErrDraftComplete
	}

	var p models.Player
	var drafted int
	err = tx.QueryRow(`
		SELECT id, name, position, team, adp, projected_points, drafted
		FROM players WHERE id = ?
	`, playerID).Scan(&p.ID, &p.Name, &p.Position, &p.Team, &p.ADP, &p.ProjectedPoints, &drafted)
	if err == sql.ErrNoRows {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	if drafted == 1 {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyDrafted, p.Name)
	}

	pickNumber := made + 1
	if _, err := tx.Exec(`UPDATE players SET drafted = 1 WHERE id = ?`, playerID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(`
		INSERT INTO picks (pick_number, player_id) VALUES (?, ?)
	`, pickNumber, playerID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	p.Drafted = true
	return &models.Pick{PickNumber: pickNumber, Player: &p}, nil
}

func (s *SQLiteDAL) ListPicks() ([]models.Pick, error) {
	rows, err := s.db.Query(`
		SELECT k.pick_number, p.id, p.name, p.position, p.team, p.adp, p.projected_points
		FROM picks k JOIN players p ON p.id = k.player_id
		ORDER BY k.pick_number ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	picks := []models.Pick{}
	for rows.Next() {
		var pick models.Pick
		var p models.Player
		if err := rows.Scan(&pick.PickNumber, &p.ID, &p.Name, &p.Position, &p.Team, &p.ADP, &p.ProjectedPoints); err != nil {
			return nil, err
		}
		p.Drafted = true
		pick.Player = &p
		picks = append(picks, pick)
	}
	return picks, rows.Err()
}

func (s *SQLiteDAL) SaveQueue(userID string, playerIDs []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM queues WHERE user_id = ?`, userID); err != nil {
		return err
	}
	for slot, id := range playerIDs {
		if _, err := tx.Exec(`
			INSERT INTO queues (user_id, slot, player_id) VALUES (?, ?, ?)
		`, userID, slot, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteDAL) LoadQueue(userID string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT player_id FROM queues WHERE user_id = ? ORDER BY slot ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteDAL) Close() error {
	return s.db.Close()
}
