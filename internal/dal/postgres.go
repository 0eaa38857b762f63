package dal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/draftroom/bestball-draft/internal/draft"
	"github.com/draftroom/bestball-draft/internal/models"
)

// PostgresDAL implements DraftDAL using PostgreSQL
type PostgresDAL struct {
	db  *sql.DB
	cfg draft.Config
}

// NewPostgresDAL creates a new PostgreSQL data access layer
func NewPostgresDAL(connString string, cfg draft.Config) (*PostgresDAL, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	// Pool settings sized for a managed cluster with modest max_connections.
	// Short lifetimes let connections recycle through failovers.
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	// In Kubernetes the database DNS name can lag the pod start, so ping
	// with retries before giving up.
	maxRetries := 5
	retryDelay := 5 * time.Second
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		err := db.PingContext(ctx)
		cancel()

		if err == nil {
			lastErr = nil
			break
		}

		lastErr = err
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("failed to ping postgres after %d retries: %w", maxRetries, lastErr)
	}

	dal := &PostgresDAL{db: db, cfg: cfg}
	if err := dal.initSchema(); err != nil {
		return nil, err
	}

	return dal, nil
}

func (pg *PostgresDAL) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		position TEXT NOT NULL,
		team TEXT NOT NULL,
		adp DOUBLE PRECISION NOT NULL DEFAULT 0,
		projected_points DOUBLE PRECISION NOT NULL DEFAULT 0,
		drafted BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS participants (
		idx INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS picks (
		pick_number INTEGER PRIMARY KEY,
		player_id TEXT NOT NULL REFERENCES players(id),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS queues (
		user_id TEXT NOT NULL,
		slot INTEGER NOT NULL,
		player_id TEXT NOT NULL,
		PRIMARY KEY (user_id, slot)
	);

	CREATE INDEX IF NOT EXISTS idx_players_drafted ON players(drafted);
	CREATE INDEX IF NOT EXISTS idx_players_adp ON players(adp);
	CREATE INDEX IF NOT EXISTS idx_queues_user_id ON queues(user_id);
	`

	if _, err := pg.db.Exec(schema); err != nil {
		return err
	}

	var count int
	if err := pg.db.QueryRow("SELECT COUNT(*) FROM players").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		if err := pg.seedData(); err != nil {
			return err
		}
	}

	return nil
}

func (pg *PostgresDAL) seedData() error {
	for _, p := range getDefaultPlayers() {
		_, err := pg.db.Exec(`
			INSERT INTO players (id, name, position, team, adp, projected_points, drafted)
			VALUES ($1, $2, $3, $4, $5, $6, false)
		`, p.ID, p.Name, p.Position, p.Team, p.ADP, p.ProjectedPoints)
		if err != nil {
			return err
		}
	}

	for _, part := range getDefaultParticipants(pg.cfg.ParticipantCount) {
		_, err := pg.db.Exec(`
			INSERT INTO participants (idx, name) VALUES ($1, $2)
		`, part.Index, part.Name)
		if err != nil {
			return err
		}
	}

	return nil
}

func (pg *PostgresDAL) GetState() (*models.DraftState, error) {
	state := &models.DraftState{
		Players:      []models.Player{},
		Participants: []models.Participant{},
	}

	rows, err := pg.db.Query(`
		SELECT id, name, position, team, adp, projected_points, drafted
		FROM players ORDER BY adp ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Position, &p.Team, &p.ADP, &p.ProjectedPoints, &p.Drafted); err != nil {
			return nil, err
		}
		state.Players = append(state.Players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	partRows, err := pg.db.Query(`SELECT idx, name FROM participants ORDER BY idx ASC`)
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

	state.Picks, err = pg.ListPicks()
	if err != nil {
		return nil, err
	}

	AnnotateClock(state, pg.cfg)
	return state, nil
}

func (pg *PostgresDAL) Reset() error {
	for _, table := range []string{"picks", "queues", "participants", "players"} {
		if _, err := pg.db.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	return pg.seedData()
}

func (pg *PostgresDAL) AddPlayer(player *models.Player) (*models.Player, error) {
	if player.ID == "" {
		player.ID = genID("player")
	}
	if player.ADP == 0 {
		var count int
		if err := pg.db.QueryRow("SELECT COUNT(*) FROM players").Scan(&count); err != nil {
			return nil, err
		}
		player.ADP = float64(count + 1)
	}

	_, err := pg.db.Exec(`
		INSERT INTO players (id, name, position, team, adp, projected_points, drafted)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, player.ID, player.Name, player.Position, player.Team, player.ADP, player.ProjectedPoints, player.Drafted)

	return player, err
}

func (pg *PostgresDAL) SetPlayerADP(id string, adp float64) (*models.Player, error) {
	res, err := pg.db.Exec(`
		UPDATE players SET adp = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2
	`, adp, id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrPlayerNotFound
	}

	var p models.Player
	err = pg.db.QueryRow(`
		SELECT id, name, position, team, adp, projected_points, drafted
		FROM players WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Position, &p.Team, &p.ADP, &p.ProjectedPoints, &p.Drafted)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (pg *PostgresDAL) SetParticipantName(index int, name string) error {
	res, err := pg.db.Exec(`UPDATE participants SET name = $1 WHERE idx = $2`, name, index)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

func (pg *PostgresDAL) MakePick(playerID string) (*models.Pick, error) {
	tx, err := pg.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var made int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM picks`).Scan(&made); err != nil {
		return nil, err
	}
	if made >= pg.cfg.TotalPicks() {
		return nil, ErrDraftComplete
	}

	var p models.Player
	err = tx.QueryRow(`
		SELECT id, name, position, team, adp, projected_points, drafted
		FROM players WHERE id = $1 FOR UPDATE
	`, playerID).Scan(&p.ID, &p.Name, &p.Position, &p.Team, &p.ADP, &p.ProjectedPoints, &p.Drafted)
	if err == sql.ErrNoRows {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.Drafted {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyDrafted, p.Name)
	}

	pickNumber := made + 1
	if _, err := tx.Exec(`
		UPDATE players SET drafted = true, updated_at = CURRENT_TIMESTAMP WHERE id = $1
	`, playerID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(`
		INSERT INTO picks (pick_number, player_id) VALUES ($1, $2)
	`, pickNumber, playerID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	p.Drafted = true
	return &models.Pick{PickNumber: pickNumber, Player: &p}, nil
}

func (pg *PostgresDAL) ListPicks() ([]models.Pick, error) {
	rows, err := pg.db.Query(`
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

func (pg *PostgresDAL) SaveQueue(userID string, playerIDs []string) error {
	tx, err := pg.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM queues WHERE user_id = $1`, userID); err != nil {
		return err
	}
	for slot, id := range playerIDs {
		if _, err := tx.Exec(`
			INSERT INTO queues (user_id, slot, player_id) VALUES ($1, $2, $3)
		`, userID, slot, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (pg *PostgresDAL) LoadQueue(userID string) ([]string, error) {
	rows, err := pg.db.Query(`
		SELECT player_id FROM queues WHERE user_id = $1 ORDER BY slot ASC
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

func (pg *PostgresDAL) Close() error {
	return pg.db.Close()
}
