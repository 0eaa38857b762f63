// Package analytics computes average draft position (ADP) from the pick
// history of every draft, stored in ClickHouse.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Client provides the ClickHouse-backed ADP pipeline.
type Client struct {
	conn driver.Conn
}

// NewClient connects to ClickHouse and verifies the connection.
func NewClient(addr, database, username, password string) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &Client{conn: conn}, nil
}

// RecordPick appends one selection to the history table. Every completed
// draft room feeds the same table, which is what makes the average
// meaningful.
func (c *Client) RecordPick(draftID, playerID string, pickNumber int) error {
	query := `
		INSERT INTO draft_selections (draft_id, player_id, pick_number, picked_at)
		VALUES ($1, $2, $3, $4)
	`
	return c.conn.Exec(context.Background(), query, draftID, playerID, int32(pickNumber), time.Now())
}

// GetADP returns the average overall pick number for one player across
// drafts from the last 30 days.
func (c *Client) GetADP(playerID string) (float64, error) {
	var adp float64

	query := `
		SELECT avg(pick_number) AS adp
		FROM draft_selections
		WHERE player_id = $1
		AND picked_at >= now() - INTERVAL 30 DAY
	`

	row := c.conn.QueryRow(context.Background(), query, playerID)
	if err := row.Scan(&adp); err != nil {
		return 0, err
	}

	return adp, nil
}

// GetAllADP returns the 30-day average draft position for every player
// with recorded selections.
func (c *Client) GetAllADP() (map[string]float64, error) {
	adp := make(map[string]float64)

	query := `
		SELECT player_id, avg(pick_number) AS adp
		FROM draft_selections
		WHERE picked_at >= now() - INTERVAL 30 DAY
		GROUP BY player_id
	`

	rows, err := c.conn.Query(context.Background(), query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var v float64
		if err := rows.Scan(&id, &v); err != nil {
			return nil, err
		}
		adp[id] = v
	}

	return adp, nil
}

// SyncADP pushes fresh ADP values into the draft board through updateFunc.
// Called on a timer so the board tracks league-wide behavior.
func (c *Client) SyncADP(updateFunc func(playerID string, adp float64) error) error {
	all, err := c.GetAllADP()
	if err != nil {
		return err
	}

	for playerID, adp := range all {
		if err := updateFunc(playerID, adp); err != nil {
			return fmt.Errorf("failed to update ADP for %s: %w", playerID, err)
		}
	}

	return nil
}

// Close closes the ClickHouse connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
