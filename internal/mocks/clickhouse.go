package mocks

import (
	"math/rand"

	"github.com/draftroom/bestball-draft/internal/logger"
)

// MockAnalyticsClient stands in for the ClickHouse ADP pipeline during
// local development. It serves the consensus numbers the board was seeded
// with, jittered a little so sync cycles visibly do something.
type MockAnalyticsClient struct {
	baseADP map[string]float64
}

// NewMockAnalyticsClient creates a mock analytics client
func NewMockAnalyticsClient() *MockAnalyticsClient {
	logger.Info("using MOCK analytics client for local development")

	return &MockAnalyticsClient{
		baseADP: map[string]float64{
			"1":  1.2,
			"2":  2.1,
			"3":  3.4,
			"4":  4.0,
			"5":  5.3,
			"6":  6.1,
			"7":  7.5,
			"8":  8.2,
			"9":  9.7,
			"10": 10.4,
			"11": 11.8,
			"12": 12.6,
			"13": 13.9,
			"14": 15.2,
			"15": 16.8,
			"16": 17.3,
			"17": 18.5,
			"18": 19.1,
			"19": 20.6,
			"20": 21.2,
			"21": 22.7,
			"22": 24.3,
			"23": 25.9,
			"24": 26.4,
		},
	}
}

// RecordPick is a no-op for the mock; nothing aggregates it.
func (m *MockAnalyticsClient) RecordPick(draftID, playerID string, pickNumber int) error {
	return nil
}

// GetADP returns the mock average draft position with slight variation.
func (m *MockAnalyticsClient) GetADP(playerID string) (float64, error) {
	base, ok := m.baseADP[playerID]
	if !ok {
		base = 100 // deep bench for unknown players
	}
	return jitter(base), nil
}

// GetAllADP returns mock ADP for every known player.
func (m *MockAnalyticsClient) GetAllADP() (map[string]float64, error) {
	result := make(map[string]float64, len(m.baseADP))
	for id, base := range m.baseADP {
		result[id] = jitter(base)
	}
	return result, nil
}

// SyncADP pushes mock ADP values through updateFunc.
func (m *MockAnalyticsClient) SyncADP(updateFunc func(playerID string, adp float64) error) error {
	all, err := m.GetAllADP()
	if err != nil {
		return err
	}

	for playerID, adp := range all {
		if err := updateFunc(playerID, adp); err != nil {
			logger.Warn("failed to update ADP", "error", err, "player", playerID)
		}
	}

	return nil
}

// Close is a no-op for mock client
func (m *MockAnalyticsClient) Close() error {
	return nil
}

// jitter shifts a value by up to 5% either way.
func jitter(base float64) float64 {
	return base * (0.95 + rand.Float64()*0.1)
}
