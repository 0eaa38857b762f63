package mocks

import (
	"github.com/draftroom/bestball-draft/internal/dal"
	"github.com/draftroom/bestball-draft/internal/draft"
	"github.com/draftroom/bestball-draft/internal/logger"
)

// MockPostgresDAL provides a mock Postgres implementation using SQLite for local development
type MockPostgresDAL struct {
	*dal.SQLiteDAL
}

// NewMockPostgresDAL creates a mock Postgres DAL using SQLite
func NewMockPostgresDAL(sqliteFile string, cfg draft.Config) (*MockPostgresDAL, error) {
	logger.Info("using MOCK Postgres (SQLite) for local development")

	sqliteDAL, err := dal.NewSQLiteDAL(sqliteFile, cfg)
	if err != nil {
		return nil, err
	}

	return &MockPostgresDAL{
		SQLiteDAL: sqliteDAL,
	}, nil
}
