// backend/src/services/store.go
package services

import (
	"database/sql"

	"github.com/username/tradejournal/backend/src/model"
	"github.com/username/tradejournal/backend/src/models"
)

// sqliteStore adapts the model package to the collaborator interfaces the
// services depend on. One instance backs all of them.
type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps the database as FillStore, AccountResolver,
// CashFlowSource and UserSettingsSource.
func NewSQLiteStore(db *sql.DB) *sqliteStore {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) ExistingDedupeHashes(userID int64, hashes []string) (map[string]bool, error) {
	return model.ExistingDedupeHashes(s.db, userID, hashes)
}

func (s *sqliteStore) BulkInsertFills(userID int64, importJobID string, fills []models.NormalizedFill) (int, int, error) {
	return model.BulkInsertFills(s.db, userID, importJobID, fills)
}

func (s *sqliteStore) FetchFills(userID int64, filters models.FillFilters) ([]models.NormalizedFill, error) {
	return model.FetchFills(s.db, userID, filters)
}

func (s *sqliteStore) DeleteAllFills(userID int64) (int64, error) {
	return model.DeleteAllFills(s.db, userID)
}

func (s *sqliteStore) RecordImportErrors(importJobID string, errs []models.RowError) error {
	return model.InsertImportErrors(s.db, importJobID, errs)
}

func (s *sqliteStore) UpdateImportJobStatus(userID int64, importJobID, status string) error {
	return model.UpdateImportJobStatus(s.db, userID, importJobID, status)
}

func (s *sqliteStore) ResolveAccount(userID int64, brokerID, externalRef string) (string, error) {
	return model.GetAccountIDByExternal(s.db, userID, brokerID, externalRef)
}

func (s *sqliteStore) FetchCashFlows(userID int64, accountIDs []string, start, end string) ([]models.CashFlow, error) {
	return model.FetchCashFlows(s.db, userID, accountIDs, start, end)
}

func (s *sqliteStore) GetUserSettings(userID int64) (*models.UserSettings, error) {
	return model.GetUserSettings(s.db, userID)
}
