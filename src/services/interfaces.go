// backend/src/services/interfaces.go
package services

import (
	"context"

	"github.com/username/tradejournal/backend/src/models"
)

// FillStore persists canonical fills and import bookkeeping.
type FillStore interface {
	ExistingDedupeHashes(userID int64, hashes []string) (map[string]bool, error)
	BulkInsertFills(userID int64, importJobID string, fills []models.NormalizedFill) (inserted, duplicates int, err error)
	FetchFills(userID int64, filters models.FillFilters) ([]models.NormalizedFill, error)
	DeleteAllFills(userID int64) (int64, error)
	RecordImportErrors(importJobID string, errs []models.RowError) error
	UpdateImportJobStatus(userID int64, importJobID, status string) error
}

// AccountResolver maps broker-supplied account references to internal ids.
type AccountResolver interface {
	ResolveAccount(userID int64, brokerID, externalRef string) (string, error)
}

// CashFlowSource supplies deposits and withdrawals for the equity curve.
type CashFlowSource interface {
	FetchCashFlows(userID int64, accountIDs []string, start, end string) ([]models.CashFlow, error)
}

// UserSettingsSource supplies per-user analytics preferences.
type UserSettingsSource interface {
	GetUserSettings(userID int64) (*models.UserSettings, error)
}

// ImportService drives schema detection and batch commits.
type ImportService interface {
	Detect(ctx context.Context, content []byte, hint models.DetectionHint) (models.DetectionResult, error)
	Commit(ctx context.Context, userID int64, req models.ImportCommitRequest) (models.ImportCommitResult, error)
}

// AnalyticsService serves the reporting endpoints over reconstructed
// round trips.
type AnalyticsService interface {
	EquityCurve(ctx context.Context, userID int64, req models.EquityCurveRequest) (models.EquityCurveResponse, error)
	MonthlyPnl(ctx context.Context, userID int64, req models.AnalyticsFilters) (models.MonthlyPnlResponse, error)
	Cards(ctx context.Context, userID int64, req models.AnalyticsFilters) (models.CardsSummary, error)
	Costs(ctx context.Context, userID int64, req models.AnalyticsFilters) (models.CostsResponse, error)
	TradeRows(ctx context.Context, userID int64, req models.AnalyticsFilters) ([]models.TradeRow, error)
	CompletedTrades(ctx context.Context, userID int64, filters models.FillFilters) ([]models.Trade, error)
	DeleteAllFills(ctx context.Context, userID int64) (int64, error)
	InvalidateUserCache(userID int64)
}
