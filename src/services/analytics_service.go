// backend/src/services/analytics_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/processors"
)

// Cache key formats, all prefixed by user id so invalidation can sweep one
// user without touching the rest.
const (
	ckEquityCurve = "user:%d:equity:%s"
	ckMonthlyPnl  = "user:%d:monthly:%s"
	ckCards       = "user:%d:cards:%s"
	ckCosts       = "user:%d:costs:%s"
	ckUserPrefix  = "user:%d:"
)

// AnalyticsDefaults carries the fallbacks used when neither the request
// nor the user's settings supply a value.
type AnalyticsDefaults struct {
	Timezone       string
	InitialBalance float64
}

type analyticsServiceImpl struct {
	store       FillStore
	cashFlows   CashFlowSource
	settings    UserSettingsSource
	roundTrips  processors.RoundTripProcessor
	equity      processors.EquityCurveProcessor
	monthly     processors.MonthlyPnlProcessor
	cards       processors.SummaryCardsProcessor
	costs       processors.CostProcessor
	reportCache *gocache.Cache
	defaults    AnalyticsDefaults
}

// NewAnalyticsService wires the reporting pipeline. The report cache is
// constructed by the caller so its TTL stays a composition-time decision.
func NewAnalyticsService(
	store FillStore,
	cashFlows CashFlowSource,
	settings UserSettingsSource,
	roundTrips processors.RoundTripProcessor,
	equity processors.EquityCurveProcessor,
	monthly processors.MonthlyPnlProcessor,
	cards processors.SummaryCardsProcessor,
	costs processors.CostProcessor,
	reportCache *gocache.Cache,
	defaults AnalyticsDefaults,
) AnalyticsService {
	return &analyticsServiceImpl{
		store:       store,
		cashFlows:   cashFlows,
		settings:    settings,
		roundTrips:  roundTrips,
		equity:      equity,
		monthly:     monthly,
		cards:       cards,
		costs:       costs,
		reportCache: reportCache,
		defaults:    defaults,
	}
}

// EquityCurve builds the daily equity series. Initial balance resolution:
// request value, then the user's stored initial capital, then the
// configured default. Cash flow fetch failures degrade to an empty list.
func (s *analyticsServiceImpl) EquityCurve(ctx context.Context, userID int64, req models.EquityCurveRequest) (models.EquityCurveResponse, error) {
	key := fmt.Sprintf(ckEquityCurve, userID, requestKey(req))
	if cached, found := s.reportCache.Get(key); found {
		return cached.(models.EquityCurveResponse), nil
	}

	trades, err := s.closedTrades(userID, req.AnalyticsFilters)
	if err != nil {
		return models.EquityCurveResponse{}, err
	}

	settings := s.userSettings(ctx, userID)

	initialBalance := req.InitialBalance
	if initialBalance == 0 && settings != nil && settings.InitialCapital != nil {
		initialBalance = *settings.InitialCapital
	}
	if initialBalance == 0 {
		initialBalance = s.defaults.InitialBalance
	}

	cashFlows, err := s.cashFlows.FetchCashFlows(userID, req.AccountIDs, req.Start, req.End)
	if err != nil {
		logger.WarnFromContext(ctx, "Cash flow fetch failed, continuing without", slog.Any("error", err))
		cashFlows = nil
	}

	resp := s.equity.Compute(trades, cashFlows, processors.EquityCurveOptions{
		Timezone:       s.timezone(req.UserTimezone, settings),
		InitialBalance: initialBalance,
		Start:          req.Start,
		End:            req.End,
	})
	s.reportCache.SetDefault(key, resp)
	return resp, nil
}

// MonthlyPnl buckets closed trades into calendar months.
func (s *analyticsServiceImpl) MonthlyPnl(ctx context.Context, userID int64, req models.AnalyticsFilters) (models.MonthlyPnlResponse, error) {
	key := fmt.Sprintf(ckMonthlyPnl, userID, requestKey(req))
	if cached, found := s.reportCache.Get(key); found {
		return cached.(models.MonthlyPnlResponse), nil
	}

	trades, err := s.closedTrades(userID, req)
	if err != nil {
		return models.MonthlyPnlResponse{}, err
	}

	resp := s.monthly.Compute(trades, processors.MonthlyPnlOptions{
		Timezone: s.timezone(req.UserTimezone, s.userSettings(ctx, userID)),
		Start:    req.Start,
		End:      req.End,
	})
	s.reportCache.SetDefault(key, resp)
	return resp, nil
}

// Cards computes the dashboard summary over closed trades.
func (s *analyticsServiceImpl) Cards(ctx context.Context, userID int64, req models.AnalyticsFilters) (models.CardsSummary, error) {
	key := fmt.Sprintf(ckCards, userID, requestKey(req))
	if cached, found := s.reportCache.Get(key); found {
		return cached.(models.CardsSummary), nil
	}

	trades, err := s.closedTrades(userID, req)
	if err != nil {
		return models.CardsSummary{}, err
	}

	resp := s.cards.Compute(trades)
	s.reportCache.SetDefault(key, resp)
	return resp, nil
}

// Costs breaks down fees, slippage and the asset-specific cost views.
func (s *analyticsServiceImpl) Costs(ctx context.Context, userID int64, req models.AnalyticsFilters) (models.CostsResponse, error) {
	key := fmt.Sprintf(ckCosts, userID, requestKey(req))
	if cached, found := s.reportCache.Get(key); found {
		return cached.(models.CostsResponse), nil
	}

	trades, err := s.closedTrades(userID, req)
	if err != nil {
		return models.CostsResponse{}, err
	}

	resp := s.costs.Compute(trades)
	s.reportCache.SetDefault(key, resp)
	return resp, nil
}

// TradeRows serves flat per-trade rows for distribution charts.
func (s *analyticsServiceImpl) TradeRows(ctx context.Context, userID int64, req models.AnalyticsFilters) ([]models.TradeRow, error) {
	trades, err := s.closedTrades(userID, req)
	if err != nil {
		return nil, err
	}
	return processors.TradeRows(trades, s.timezone(req.UserTimezone, s.userSettings(ctx, userID))), nil
}

// CompletedTrades lists reconstructed round trips, open ones included.
func (s *analyticsServiceImpl) CompletedTrades(ctx context.Context, userID int64, filters models.FillFilters) ([]models.Trade, error) {
	fills, err := s.store.FetchFills(userID, filters)
	if err != nil {
		return nil, fmt.Errorf("fetching fills: %w", err)
	}
	return s.roundTrips.Group(fills), nil
}

// DeleteAllFills wipes the user's fills and their cached reports.
func (s *analyticsServiceImpl) DeleteAllFills(ctx context.Context, userID int64) (int64, error) {
	n, err := s.store.DeleteAllFills(userID)
	if err != nil {
		return 0, err
	}
	s.InvalidateUserCache(userID)
	logger.InfoFromContext(ctx, "Deleted all fills", slog.Int64("count", n))
	return n, nil
}

// InvalidateUserCache drops every cached report for the user.
func (s *analyticsServiceImpl) InvalidateUserCache(userID int64) {
	prefix := fmt.Sprintf(ckUserPrefix, userID)
	for key := range s.reportCache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.reportCache.Delete(key)
		}
	}
}

// closedTrades fetches fills, reconstructs round trips and keeps the
// closed ones, which is what every aggregate endpoint consumes.
func (s *analyticsServiceImpl) closedTrades(userID int64, req models.AnalyticsFilters) ([]models.Trade, error) {
	fills, err := s.store.FetchFills(userID, models.FillFilters{
		AccountIDs:   req.AccountIDs,
		AssetClasses: req.AssetClasses,
		Start:        req.Start,
		End:          req.End,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching fills: %w", err)
	}

	all := s.roundTrips.Group(fills)
	closed := make([]models.Trade, 0, len(all))
	for _, t := range all {
		if t.Status == "closed" {
			closed = append(closed, t)
		}
	}
	return closed, nil
}

func (s *analyticsServiceImpl) userSettings(ctx context.Context, userID int64) *models.UserSettings {
	settings, err := s.settings.GetUserSettings(userID)
	if err != nil {
		logger.WarnFromContext(ctx, "User settings fetch failed, using defaults", slog.Any("error", err))
		return nil
	}
	return settings
}

func (s *analyticsServiceImpl) timezone(requested string, settings *models.UserSettings) string {
	if requested != "" {
		return requested
	}
	if settings != nil && settings.Timezone != "" {
		return settings.Timezone
	}
	return s.defaults.Timezone
}

// requestKey canonicalizes a request body into a stable cache key suffix.
func requestKey(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "~"
	}
	return string(data)
}
