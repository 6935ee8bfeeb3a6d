package services

import (
	"context"
	"testing"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/processors"
)

type fakeCashFlows struct {
	flows []models.CashFlow
	err   error
}

func (f *fakeCashFlows) FetchCashFlows(userID int64, accountIDs []string, start, end string) ([]models.CashFlow, error) {
	return f.flows, f.err
}

type fakeSettings struct {
	settings *models.UserSettings
	err      error
}

func (f *fakeSettings) GetUserSettings(userID int64) (*models.UserSettings, error) {
	return f.settings, f.err
}

func newAnalyticsFixture(store *fakeStore, cashFlows *fakeCashFlows, settings *fakeSettings) AnalyticsService {
	multipliers := processors.NewMultiplierTable()
	return NewAnalyticsService(
		store, cashFlows, settings,
		processors.NewRoundTripProcessor(),
		processors.NewEquityCurveProcessor(multipliers),
		processors.NewMonthlyPnlProcessor(multipliers),
		processors.NewSummaryCardsProcessor(multipliers),
		processors.NewCostProcessor(multipliers),
		gocache.New(time.Minute, time.Minute),
		AnalyticsDefaults{Timezone: "UTC", InitialBalance: 10000},
	)
}

func storeFill(id int64, symbol, side string, qty, price float64, execTime string) models.NormalizedFill {
	return models.NormalizedFill{
		ID:         id,
		Symbol:     symbol,
		AssetClass: "stocks",
		Side:       side,
		Quantity:   qty,
		Price:      price,
		ExecTime:   execTime,
	}
}

func roundTripFills() []models.NormalizedFill {
	return []models.NormalizedFill{
		storeFill(1, "AAPL", "buy", 5, 100, "2024-03-01T09:30:00"),
		storeFill(2, "AAPL", "sell", 5, 105, "2024-03-01T15:00:00"),
		storeFill(3, "MSFT", "buy", 2, 400, "2024-03-01T10:00:00"),
	}
}

func TestCardsUsesClosedTradesOnly(t *testing.T) {
	store := &fakeStore{fetchResult: roundTripFills()}
	svc := newAnalyticsFixture(store, &fakeCashFlows{}, &fakeSettings{})

	cards, err := svc.Cards(context.Background(), 1, models.AnalyticsFilters{})
	if err != nil {
		t.Fatalf("Cards failed: %v", err)
	}
	if cards.TradeCount != 1 {
		t.Errorf("Expected only the closed round trip counted, got %d", cards.TradeCount)
	}
	if cards.RealizedPnl != 25 {
		t.Errorf("Expected realized 25, got %f", cards.RealizedPnl)
	}
}

func TestCompletedTradesIncludesOpen(t *testing.T) {
	store := &fakeStore{fetchResult: roundTripFills()}
	svc := newAnalyticsFixture(store, &fakeCashFlows{}, &fakeSettings{})

	trades, err := svc.CompletedTrades(context.Background(), 1, models.FillFilters{})
	if err != nil {
		t.Fatalf("CompletedTrades failed: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("Expected one closed and one open trade, got %d", len(trades))
	}
	statuses := map[string]int{}
	for _, tr := range trades {
		statuses[tr.Status]++
	}
	if statuses["closed"] != 1 || statuses["open"] != 1 {
		t.Errorf("Unexpected status mix %+v", statuses)
	}
}

func TestEquityCurveInitialBalanceResolution(t *testing.T) {
	stored := 5000.0
	cases := []struct {
		name     string
		request  float64
		settings *models.UserSettings
		want     float64
	}{
		{"request wins", 7000, &models.UserSettings{InitialCapital: &stored}, 7000},
		{"settings next", 0, &models.UserSettings{InitialCapital: &stored}, 5000},
		{"default last", 0, nil, 10000},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			store := &fakeStore{fetchResult: roundTripFills()}
			svc := newAnalyticsFixture(store, &fakeCashFlows{}, &fakeSettings{settings: c.settings})

			resp, err := svc.EquityCurve(context.Background(), 1, models.EquityCurveRequest{InitialBalance: c.request})
			if err != nil {
				t.Fatalf("EquityCurve failed: %v", err)
			}
			if resp.InitialBalance != c.want {
				t.Errorf("Expected initial balance %f, got %f", c.want, resp.InitialBalance)
			}
		})
	}
}

func TestEquityCurveSurvivesCashFlowFailure(t *testing.T) {
	store := &fakeStore{fetchResult: roundTripFills()}
	svc := newAnalyticsFixture(store, &fakeCashFlows{err: errNotMapped}, &fakeSettings{})

	resp, err := svc.EquityCurve(context.Background(), 1, models.EquityCurveRequest{})
	if err != nil {
		t.Fatalf("Expected graceful degradation, got %v", err)
	}
	if len(resp.Points) == 0 {
		t.Error("Expected a curve despite the cash flow failure")
	}
}

func TestReportCaching(t *testing.T) {
	store := &fakeStore{fetchResult: roundTripFills()}
	svc := newAnalyticsFixture(store, &fakeCashFlows{}, &fakeSettings{})
	ctx := context.Background()

	if _, err := svc.Cards(ctx, 1, models.AnalyticsFilters{}); err != nil {
		t.Fatalf("Cards failed: %v", err)
	}
	if _, err := svc.Cards(ctx, 1, models.AnalyticsFilters{}); err != nil {
		t.Fatalf("Cards failed: %v", err)
	}
	if store.fetchCalls != 1 {
		t.Errorf("Expected the second call served from cache, got %d fetches", store.fetchCalls)
	}

	svc.InvalidateUserCache(1)
	if _, err := svc.Cards(ctx, 1, models.AnalyticsFilters{}); err != nil {
		t.Fatalf("Cards failed: %v", err)
	}
	if store.fetchCalls != 2 {
		t.Errorf("Expected invalidation to force a recompute, got %d fetches", store.fetchCalls)
	}
}

func TestCacheIsolatedPerUser(t *testing.T) {
	store := &fakeStore{fetchResult: roundTripFills()}
	svc := newAnalyticsFixture(store, &fakeCashFlows{}, &fakeSettings{})
	ctx := context.Background()

	if _, err := svc.Cards(ctx, 1, models.AnalyticsFilters{}); err != nil {
		t.Fatalf("Cards failed: %v", err)
	}
	if _, err := svc.Cards(ctx, 2, models.AnalyticsFilters{}); err != nil {
		t.Fatalf("Cards failed: %v", err)
	}

	svc.InvalidateUserCache(1)
	if _, err := svc.Cards(ctx, 2, models.AnalyticsFilters{}); err != nil {
		t.Fatalf("Cards failed: %v", err)
	}
	// User 2's report stays cached across user 1's invalidation.
	if store.fetchCalls != 2 {
		t.Errorf("Expected user 2 served from cache, got %d fetches", store.fetchCalls)
	}
}

func TestDeleteAllFillsInvalidatesCache(t *testing.T) {
	store := &fakeStore{fetchResult: roundTripFills(), deleted: 3}
	svc := newAnalyticsFixture(store, &fakeCashFlows{}, &fakeSettings{})
	ctx := context.Background()

	if _, err := svc.Cards(ctx, 1, models.AnalyticsFilters{}); err != nil {
		t.Fatalf("Cards failed: %v", err)
	}
	n, err := svc.DeleteAllFills(ctx, 1)
	if err != nil {
		t.Fatalf("DeleteAllFills failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 deleted, got %d", n)
	}
	if _, err := svc.Cards(ctx, 1, models.AnalyticsFilters{}); err != nil {
		t.Fatalf("Cards failed: %v", err)
	}
	if store.fetchCalls != 2 {
		t.Errorf("Expected cached reports dropped on delete, got %d fetches", store.fetchCalls)
	}
}
