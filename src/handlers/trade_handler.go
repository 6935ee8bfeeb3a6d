// backend/src/handlers/trade_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/services"
	"github.com/username/tradejournal/backend/src/utils"
)

// TradeHandler serves round-trip listings and fill maintenance.
type TradeHandler struct {
	analytics services.AnalyticsService
}

// NewTradeHandler creates a TradeHandler.
func NewTradeHandler(analytics services.AnalyticsService) *TradeHandler {
	return &TradeHandler{analytics: analytics}
}

// CompletedTrades lists reconstructed round trips, filtered by query
// parameters symbol, side, dateFrom and dateTo.
func (h *TradeHandler) CompletedTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	filters := models.FillFilters{
		Symbol: q.Get("symbol"),
		Start:  q.Get("dateFrom"),
		End:    q.Get("dateTo"),
	}
	if side := q.Get("side"); side == "buy" || side == "sell" {
		filters.Side = side
	}

	trades, err := h.analytics.CompletedTrades(r.Context(), userID, filters)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Completed trades failed", slog.Any("error", err))
		utils.SendJSONError(w, "Could not list trades", http.StatusInternalServerError)
		return
	}
	if trades == nil {
		trades = []models.Trade{}
	}
	utils.SendJSON(w, map[string]any{
		"completedTrades": trades,
		"total":           len(trades),
	}, http.StatusOK)
}

// DeleteAllFills removes every fill for the user. Irreversible; the
// frontend double-confirms before calling this.
func (h *TradeHandler) DeleteAllFills(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	n, err := h.analytics.DeleteAllFills(r.Context(), userID)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Delete all fills failed", slog.Any("error", err))
		utils.SendJSONError(w, "Could not delete fills", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, map[string]any{"deleted": n}, http.StatusOK)
}
