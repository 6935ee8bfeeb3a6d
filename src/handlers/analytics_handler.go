// backend/src/handlers/analytics_handler.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/services"
	"github.com/username/tradejournal/backend/src/utils"
)

// AnalyticsHandler serves the reporting endpoints.
type AnalyticsHandler struct {
	analytics services.AnalyticsService
}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler(analytics services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// sendReport writes a report body with an ETag so clients polling the same
// filters can revalidate instead of re-downloading.
func sendReport(w http.ResponseWriter, r *http.Request, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		utils.SendJSONError(w, "Could not encode response", http.StatusInternalServerError)
		return
	}
	etag := utils.GenerateETag(data)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// EquityCurve returns the daily equity series.
func (h *AnalyticsHandler) EquityCurve(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req models.EquityCurveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	resp, err := h.analytics.EquityCurve(r.Context(), userID, req)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Equity curve failed", slog.Any("error", err))
		utils.SendJSONError(w, "Could not compute equity curve", http.StatusInternalServerError)
		return
	}
	sendReport(w, r, resp)
}

// MonthlyPnl returns calendar-month P&L buckets.
func (h *AnalyticsHandler) MonthlyPnl(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req models.AnalyticsFilters
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	resp, err := h.analytics.MonthlyPnl(r.Context(), userID, req)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Monthly P&L failed", slog.Any("error", err))
		utils.SendJSONError(w, "Could not compute monthly P&L", http.StatusInternalServerError)
		return
	}
	sendReport(w, r, resp)
}

// Cards returns the dashboard summary cards.
func (h *AnalyticsHandler) Cards(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req models.AnalyticsFilters
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	resp, err := h.analytics.Cards(r.Context(), userID, req)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Summary cards failed", slog.Any("error", err))
		utils.SendJSONError(w, "Could not compute summary", http.StatusInternalServerError)
		return
	}
	sendReport(w, r, resp)
}

// Costs returns the cost breakdown report.
func (h *AnalyticsHandler) Costs(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req models.AnalyticsFilters
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	resp, err := h.analytics.Costs(r.Context(), userID, req)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Costs report failed", slog.Any("error", err))
		utils.SendJSONError(w, "Could not compute costs", http.StatusInternalServerError)
		return
	}
	sendReport(w, r, resp)
}

// Trades returns flat per-trade rows for distribution charts.
func (h *AnalyticsHandler) Trades(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req models.AnalyticsFilters
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	rows, err := h.analytics.TradeRows(r.Context(), userID, req)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Trade rows failed", slog.Any("error", err))
		utils.SendJSONError(w, "Could not compute trade rows", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []models.TradeRow{}
	}
	utils.SendJSON(w, rows, http.StatusOK)
}
