// backend/src/handlers/import_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/parsers"
	"github.com/username/tradejournal/backend/src/security/validation"
	"github.com/username/tradejournal/backend/src/services"
	"github.com/username/tradejournal/backend/src/utils"
)

// ImportHandler serves schema detection and batch commits.
type ImportHandler struct {
	imports       services.ImportService
	maxUploadSize int64
}

// NewImportHandler creates an ImportHandler.
func NewImportHandler(imports services.ImportService, maxUploadSize int64) *ImportHandler {
	return &ImportHandler{imports: imports, maxUploadSize: maxUploadSize}
}

// Detect accepts a multipart upload plus optional broker/asset hints and
// returns the best schema match.
func (h *ImportHandler) Detect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		utils.SendJSONError(w, "Could not parse multipart form", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		utils.SendJSONError(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, h.maxUploadSize+1))
	if err != nil {
		utils.SendJSONError(w, "Could not read upload", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateUpload(content, r.Header.Get("Content-Type"), h.maxUploadSize); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	hint := models.DetectionHint{
		BrokerID:   r.FormValue("userBrokerId"),
		AssetClass: r.FormValue("userAssetClass"),
		Timezone:   r.FormValue("userTimezone"),
	}

	result, err := h.imports.Detect(r.Context(), content, hint)
	if errors.Is(err, parsers.ErrSchemaNotDetected) {
		utils.SendJSONError(w, "No matching schema detected", http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Schema detection failed", slog.Any("error", err))
		utils.SendJSONError(w, "Could not analyze file", http.StatusBadRequest)
		return
	}
	utils.SendJSON(w, result, http.StatusOK)
}

// Commit accepts one batch of fills for an import job. Clients stream
// batches and aggregate the per-batch results for progress.
func (h *ImportHandler) Commit(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.ImportCommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.BrokerID == "" || req.AssetClass == "" {
		utils.SendJSONError(w, "brokerId and assetClass are required", http.StatusBadRequest)
		return
	}
	if req.ImportJobID == "" {
		req.ImportJobID = uuid.NewString()
	}

	result, err := h.imports.Commit(r.Context(), userID, req)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Import commit failed", slog.Any("error", err))
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	utils.SendJSON(w, result, http.StatusOK)
}
