// backend/src/services/import_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/parsers"
	"github.com/username/tradejournal/backend/src/processors"
	"github.com/username/tradejournal/backend/src/security/validation"
)

const detectSampleRows = 200

type importServiceImpl struct {
	store     FillStore
	resolver  AccountResolver
	detector  *parsers.Detector
	fills     processors.FillProcessor
	analytics AnalyticsService
}

// NewImportService wires the import pipeline. The analytics service is
// optional; when present its report cache is invalidated after commits.
func NewImportService(store FillStore, resolver AccountResolver, detector *parsers.Detector, fills processors.FillProcessor, analytics AnalyticsService) ImportService {
	return &importServiceImpl{
		store:     store,
		resolver:  resolver,
		detector:  detector,
		fills:     fills,
		analytics: analytics,
	}
}

// Detect samples the upload and scores it against the schema catalogue.
func (s *importServiceImpl) Detect(ctx context.Context, content []byte, hint models.DetectionHint) (models.DetectionResult, error) {
	sample, err := parsers.ReadSample(content, detectSampleRows)
	if err != nil {
		return models.DetectionResult{}, fmt.Errorf("sampling upload: %w", err)
	}
	result, err := s.detector.Detect(sample.Headers, sample.Rows, hint)
	if err != nil {
		return models.DetectionResult{}, err
	}
	logger.InfoFromContext(ctx, "Schema detected",
		slog.String("broker", result.BrokerGuess),
		slog.String("assetClass", result.AssetGuess),
		slog.Float64("confidence", result.Confidence))
	return result, nil
}

// Commit normalizes, validates, dedupes and inserts one batch of fills.
// With skipInvalid (the default) bad rows are reported and the batch goes
// on; with skipInvalid=false the first bad row aborts the whole batch
// before anything is written.
func (s *importServiceImpl) Commit(ctx context.Context, userID int64, req models.ImportCommitRequest) (models.ImportCommitResult, error) {
	skipInvalid := true
	if req.SkipInvalid != nil {
		skipInvalid = *req.SkipInvalid
	}

	inputs := req.Fills
	if len(inputs) == 0 && len(req.Rows) > 0 {
		inputs = make([]models.FillInput, 0, len(req.Rows))
		for _, row := range req.Rows {
			inputs = append(inputs, s.fills.NormalizeRow(row, req.HeaderMap))
		}
	}

	result := models.ImportCommitResult{Errors: []models.RowError{}}
	toInsert := make([]models.NormalizedFill, 0, len(inputs))
	hashes := make([]string, 0, len(inputs))

	for idx, in := range inputs {
		in.Notes = validation.SanitizeText(in.Notes)

		// Account resolution is best-effort: an unmapped reference keeps
		// the raw external ref as the dedupe account key.
		accountKey := in.AccountIDExternal
		if in.AccountIDExternal != "" {
			if id, err := s.resolver.ResolveAccount(userID, req.BrokerID, in.AccountIDExternal); err == nil {
				accountKey = id
			}
		}

		fill, err := s.fills.Finalize(req.BrokerID, req.AssetClass, accountKey, in)
		if err != nil {
			rowErr := models.RowError{
				RowNumber: idx + 1,
				Message:   err.Error(),
				RawData:   rawJSON(in.Raw),
			}
			if !skipInvalid {
				return models.ImportCommitResult{}, fmt.Errorf("row %d: %w", idx+1, err)
			}
			result.Skipped++
			result.Errors = append(result.Errors, rowErr)
			continue
		}
		toInsert = append(toInsert, fill)
		hashes = append(hashes, fill.DedupeHash)
	}

	existing, err := s.store.ExistingDedupeHashes(userID, hashes)
	if err != nil {
		return models.ImportCommitResult{}, fmt.Errorf("checking existing fills: %w", err)
	}

	// Dedupe against the store and within the batch itself.
	deduped := make([]models.NormalizedFill, 0, len(toInsert))
	seen := make(map[string]bool, len(toInsert))
	for _, f := range toInsert {
		if existing[f.DedupeHash] || seen[f.DedupeHash] {
			result.Duplicates++
			continue
		}
		seen[f.DedupeHash] = true
		deduped = append(deduped, f)
	}

	if len(deduped) > 0 {
		inserted, dups, err := s.store.BulkInsertFills(userID, req.ImportJobID, deduped)
		if err != nil {
			return models.ImportCommitResult{}, fmt.Errorf("inserting fills: %w", err)
		}
		result.Inserted = inserted
		result.Duplicates += dups
	}

	if len(result.Errors) > 0 && req.ImportJobID != "" {
		if err := s.store.RecordImportErrors(req.ImportJobID, result.Errors); err != nil {
			logger.WarnFromContext(ctx, "Failed to persist import errors", slog.Any("error", err))
		}
	}
	if req.ImportJobID != "" {
		if err := s.store.UpdateImportJobStatus(userID, req.ImportJobID, "running"); err != nil {
			logger.WarnFromContext(ctx, "Failed to update import job status", slog.Any("error", err))
		}
	}

	if result.Inserted > 0 && s.analytics != nil {
		s.analytics.InvalidateUserCache(userID)
	}

	result.ErrorCount = len(result.Errors)
	logger.InfoFromContext(ctx, "Import batch committed",
		slog.Int("inserted", result.Inserted),
		slog.Int("duplicates", result.Duplicates),
		slog.Int("skipped", result.Skipped),
		slog.Int("errors", result.ErrorCount))
	return result, nil
}

func rawJSON(raw models.RawRow) string {
	if raw == nil {
		return "{}"
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return "{}"
	}
	return string(data)
}
