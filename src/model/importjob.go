// backend/src/model/importjob.go
package model

import (
	"database/sql"
	"fmt"

	"github.com/username/tradejournal/backend/src/models"
)

// CreateImportJob registers a new import job in pending state.
func CreateImportJob(db *sql.DB, userID int64, jobID, brokerID, assetClass string) error {
	_, err := db.Exec(
		"INSERT INTO import_jobs (id, user_id, broker_id, asset_class, status) VALUES (?, ?, ?, ?, 'pending')",
		jobID, userID, brokerID, assetClass,
	)
	if err != nil {
		return fmt.Errorf("creating import job %s: %w", jobID, err)
	}
	return nil
}

// UpdateImportJobStatus moves a job to a new status. Jobs created by older
// clients may not exist; the update is then a no-op, not an error.
func UpdateImportJobStatus(db *sql.DB, userID int64, jobID, status string) error {
	_, err := db.Exec(
		"UPDATE import_jobs SET status = ?, updated_at = datetime('now') WHERE id = ? AND user_id = ?",
		status, jobID, userID,
	)
	if err != nil {
		return fmt.Errorf("updating import job %s: %w", jobID, err)
	}
	return nil
}

// InsertImportErrors persists row-scoped failures against an import job.
func InsertImportErrors(db *sql.DB, jobID string, errs []models.RowError) error {
	if len(errs) == 0 {
		return nil
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning import error insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		"INSERT INTO import_job_errors (import_job_id, row_number, error_message, raw_data) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing import error insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range errs {
		if _, err := stmt.Exec(jobID, e.RowNumber, e.Message, nullString(e.RawData)); err != nil {
			return fmt.Errorf("inserting import error row %d: %w", e.RowNumber, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import errors: %w", err)
	}
	return nil
}
