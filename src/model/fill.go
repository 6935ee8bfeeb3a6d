// backend/src/model/fill.go
package model

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/username/tradejournal/backend/src/models"
)

// ExistingDedupeHashes returns which of the given hashes are already stored
// for this user. Empty input returns an empty set without touching the DB.
func ExistingDedupeHashes(db *sql.DB, userID int64, hashes []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(hashes) == 0 {
		return existing, nil
	}

	// SQLite caps bound parameters; chunk well below the limit.
	const chunkSize = 500
	for start := 0; start < len(hashes); start += chunkSize {
		end := min(start+chunkSize, len(hashes))
		chunk := hashes[start:end]

		placeholders := strings.Repeat("?,", len(chunk))
		placeholders = placeholders[:len(placeholders)-1]
		query := fmt.Sprintf("SELECT dedupe_hash FROM fills WHERE user_id = ? AND dedupe_hash IN (%s)", placeholders)

		args := make([]any, 0, len(chunk)+1)
		args = append(args, userID)
		for _, h := range chunk {
			args = append(args, h)
		}

		rows, err := db.Query(query, args...)
		if err != nil {
			return nil, fmt.Errorf("querying existing dedupe hashes: %w", err)
		}
		for rows.Next() {
			var h string
			if err := rows.Scan(&h); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning dedupe hash: %w", err)
			}
			existing[h] = true
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("iterating dedupe hashes: %w", err)
		}
		rows.Close()
	}
	return existing, nil
}

// BulkInsertFills inserts fills in one transaction and returns how many
// landed. Rows hitting the (user_id, dedupe_hash) unique constraint are
// counted as duplicates, not failures.
func BulkInsertFills(db *sql.DB, userID int64, importJobID string, fills []models.NormalizedFill) (inserted, duplicates int, err error) {
	if len(fills) == 0 {
		return 0, 0, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("beginning fill insert transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO fills (
			user_id, import_job_id, account_id, account_external_id, broker_id,
			asset_class, exec_time, symbol, underlying, expiry, strike, "right",
			quantity, price, fees, currency, side, order_id, trade_external_id,
			notes, raw, dedupe_hash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing fill insert: %w", err)
	}
	defer stmt.Close()

	for i := range fills {
		f := &fills[i]
		rawJSON := "{}"
		if f.Raw != nil {
			if data, jsonErr := json.Marshal(f.Raw); jsonErr == nil {
				rawJSON = string(data)
			}
		}
		_, execErr := stmt.Exec(
			userID, importJobID, nullString(f.AccountID), nullString(f.AccountIDExternal), f.SourceBroker,
			f.AssetClass, f.ExecTime, f.Symbol, nullString(f.Underlying), nullString(f.Expiry), f.Strike, nullString(f.Right),
			f.Quantity, f.Price, f.Fees, nullString(f.Currency), nullString(f.Side), nullString(f.OrderID), nullString(f.TradeIDExternal),
			nullString(f.Notes), rawJSON, f.DedupeHash,
		)
		if execErr != nil {
			if strings.Contains(execErr.Error(), "UNIQUE constraint failed") {
				duplicates++
				continue
			}
			return 0, 0, fmt.Errorf("inserting fill %s: %w", f.DedupeHash, execErr)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("committing fill insert: %w", err)
	}
	return inserted, duplicates, nil
}

// FetchFills returns the user's fills, optionally narrowed, ordered by
// execution time.
func FetchFills(db *sql.DB, userID int64, filters models.FillFilters) ([]models.NormalizedFill, error) {
	query := `
		SELECT id, broker_id, asset_class, account_id, account_external_id, symbol,
		       underlying, expiry, strike, "right", quantity, price, fees, currency,
		       side, exec_time, order_id, trade_external_id, notes, dedupe_hash
		FROM fills WHERE user_id = ?`
	args := []any{userID}

	if len(filters.AccountIDs) > 0 {
		placeholders := strings.Repeat("?,", len(filters.AccountIDs))
		query += fmt.Sprintf(" AND account_id IN (%s)", placeholders[:len(placeholders)-1])
		for _, id := range filters.AccountIDs {
			args = append(args, id)
		}
	}
	if filters.Symbol != "" {
		query += " AND symbol LIKE ?"
		args = append(args, "%"+strings.ToUpper(filters.Symbol)+"%")
	}
	if filters.Side != "" {
		query += " AND side = ?"
		args = append(args, strings.ToLower(filters.Side))
	}
	if len(filters.AssetClasses) > 0 {
		placeholders := strings.Repeat("?,", len(filters.AssetClasses))
		query += fmt.Sprintf(" AND asset_class IN (%s)", placeholders[:len(placeholders)-1])
		for _, a := range filters.AssetClasses {
			args = append(args, strings.ToLower(a))
		}
	}
	if filters.Start != "" {
		query += " AND exec_time >= ?"
		args = append(args, filters.Start)
	}
	if filters.End != "" {
		query += " AND exec_time <= ?"
		args = append(args, filters.End)
	}
	query += " ORDER BY exec_time ASC, id ASC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying fills: %w", err)
	}
	defer rows.Close()

	var fills []models.NormalizedFill
	for rows.Next() {
		var f models.NormalizedFill
		var accountID, accountExt, underlying, expiry, right, currency, side, orderID, tradeExt, notes sql.NullString
		var strike sql.NullFloat64
		if err := rows.Scan(
			&f.ID, &f.SourceBroker, &f.AssetClass, &accountID, &accountExt, &f.Symbol,
			&underlying, &expiry, &strike, &right, &f.Quantity, &f.Price, &f.Fees, &currency,
			&side, &f.ExecTime, &orderID, &tradeExt, &notes, &f.DedupeHash,
		); err != nil {
			return nil, fmt.Errorf("scanning fill row: %w", err)
		}
		f.AccountID = accountID.String
		f.AccountIDExternal = accountExt.String
		f.Underlying = underlying.String
		f.Expiry = expiry.String
		f.Strike = strike.Float64
		f.Right = right.String
		f.Currency = currency.String
		f.Side = side.String
		f.OrderID = orderID.String
		f.TradeIDExternal = tradeExt.String
		f.Notes = notes.String
		fills = append(fills, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fills: %w", err)
	}
	return fills, nil
}

// DeleteAllFills removes every fill for the user and returns the count.
func DeleteAllFills(db *sql.DB, userID int64) (int64, error) {
	res, err := db.Exec("DELETE FROM fills WHERE user_id = ?", userID)
	if err != nil {
		return 0, fmt.Errorf("deleting fills: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted fills: %w", err)
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
