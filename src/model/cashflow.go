// backend/src/model/cashflow.go
package model

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/username/tradejournal/backend/src/models"
)

// FetchCashFlows returns the user's cash flows ordered by value date,
// optionally narrowed by account and date range.
func FetchCashFlows(db *sql.DB, userID int64, accountIDs []string, start, end string) ([]models.CashFlow, error) {
	query := "SELECT id, account_id, flow_date, amount, kind, note FROM cash_flows WHERE user_id = ?"
	args := []any{userID}

	if len(accountIDs) > 0 {
		placeholders := strings.Repeat("?,", len(accountIDs))
		query += fmt.Sprintf(" AND account_id IN (%s)", placeholders[:len(placeholders)-1])
		for _, id := range accountIDs {
			args = append(args, id)
		}
	}
	if start != "" {
		query += " AND flow_date >= ?"
		args = append(args, start)
	}
	if end != "" {
		query += " AND flow_date <= ?"
		args = append(args, end)
	}
	query += " ORDER BY flow_date ASC, id ASC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cash flows: %w", err)
	}
	defer rows.Close()

	var flows []models.CashFlow
	for rows.Next() {
		var cf models.CashFlow
		var accountID, kind, note sql.NullString
		if err := rows.Scan(&cf.ID, &accountID, &cf.Date, &cf.Amount, &kind, &note); err != nil {
			return nil, fmt.Errorf("scanning cash flow row: %w", err)
		}
		cf.AccountID = accountID.String
		cf.Kind = kind.String
		cf.Note = note.String
		flows = append(flows, cf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cash flows: %w", err)
	}
	return flows, nil
}

// InsertCashFlow records one deposit, withdrawal or adjustment.
func InsertCashFlow(db *sql.DB, userID int64, cf models.CashFlow) (int64, error) {
	res, err := db.Exec(
		"INSERT INTO cash_flows (user_id, account_id, flow_date, amount, kind, note) VALUES (?, ?, ?, ?, ?, ?)",
		userID, nullString(cf.AccountID), cf.Date, cf.Amount, nullString(cf.Kind), nullString(cf.Note),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting cash flow: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading cash flow id: %w", err)
	}
	return id, nil
}
