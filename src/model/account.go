// backend/src/model/account.go
package model

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrAccountNotMapped means the broker's external account reference has no
// internal account yet.
var ErrAccountNotMapped = errors.New("external account reference not mapped")

// GetAccountIDByExternal resolves a broker-supplied account reference to
// the internal account id.
func GetAccountIDByExternal(db *sql.DB, userID int64, brokerID, externalRef string) (string, error) {
	var accountID string
	err := db.QueryRow(
		"SELECT account_id FROM account_external_map WHERE user_id = ? AND broker_id = ? AND external_ref = ?",
		userID, brokerID, externalRef,
	).Scan(&accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrAccountNotMapped
	}
	if err != nil {
		return "", fmt.Errorf("resolving external account %s/%s: %w", brokerID, externalRef, err)
	}
	return accountID, nil
}

// UpsertAccountMapping stores or refreshes an external-to-internal account
// mapping.
func UpsertAccountMapping(db *sql.DB, userID int64, brokerID, externalRef, accountID string) error {
	_, err := db.Exec(`
		INSERT INTO account_external_map (user_id, broker_id, external_ref, account_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, broker_id, external_ref) DO UPDATE SET account_id = excluded.account_id`,
		userID, brokerID, externalRef, accountID,
	)
	if err != nil {
		return fmt.Errorf("upserting account mapping %s/%s: %w", brokerID, externalRef, err)
	}
	return nil
}
