// backend/src/models/fill.go
package models

// RawRow holds one record of an uploaded file, keyed by the original column
// name. It only lives for the duration of a single detection or parse pass.
type RawRow map[string]string

// FillInput is the client-facing representation of one execution row, either
// produced by the fill processor from a raw CSV row or submitted directly in
// an import commit batch. Numeric fields are already coerced; validation and
// hashing happen when the input is finalized into a NormalizedFill.
type FillInput struct {
	Symbol            string  `json:"symbol"`
	Underlying        string  `json:"underlying,omitempty"`
	Expiry            string  `json:"expiry,omitempty"`
	Strike            float64 `json:"strike,omitempty"`
	Right             string  `json:"right,omitempty"`
	Quantity          float64 `json:"quantity"`
	Price             float64 `json:"price"`
	Fees              float64 `json:"fees,omitempty"`
	Currency          string  `json:"currency,omitempty"`
	Side              string  `json:"side,omitempty"`
	ExecTime          string  `json:"execTime"`
	OrderID           string  `json:"orderId,omitempty"`
	TradeIDExternal   string  `json:"tradeIdExternal,omitempty"`
	AccountIDExternal string  `json:"accountIdExternal,omitempty"`
	Notes             string  `json:"notes,omitempty"`
	Raw               RawRow  `json:"raw,omitempty"`

	// CoercionFailures lists mapped numeric fields whose source value was
	// present but unparseable. Set by the fill processor, never by clients.
	CoercionFailures []string `json:"-"`
}

// NormalizedFill is the canonical execution record. It is immutable once the
// dedupe hash has been computed; from then on the fill store owns it and
// enforces (user_id, dedupe_hash) uniqueness.
type NormalizedFill struct {
	ID                int64   `json:"id,omitempty"`
	SourceBroker      string  `json:"sourceBroker"`
	AssetClass        string  `json:"assetClass"` // stocks|options|futures|crypto
	AccountID         string  `json:"accountId,omitempty"`
	AccountIDExternal string  `json:"accountIdExternal,omitempty"`
	Symbol            string  `json:"symbol"`
	Underlying        string  `json:"underlying,omitempty"`
	Expiry            string  `json:"expiry,omitempty"`
	Strike            float64 `json:"strike,omitempty"`
	Right             string  `json:"right,omitempty"` // call|put
	Quantity          float64 `json:"quantity"`
	Price             float64 `json:"price"`
	Fees              float64 `json:"fees"`
	Currency          string  `json:"currency,omitempty"`
	Side              string  `json:"side"` // buy|sell
	ExecTime          string  `json:"execTime"`
	OrderID           string  `json:"orderId,omitempty"`
	TradeIDExternal   string  `json:"tradeIdExternal,omitempty"`
	Notes             string  `json:"notes,omitempty"`
	Raw               RawRow  `json:"raw,omitempty"`
	DedupeHash        string  `json:"dedupeHash"`
}

// RowError is a row-scoped import failure. The batch continues; the row is
// reported back to the caller and persisted against the import job.
type RowError struct {
	RowNumber int    `json:"rowNumber"`
	Message   string `json:"message"`
	RawData   string `json:"rawData,omitempty"`
}

// FillFilters narrows a fill fetch. Zero values mean "no filter".
type FillFilters struct {
	AccountIDs   []string `json:"accountIds,omitempty"`
	Symbol       string   `json:"symbol,omitempty"`
	Side         string   `json:"side,omitempty"`
	AssetClasses []string `json:"assetClasses,omitempty"`
	Start        string   `json:"start,omitempty"` // ISO date/time
	End          string   `json:"end,omitempty"`
}

// ImportCommitRequest is one batch of an import job. Clients stream batches
// of a few thousand rows and aggregate the per-batch results for progress.
type ImportCommitRequest struct {
	ImportJobID string            `json:"importJobId"`
	BrokerID    string            `json:"brokerId"`
	AssetClass  string            `json:"assetClass"`
	HeaderMap   map[string]string `json:"headerMap,omitempty"`
	Rows        []RawRow          `json:"rows,omitempty"`
	Fills       []FillInput       `json:"fills,omitempty"`
	SkipInvalid *bool             `json:"skipInvalid,omitempty"` // default true
}

// ImportCommitResult reports what happened to one committed batch.
type ImportCommitResult struct {
	Inserted   int        `json:"inserted"`
	Duplicates int        `json:"duplicates"`
	Skipped    int        `json:"skipped"`
	ErrorCount int        `json:"errorCount"`
	Errors     []RowError `json:"errors"`
}
