// backend/src/models/schema.go
package models

// SchemaPattern is one immutable catalogue entry describing how a broker
// export maps onto canonical fill fields. Field names in Required/Optional
// are canonical (pre-normalized) header names; FieldMap translates them to
// the normalized target field. The catalogue is loaded once at startup and
// never mutated afterwards.
type SchemaPattern struct {
	BrokerID   string            `json:"brokerId"`
	AssetClass string            `json:"assetClass"`
	SchemaID   string            `json:"schemaId"`
	Required   []string          `json:"required"`
	Optional   []string          `json:"optional"`
	FieldMap   map[string]string `json:"map"`
}

// DetectionHint carries what the user already told us about the file.
type DetectionHint struct {
	BrokerID   string `json:"brokerId,omitempty"`
	AssetClass string `json:"assetClass,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
}

// DetectionResult is the best catalogue match for an uploaded file.
// HeaderMap keys are the file's original header names; values are
// normalized target fields (symbol, quantity, price, execTime, ...).
type DetectionResult struct {
	BrokerGuess string            `json:"brokerGuess"`
	AssetGuess  string            `json:"assetGuess"`
	SchemaID    string            `json:"schemaId"`
	Confidence  float64           `json:"confidence"`
	HeaderMap   map[string]string `json:"headerMap"`
	Warnings    []string          `json:"warnings"`
}
