// backend/src/utils/http_utils.go
package utils

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
)

// GenerateETag produces a strong ETag for a response body.
func GenerateETag(data []byte) string {
	return fmt.Sprintf(`"%x"`, sha256.Sum256(data))
}

// SendJSONError writes a JSON error body with the given status code.
func SendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// SendJSON writes v as a JSON response with the given status code.
func SendJSON(w http.ResponseWriter, v any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}
