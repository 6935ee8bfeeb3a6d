// backend/src/handlers/csrf_handler.go
package handlers

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/username/tradejournal/backend/src/utils"
)

const csrfCookieName = "_csrf_token"

// CSRFHandler issues and verifies double-submit CSRF tokens, signed with
// the configured auth key.
type CSRFHandler struct {
	authKey []byte
}

// NewCSRFHandler creates a CSRFHandler.
func NewCSRFHandler(authKey string) *CSRFHandler {
	return &CSRFHandler{authKey: []byte(authKey)}
}

// GetCSRFToken mints a token, sets it as a cookie and returns it in the
// body so the client can echo it in the X-CSRF-Token header.
func (h *CSRFHandler) GetCSRFToken(w http.ResponseWriter, r *http.Request) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		utils.SendJSONError(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}
	token := hex.EncodeToString(nonce) + "." + h.sign(nonce)

	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	utils.SendJSON(w, map[string]string{"csrfToken": token}, http.StatusOK)
}

// Middleware rejects state-changing requests whose header token does not
// match the cookie or fails signature verification. With no auth key
// configured the check is disabled.
func (h *CSRFHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(h.authKey) == 0 || isSafeMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}
		cookie, err := r.Cookie(csrfCookieName)
		if err != nil || cookie.Value == "" {
			utils.SendJSONError(w, "Missing CSRF cookie", http.StatusForbidden)
			return
		}
		header := r.Header.Get("X-CSRF-Token")
		if header == "" || header != cookie.Value || !h.verify(header) {
			utils.SendJSONError(w, "Invalid CSRF token", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *CSRFHandler) sign(nonce []byte) string {
	mac := hmac.New(sha256.New, h.authKey)
	mac.Write(nonce)
	return hex.EncodeToString(mac.Sum(nil))
}

func (h *CSRFHandler) verify(token string) bool {
	for i := range token {
		if token[i] == '.' {
			nonce, err := hex.DecodeString(token[:i])
			if err != nil {
				return false
			}
			return hmac.Equal([]byte(h.sign(nonce)), []byte(token[i+1:]))
		}
	}
	return false
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
