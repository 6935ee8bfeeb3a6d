// backend/src/handlers/middleware.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/security"
	"github.com/username/tradejournal/backend/src/utils"
)

type contextKey string

const userIDKey contextKey = "userID"

// ContextualLoggerMiddleware attaches a request-scoped logger carrying a
// request id and the basic request attributes.
func ContextualLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		reqLogger := logger.L.With(
			slog.String("requestId", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		w.Header().Set("X-Request-Id", requestID)
		ctx := logger.ToContext(r.Context(), reqLogger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthMiddleware validates the bearer token, stores the user id in the
// context and enriches the request logger with it.
func AuthMiddleware(auth *security.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				utils.SendJSONError(w, "Missing or invalid Authorization header", http.StatusUnauthorized)
				return
			}
			userID, err := auth.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				utils.SendJSONError(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			reqLogger := logger.FromContext(r.Context()).With(slog.Int64("userId", userID))
			ctx := logger.ToContext(r.Context(), reqLogger)
			ctx = context.WithValue(ctx, userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user id set by
// AuthMiddleware.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// RateLimitMiddleware applies a global token-bucket limit.
func RateLimitMiddleware(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				utils.SendJSONError(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware allows the configured frontend origin.
func CORSMiddleware(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == allowedOrigin {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-CSRF-Token")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
