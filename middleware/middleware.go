package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/MAAF1/Task-System/logging"
	"github.com/MAAF1/Task-System/models"
	"github.com/MAAF1/Task-System/utils"
)

type contextKey string

const claimsKey contextKey = "claims"

// JWTAuthMiddleware validates the Bearer token and stores its claims in
// the request context for the handlers and the role gate.
func JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logging.Logger.Warnf("Event ID: JWT_AUTH_MISSING_HEADER, Description: Authorization header missing for request to %s %s", r.Method, r.URL.Path)
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(tokenStr)
		if err != nil {
			logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Invalid token provided for request to %s %s: %v", r.Method, r.URL.Path, err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CallerFromContext returns the authenticated caller's claims, if any.
func CallerFromContext(r *http.Request) (*utils.Claims, bool) {
	claims, ok := r.Context().Value(claimsKey).(*utils.Claims)
	return claims, ok
}

// RequirePermission gates a handler on the permission table. It expects
// JWTAuthMiddleware to have run first.
func RequirePermission(p models.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(claimsKey).(*utils.Claims)
			if !ok {
				http.Error(w, "Authorization required", http.StatusUnauthorized)
				return
			}
			if !models.HasPermission(claims.RoleSet(), p) {
				logging.Logger.Warnf("Event ID: ROLE_GATE_DENIED, Description: User %d denied for %s %s", claims.UserID, r.Method, r.URL.Path)
				http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EnableCORS answers preflight requests and opens the API to the SPA
// clients.
func EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
