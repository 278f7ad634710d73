package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/salamchy/furniture/pkg/errors"
	"github.com/salamchy/furniture/pkg/httputil"
	"github.com/salamchy/furniture/pkg/logger"
)

// CookieName is the HTTP cookie carrying the auth token.
const CookieName = "auth_token"

// RoleAdmin is the role required for catalog and content management.
const RoleAdmin = "admin"

type claimsContextKey struct{}

// ClaimsFromContext returns the authenticated claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*Claims)
	return claims, ok
}

// ContextWithClaims stores claims in the context. Exposed for handler tests.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// tokenFromRequest extracts the auth token from the auth cookie or,
// failing that, from a Bearer authorization header.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

// Authenticate returns middleware that validates the auth token and stores
// its claims in the request context. Requests without a valid token are
// rejected with 401.
func Authenticate(manager *JWTManager, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := tokenFromRequest(r)
			if tokenString == "" {
				httputil.WriteError(w, r, errors.Unauthorized("missing auth token"), log)
				return
			}

			claims, err := manager.Validate(tokenString)
			if err != nil {
				logger.Enrich(r.Context(), log).Warn("invalid auth token",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				httputil.WriteError(w, r, errors.Unauthorized("invalid or expired token"), log)
				return
			}

			ctx := ContextWithClaims(r.Context(), claims)
			ctx = logger.WithUserID(ctx, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns middleware that rejects authenticated requests whose
// role does not match. It must run after Authenticate.
func RequireRole(role string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				httputil.WriteError(w, r, errors.Unauthorized("missing auth token"), log)
				return
			}
			if claims.Role != role {
				httputil.WriteError(w, r, errors.Forbidden("insufficient permissions"), log)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
