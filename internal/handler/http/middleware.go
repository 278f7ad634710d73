package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// CartCookieName is the HTTP cookie carrying the anonymous cart ID. The
// cart is scoped to this cookie, not to the authenticated user, so it
// survives login and logout on the same browser profile.
const CartCookieName = "cart_id"

// cartCookieMaxAge keeps the cookie around for a year; the Redis slot TTL
// governs the actual cart lifetime.
const cartCookieMaxAge = 365 * 24 * 60 * 60

type cartIDContextKey struct{}

// cartIDFromContext extracts the cart ID from the request context.
func cartIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(cartIDContextKey{}).(string)
	return id, ok && id != ""
}

// contextWithCartID stores a cart ID in the context. Exposed for handler
// tests.
func contextWithCartID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, cartIDContextKey{}, id)
}

// CartID is middleware that reads the anonymous cart cookie, minting a
// fresh ID (and setting the cookie) when none is present, and stores the
// ID in the request context.
func CartID(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var cartID string
			if c, err := r.Cookie(CartCookieName); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					cartID = c.Value
				}
			}

			if cartID == "" {
				cartID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     CartCookieName,
					Value:    cartID,
					Path:     "/",
					MaxAge:   cartCookieMaxAge,
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := contextWithCartID(r.Context(), cartID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ContentTypeJSON enforces that requests with a body have Content-Type:
// application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
