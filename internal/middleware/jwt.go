package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Kushal-np/SocialMedia/internal/apperr"
	"github.com/Kushal-np/SocialMedia/internal/models"
	"github.com/Kushal-np/SocialMedia/internal/repo"
	"github.com/golang-jwt/jwt/v5"
)

type key string

const userKey key = "current_user"

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "jwt"

// CurrentUser returns the user the session verifier attached to the request
// context. ok is false on unauthenticated requests.
func CurrentUser(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok
}

// WithUser returns a context carrying the given user. Exposed for handler tests.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// SessionVerifier validates the session token on each request and resolves it
// to a stored user. The token comes from the "jwt" cookie or an
// Authorization: Bearer header. The resolved user (password hash excluded by
// serialization) is attached to the request context; tokens are never renewed
// here.
type SessionVerifier struct {
	Users  *repo.UserRepo
	Secret []byte
}

// Require rejects requests without a valid token resolving to an existing user.
func (v *SessionVerifier) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := extractToken(r)
		if tokenStr == "" {
			denyJSON(w, "authentication required", http.StatusUnauthorized)
			return
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return v.Secret, nil
		})
		if err != nil || !token.Valid {
			// Expired and malformed both deny; the message tells them apart.
			if errors.Is(err, jwt.ErrTokenExpired) {
				denyJSON(w, "token expired", http.StatusUnauthorized)
			} else {
				denyJSON(w, "invalid token", http.StatusUnauthorized)
			}
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			denyJSON(w, "invalid token", http.StatusUnauthorized)
			return
		}
		id, ok := claims["user_id"].(float64)
		if !ok {
			denyJSON(w, "invalid token", http.StatusUnauthorized)
			return
		}

		user, err := v.Users.GetByID(r.Context(), int(id))
		if err != nil {
			// Structurally valid token whose referent is gone (deleted account).
			if apperr.IsKind(err, apperr.NotFound) {
				denyJSON(w, "user not found", http.StatusNotFound)
				return
			}
			slog.Error("session verifier: resolve user", "error", err)
			denyJSON(w, "internal server error", http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func extractToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func denyJSON(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
