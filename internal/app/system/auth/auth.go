// Package auth consumes session claims issued by the external identity
// provider. Verification happens against the shared signing secret; no
// user lookup happens here.
//
// Identity extraction (Claims) and the lazy user-record write
// (EnsureUser) are separate middlewares so routes that only need the
// caller's subject don't pay for a database round trip.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/quickstay/quickstay-api/internal/app/system/jsonutil"
	"github.com/quickstay/quickstay-api/internal/domain/models"
)

type ctxKey int

const (
	identityKey ctxKey = iota
	userKey
)

// Identity returns the caller's external identity (the token's sub claim),
// or "" when the request was not authenticated.
func Identity(ctx context.Context) string {
	s, _ := ctx.Value(identityKey).(string)
	return s
}

// CurrentUser returns the user record attached by EnsureUser, or nil.
func CurrentUser(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

// WithIdentity attaches an identity to ctx. Exported for handler tests.
func WithIdentity(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, identityKey, sub)
}

// WithUser attaches a user record to ctx. Exported for handler tests.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// Claims returns middleware that validates the Bearer session token and
// stores the subject claim in the request context. 401 on anything else.
func Claims(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	if secret == "" {
		logger.Warn("auth secret not configured - authenticated routes will reject all requests")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				jsonutil.Unauthorized(w, "Authentication not configured")
				return
			}

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				jsonutil.Unauthorized(w, "Missing Bearer token")
				return
			}
			tokenStr := strings.TrimSpace(header[len("Bearer "):])

			claims := jwt.MapClaims{}
			tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !tok.Valid {
				logger.Debug("rejected session token", zap.Error(err))
				jsonutil.Unauthorized(w, "Invalid token")
				return
			}

			sub, _ := claims["sub"].(string)
			if sub == "" {
				jsonutil.Unauthorized(w, "Invalid subject")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), sub)))
		})
	}
}

// UserEnsurer is the store dependency for EnsureUser.
type UserEnsurer interface {
	EnsureExists(ctx context.Context, clerkID string) (*models.User, error)
}

// EnsureUser returns middleware that makes sure a user record exists for
// the authenticated identity and attaches it to the context. First sight
// of an identity creates a guest record; the write is idempotent.
// Must run after Claims.
func EnsureUser(store UserEnsurer, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub := Identity(r.Context())
			if sub == "" {
				jsonutil.Unauthorized(w, "Not authenticated")
				return
			}

			u, err := store.EnsureExists(r.Context(), sub)
			if err != nil {
				logger.Error("ensure user record failed",
					zap.String("clerk_id", sub),
					zap.Error(err),
				)
				jsonutil.ErrorDetail(w, http.StatusInternalServerError, "Internal Server Error", "Error creating user profile")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// RequireRole returns middleware that rejects callers whose user record
// does not carry one of the given roles. Must run after EnsureUser.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := CurrentUser(r.Context())
			if u == nil {
				jsonutil.Unauthorized(w, "Not authenticated")
				return
			}
			for _, role := range roles {
				if u.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			jsonutil.ErrorDetail(w, http.StatusForbidden, "Forbidden", "Missing required role")
		})
	}
}
