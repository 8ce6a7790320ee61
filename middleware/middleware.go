package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/afeibuhuifei/project-flow/logging"
	"github.com/afeibuhuifei/project-flow/models"
	"github.com/afeibuhuifei/project-flow/utils"
)

type contextKey string

const userKey contextKey = "user"

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// WithUser stores the authenticated user on ctx.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user set by JWTAuthMiddleware, or nil.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// bearerToken accepts exactly "Bearer <token>".
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func JWTAuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logging.Logger.Warnf("Event ID: JWT_AUTH_MISSING_HEADER, Description: Authorization header missing for request to %s %s", r.Method, r.URL.Path)
				utils.WriteFailure(w, http.StatusUnauthorized, "access token missing")
				return
			}

			token, ok := bearerToken(authHeader)
			if !ok {
				logging.Logger.Warnf("Event ID: JWT_AUTH_BEARER_PREFIX_MISSING, Description: Malformed Authorization header for request to %s %s", r.Method, r.URL.Path)
				utils.WriteFailure(w, http.StatusUnauthorized, "access token format is invalid")
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Rejected token for request to %s %s: %v", r.Method, r.URL.Path, err)
				utils.WriteFailure(w, http.StatusUnauthorized, "access token is invalid or expired")
				return
			}

			logging.Logger.Debugf("Event ID: JWT_AUTH_SUCCESS, Description: User %d authenticated for %s %s", user.ID, r.Method, r.URL.Path)
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
