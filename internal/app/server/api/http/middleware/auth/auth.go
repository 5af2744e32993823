package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// TokenValidator resolves a bearer token to a user id. The concrete
// implementation belongs to the external auth collaborator; the server
// ships a static registry loaded from configuration.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (string, error)
}

type Auth struct {
	tokens TokenValidator
	log    *slog.Logger
}

func New(tokens TokenValidator, log *slog.Logger) *Auth {
	return &Auth{
		tokens: tokens,
		log:    log.With("component", "auth_middleware"),
	}
}

type contextKey string

const UserIDKey contextKey = "userID"

// Middleware returns a huma middleware that requires a valid bearer
// token and stores the resolved user id in the request context.
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		token := ctx.Header("Authorization")

		if len(token) < 7 || token[:7] != "Bearer " {
			a.log.Warn("missing or malformed bearer token")
			writeUnauthorized(ctx)
			return
		}

		userID, err := a.tokens.Validate(ctx.Context(), token[7:])
		if err != nil {
			a.log.Warn("token rejected", "error", err)
			writeUnauthorized(ctx)
			return
		}

		newCtx := context.WithValue(ctx.Context(), UserIDKey, userID)
		next(huma.WithContext(ctx, newCtx))
	}
}

func writeUnauthorized(ctx huma.Context) {
	ctx.SetStatus(http.StatusUnauthorized)
	ctx.SetHeader("Content-Type", "application/json")
	_ = json.NewEncoder(ctx.BodyWriter()).Encode(map[string]string{
		"error": "Unauthorized",
	})
}

// GetUserID extracts the authenticated user id placed by Middleware.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}
