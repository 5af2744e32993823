package auth

import (
	"context"
	"errors"
)

var ErrUnknownToken = errors.New("unknown token")

// StaticRegistry is a fixed token->user mapping loaded from server
// configuration. It stands in for the external auth collaborator that
// owns real credential management.
type StaticRegistry struct {
	tokens map[string]string
}

func NewStaticRegistry(tokens map[string]string) *StaticRegistry {
	return &StaticRegistry{tokens: tokens}
}

func (r *StaticRegistry) Validate(_ context.Context, token string) (string, error) {
	userID, ok := r.tokens[token]
	if !ok {
		return "", ErrUnknownToken
	}
	return userID, nil
}
