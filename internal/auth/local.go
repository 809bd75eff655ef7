package auth

import (
	"context"

	"github.com/yourname/bioclock/internal"
	"github.com/yourname/bioclock/internal/storage"
)

// LocalAuthProvider resolves bearer tokens against the user repository.
// Intended for development and the demo users file.
type LocalAuthProvider struct {
	users  storage.UserRepository
	logger internal.Logger
}

func NewLocalAuthProvider(users storage.UserRepository, logger internal.Logger) *LocalAuthProvider {
	return &LocalAuthProvider{users: users, logger: logger}
}

func (a *LocalAuthProvider) Validate(ctx context.Context, token string) (*internal.User, error) {
	user, err := a.users.GetUserByToken(ctx, token)
	if err != nil {
		a.logger.Warnf("invalid token: %s", token)
		return nil, err
	}
	return user, nil
}
