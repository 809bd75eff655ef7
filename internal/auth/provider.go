package auth

import (
	"context"

	"github.com/yourname/bioclock/internal"
)

type Provider interface {
	Validate(ctx context.Context, token string) (*internal.User, error)
}
