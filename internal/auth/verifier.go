// Package auth verifies and issues the bearer tokens clients present on
// the auth operation.
package auth

//go:generate mockgen -destination=mock/mock_verifier.go -package=mockauth -source=verifier.go

import (
	"context"

	"github.com/KirkDiggler/roomserver/internal/entities"
)

// Verifier turns a bearer token into a verified identity
type Verifier interface {
	Verify(ctx context.Context, token string) (*entities.Identity, error)
}
