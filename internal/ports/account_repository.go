package ports

import (
	"context"

	"github.com/bnema/paymail/internal/domain"
)

// AccountRepository persists extra sending identities. Stored accounts carry
// a SecretRef, never the secret itself.
type AccountRepository interface {
	Save(ctx context.Context, account domain.Account) error
	List(ctx context.Context) ([]domain.Account, error)
}
