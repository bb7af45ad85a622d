package ports

import (
	"context"

	"github.com/bnema/paymail/internal/domain"
)

// AccountSource resolves the ordered list of sending accounts from layered configuration.
type AccountSource interface {
	Accounts(ctx context.Context) ([]domain.Account, error)
}

// SenderConfigStore holds the runtime-set sender credential.
type SenderConfigStore interface {
	Get() domain.SenderConfig
	Set(cfg domain.SenderConfig)
}
