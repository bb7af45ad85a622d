package ports

import (
	"context"

	"github.com/bnema/paymail/internal/domain"
)

// Transport delivers one envelope through one account. Failures must come
// back as *domain.TransportError so the kind is classified exactly once.
type Transport interface {
	Send(ctx context.Context, account domain.Account, envelope domain.Envelope) (domain.Receipt, error)
}
