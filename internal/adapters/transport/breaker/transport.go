package breaker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/bnema/paymail/internal/domain"
	"github.com/bnema/paymail/internal/ports"
)

const (
	DefaultFailures = 3
	DefaultCooldown = time.Minute
)

type Settings struct {
	// Failures is the number of consecutive connectivity failures that opens
	// an account's breaker.
	Failures uint32
	// Cooldown is how long a breaker stays open before letting one probe through.
	Cooldown time.Duration
}

// Transport wraps a direct transport with one circuit breaker per account.
// Only connectivity failures count against the breaker; an open breaker
// fails fast as a connectivity failure without any I/O.
type Transport struct {
	next     ports.Transport
	settings Settings
	logger   *zap.Logger

	mu       sync.Mutex
	breakers map[domain.AccountID]*gobreaker.CircuitBreaker
}

var _ ports.Transport = (*Transport)(nil)

func New(next ports.Transport, settings Settings, logger *zap.Logger) *Transport {
	if settings.Failures == 0 {
		settings.Failures = DefaultFailures
	}
	if settings.Cooldown <= 0 {
		settings.Cooldown = DefaultCooldown
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Transport{
		next:     next,
		settings: settings,
		logger:   logger,
		breakers: map[domain.AccountID]*gobreaker.CircuitBreaker{},
	}
}

func (t *Transport) Send(ctx context.Context, account domain.Account, envelope domain.Envelope) (domain.Receipt, error) {
	cb := t.breakerFor(account.ID)

	out, err := cb.Execute(func() (interface{}, error) {
		receipt, err := t.next.Send(ctx, account, envelope)
		return receipt, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return domain.Receipt{}, &domain.TransportError{
				Kind:    domain.FailureConnectivity,
				Account: account.ID,
				Err:     fmt.Errorf("circuit breaker for %s: %w", account.ID, err),
			}
		}
		return domain.Receipt{}, err
	}

	return out.(domain.Receipt), nil
}

// State reports the breaker state for an account; accounts never used are closed.
func (t *Transport) State(id domain.AccountID) gobreaker.State {
	t.mu.Lock()
	cb, ok := t.breakers[id]
	t.mu.Unlock()
	if !ok {
		return gobreaker.StateClosed
	}
	return cb.State()
}

func (t *Transport) breakerFor(id domain.AccountID) *gobreaker.CircuitBreaker {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cb, ok := t.breakers[id]; ok {
		return cb
	}

	failures := t.settings.Failures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        string(id),
		MaxRequests: 1,
		Timeout:     t.settings.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return domain.FailureKindOf(err) != domain.FailureConnectivity
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			t.logger.Warn("account circuit breaker changed state",
				zap.String("account", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	t.breakers[id] = cb
	return cb
}
