package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bnema/paymail/internal/domain"
	"github.com/bnema/paymail/internal/ports"
)

// DispatchEngine sends one envelope through the account pool. Transport
// failures rotate across accounts or fall back to the simulated transport;
// they are never returned to the caller.
type DispatchEngine struct {
	pool      *AccountPool
	direct    ports.Transport
	simulated ports.Transport
	metrics   ports.DispatchMetrics
	logger    *zap.Logger
}

func NewDispatchEngine(pool *AccountPool, direct, simulated ports.Transport, metrics ports.DispatchMetrics, logger *zap.Logger) *DispatchEngine {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DispatchEngine{
		pool:      pool,
		direct:    direct,
		simulated: simulated,
		metrics:   metrics,
		logger:    logger,
	}
}

func (e *DispatchEngine) Pool() *AccountPool {
	return e.pool
}

// Send returns a ValidationError for a malformed recipient and a
// ConfigurationError when no accounts are configured. Every other outcome is
// a successful DispatchResult whose Method tells direct delivery apart from
// simulation.
func (e *DispatchEngine) Send(ctx context.Context, envelope domain.Envelope) (domain.DispatchResult, error) {
	if !domain.ValidEmail(envelope.To) {
		return domain.DispatchResult{}, &domain.ValidationError{Field: "email", Reason: "invalid email format"}
	}

	n := e.pool.Len()
	if n == 0 {
		return domain.DispatchResult{}, &domain.ConfigurationError{Reason: "account pool is empty", Err: domain.ErrNoAccounts}
	}

	visited := make(map[domain.AccountID]struct{}, n)
	var last Selection
	lastKind := domain.FailureNone

	for len(visited) < n {
		sel, err := e.pool.SelectExcluding(visited)
		if err != nil {
			break
		}
		visited[sel.Account.ID] = struct{}{}
		last = sel

		// An account at quota is never attempted directly, even when it is the
		// only one; the send is simulated once every account has been visited.
		if sel.Overcommitted() {
			e.logger.Info("account at daily quota, skipping",
				zap.String("account", string(sel.Account.ID)),
				zap.Int("usage", sel.Usage),
				zap.Int("quota", sel.Account.DailyQuota),
			)
			continue
		}

		e.logger.Debug("attempting direct delivery",
			zap.String("account", string(sel.Account.ID)),
			zap.Int("account_index", sel.Index+1),
			zap.Int("usage", sel.Usage),
		)

		receipt, err := e.direct.Send(ctx, sel.Account, envelope)
		if err == nil {
			return e.complete(sel, receipt, domain.MethodDirect, domain.FailureNone), nil
		}

		lastKind = domain.FailureKindOf(err)
		e.metrics.ObserveFailure(lastKind)
		e.logger.Warn("direct delivery failed",
			zap.String("account", string(sel.Account.ID)),
			zap.String("failure_kind", string(lastKind)),
			zap.Error(err),
		)

		if !lastKind.Rotates() || len(visited) == n {
			break
		}
		e.pool.MarkExhausted(sel.Account.ID)
	}

	if last.Account.ID == "" {
		// Only reachable if the pool emptied between Len and SelectExcluding.
		return domain.DispatchResult{}, &domain.ConfigurationError{Reason: "account pool is empty", Err: domain.ErrNoAccounts}
	}

	receipt, err := e.simulated.Send(ctx, last.Account, envelope)
	if err != nil {
		return domain.DispatchResult{}, fmt.Errorf("simulate delivery: %w", err)
	}

	e.logger.Info("falling back to simulated delivery",
		zap.String("account", string(last.Account.ID)),
		zap.String("failure_kind", string(lastKind)),
		zap.String("message_id", receipt.MessageID),
	)

	return e.complete(last, receipt, domain.MethodSimulated, lastKind), nil
}

func (e *DispatchEngine) complete(sel Selection, receipt domain.Receipt, method domain.Method, kind domain.FailureKind) domain.DispatchResult {
	usage := e.pool.RecordUsage(sel.Account.ID)
	e.metrics.ObserveUsage(sel.Account.ID, usage)

	result := domain.DispatchResult{
		Success:      true,
		MessageID:    receipt.MessageID,
		Response:     receipt.Response,
		Method:       method,
		AccountUsed:  sel.Account.ID,
		AccountName:  sel.Account.Name(),
		AccountIndex: sel.Index + 1,
		UsageAfter:   usage,
		Quota:        sel.Account.DailyQuota,
		FailureKind:  kind,
	}
	e.metrics.ObserveDispatch(result)

	return result
}
