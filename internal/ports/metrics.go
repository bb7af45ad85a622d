package ports

import "github.com/bnema/paymail/internal/domain"

// DispatchMetrics observes dispatch outcomes.
type DispatchMetrics interface {
	ObserveDispatch(result domain.DispatchResult)
	ObserveFailure(kind domain.FailureKind)
	ObserveUsage(account domain.AccountID, usage int)
}

type NopMetrics struct{}

func (NopMetrics) ObserveDispatch(domain.DispatchResult) {}

func (NopMetrics) ObserveFailure(domain.FailureKind) {}

func (NopMetrics) ObserveUsage(domain.AccountID, int) {}
