package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/paymail/internal/domain"
	"github.com/bnema/paymail/internal/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type movableClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *movableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *movableClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var testNow = time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)

func testAccounts(quota int, ids ...string) []domain.Account {
	accounts := make([]domain.Account, 0, len(ids))
	for i, id := range ids {
		accounts = append(accounts, domain.Account{
			ID:          domain.AccountID(id),
			DisplayName: fmt.Sprintf("Account %d", i+1),
			Secret:      "abcdefghijklmnop",
			DailyQuota:  quota,
		})
	}
	return accounts
}

// scriptedTransport fails for the accounts listed in failures and succeeds otherwise.
type scriptedTransport struct {
	mu       sync.Mutex
	failures map[domain.AccountID]error
	calls    []domain.AccountID
	prefix   string
}

func (s *scriptedTransport) Send(_ context.Context, account domain.Account, _ domain.Envelope) (domain.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, account.ID)
	if err, ok := s.failures[account.ID]; ok {
		return domain.Receipt{}, err
	}
	return domain.Receipt{
		MessageID: fmt.Sprintf("%s-%d@%s", s.prefix, len(s.calls), account.ID),
		Response:  "250 OK",
	}, nil
}

func (s *scriptedTransport) Recover(id domain.AccountID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, id)
}

func (s *scriptedTransport) Calls() []domain.AccountID {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.AccountID, len(s.calls))
	copy(out, s.calls)
	return out
}

func transportFailure(kind domain.FailureKind, id string) error {
	return &domain.TransportError{Kind: kind, Account: domain.AccountID(id), Err: fmt.Errorf("%s failure", kind)}
}

type recordingMetrics struct {
	mu         sync.Mutex
	dispatches []domain.DispatchResult
	failures   []domain.FailureKind
}

func (m *recordingMetrics) ObserveDispatch(result domain.DispatchResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatches = append(m.dispatches, result)
}

func (m *recordingMetrics) ObserveFailure(kind domain.FailureKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, kind)
}

func (m *recordingMetrics) ObserveUsage(domain.AccountID, int) {}

type stubRenderer struct{}

func (stubRenderer) Render(notice ports.PaymentNotice) (ports.RenderedMessage, error) {
	return ports.RenderedMessage{
		Subject:  "Payment Confirmation - PSU Vendor Payment",
		HTMLBody: "<p>" + notice.VendorName + "</p>",
		TextBody: notice.VendorName,
	}, nil
}

type memSenderStore struct {
	mu  sync.Mutex
	cfg domain.SenderConfig
}

func (s *memSenderStore) Get() domain.SenderConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *memSenderStore) Set(cfg domain.SenderConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

// senderBackedSource resolves the runtime sender config ahead of a static list.
type senderBackedSource struct {
	store  *memSenderStore
	static []domain.Account
}

func (s senderBackedSource) Accounts(context.Context) ([]domain.Account, error) {
	accounts := make([]domain.Account, 0, len(s.static)+1)
	if cfg := s.store.Get(); cfg.IsConfigured() {
		accounts = append(accounts, domain.Account{
			ID:          domain.AccountID(cfg.Email),
			DisplayName: cfg.DisplayName,
			Secret:      cfg.AppPassword,
			DailyQuota:  450,
		})
	}
	return domain.NormalizeAccounts(append(accounts, s.static...)), nil
}

func vendor(id, name, email string, status domain.PaymentStatus) domain.VendorRecord {
	return domain.VendorRecord{
		ID:          id,
		VendorName:  name,
		Email:       email,
		PaymentDate: "2026-03-01",
		Status:      status,
	}
}
