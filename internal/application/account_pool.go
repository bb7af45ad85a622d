package application

import (
	"sync"

	"github.com/bnema/paymail/internal/domain"
	"github.com/bnema/paymail/internal/ports"
)

const usageDayLayout = "2006-01-02"

type usageKey struct {
	account domain.AccountID
	day     string
}

// Selection is the account picked for an attempt and its usage so far today.
type Selection struct {
	Account domain.Account
	// Index is the zero-based position of Account in the pool.
	Index int
	Usage int
}

// Overcommitted reports whether the selection is already at or above quota.
func (s Selection) Overcommitted() bool {
	return s.Usage >= s.Account.DailyQuota
}

// AccountPool rotates over the configured accounts under a per-day quota.
// Usage is keyed by calendar day, so a new day starts every account at zero.
type AccountPool struct {
	mu       sync.Mutex
	accounts []domain.Account
	usage    map[usageKey]int
	cursor   int
	clock    ports.Clock
}

func NewAccountPool(accounts []domain.Account, clock ports.Clock) *AccountPool {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &AccountPool{
		accounts: cloneAccounts(accounts),
		usage:    map[usageKey]int{},
		cursor:   -1,
		clock:    clock,
	}
}

func (p *AccountPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.accounts)
}

func (p *AccountPool) Accounts() []domain.Account {
	p.mu.Lock()
	defer p.mu.Unlock()

	return cloneAccounts(p.accounts)
}

// Replace swaps the configured accounts. Usage recorded for identities that
// survive the swap is kept.
func (p *AccountPool) Replace(accounts []domain.Account) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.accounts = cloneAccounts(accounts)
	if p.cursor >= len(p.accounts) {
		p.cursor = -1
	}
}

// Select returns the next account in round-robin order whose usage today is
// below quota. When every account is at quota the first account is returned
// anyway and the caller sees Overcommitted() == true.
func (p *AccountPool) Select() (Selection, error) {
	return p.SelectExcluding(nil)
}

// SelectExcluding is Select restricted to accounts not in excluded.
func (p *AccountPool) SelectExcluding(excluded map[domain.AccountID]struct{}) (Selection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.accounts)
	if n == 0 {
		return Selection{}, &domain.ConfigurationError{Reason: "account pool is empty", Err: domain.ErrNoAccounts}
	}

	day := p.today()
	start := (p.cursor + 1) % n
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		account := p.accounts[idx]
		if _, skip := excluded[account.ID]; skip {
			continue
		}

		usage := p.usage[usageKey{account: account.ID, day: day}]
		if usage < account.DailyQuota {
			p.cursor = idx
			return Selection{Account: account, Index: idx, Usage: usage}, nil
		}
	}

	for idx, account := range p.accounts {
		if _, skip := excluded[account.ID]; skip {
			continue
		}
		usage := p.usage[usageKey{account: account.ID, day: day}]
		return Selection{Account: account, Index: idx, Usage: usage}, nil
	}

	return Selection{}, errAllAccountsVisited
}

// RecordUsage adds one unit of today's usage to the account and returns the new count.
func (p *AccountPool) RecordUsage(id domain.AccountID) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := usageKey{account: id, day: p.today()}
	p.usage[key]++
	return p.usage[key]
}

// MarkExhausted raises today's usage for the account to its quota so it is
// not selected again until the day changes.
func (p *AccountPool) MarkExhausted(id domain.AccountID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, account := range p.accounts {
		if account.ID != id {
			continue
		}
		key := usageKey{account: id, day: p.today()}
		if p.usage[key] < account.DailyQuota {
			p.usage[key] = account.DailyQuota
		}
		return
	}
}

func (p *AccountPool) Usage(id domain.AccountID) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.usage[usageKey{account: id, day: p.today()}]
}

func (p *AccountPool) StatusReport() []AccountStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	day := p.today()
	report := make([]AccountStatus, 0, len(p.accounts))
	for idx, account := range p.accounts {
		usage := p.usage[usageKey{account: account.ID, day: day}]
		remaining := account.DailyQuota - usage
		if remaining < 0 {
			remaining = 0
		}
		report = append(report, AccountStatus{
			Index:      idx + 1,
			Name:       account.Name(),
			Email:      string(account.ID),
			Usage:      usage,
			Limit:      account.DailyQuota,
			Remaining:  remaining,
			Percentage: domain.UsagePercent(usage, account.DailyQuota),
			Status:     domain.ClassifyUsage(usage, account.DailyQuota),
		})
	}

	return report
}

func (p *AccountPool) today() string {
	return p.clock.Now().Format(usageDayLayout)
}

func cloneAccounts(accounts []domain.Account) []domain.Account {
	out := make([]domain.Account, len(accounts))
	copy(out, accounts)
	return out
}
