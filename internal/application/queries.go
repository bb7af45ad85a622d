package application

import (
	"errors"
	"time"

	"github.com/bnema/paymail/internal/domain"
)

var errAllAccountsVisited = errors.New("every account has been visited")

type AccountStatus struct {
	Index      int               `json:"index"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Usage      int               `json:"usage"`
	Limit      int               `json:"limit"`
	Remaining  int               `json:"remaining"`
	Percentage int               `json:"percentage"`
	Status     domain.UsageClass `json:"status"`
}

type MonitorStatus struct {
	Active         bool       `json:"active"`
	State          string     `json:"state"`
	RecordCount    int        `json:"recordCount"`
	Source         string     `json:"source"`
	StartedAt      *time.Time `json:"startedAt"`
	LastModifiedAt *time.Time `json:"lastModifiedAt"`
}

// DispatchOutcome is the result of one qualifying transition's dispatch attempt.
type DispatchOutcome struct {
	Index      int           `json:"index"`
	VendorName string        `json:"vendor"`
	Email      string        `json:"email"`
	Sent       bool          `json:"sent"`
	MessageID  string        `json:"messageId,omitempty"`
	Method     domain.Method `json:"method,omitempty"`
	Account    string        `json:"account,omitempty"`
	Error      string        `json:"error,omitempty"`
	LogEntryID string        `json:"logEntryId"`
}

type UpdateReport struct {
	ChangesDetected int                 `json:"changesDetected"`
	Transitions     []domain.Transition `json:"changes"`
	Dispatches      []DispatchOutcome   `json:"emailResults"`
}

type LogView struct {
	Entries []domain.EmailLogEntry `json:"emailLog"`
	domain.LogSummary
}

type AccountCheck struct {
	Account string `json:"account"`
	Email   string `json:"email"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ConnectionReport struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message"`
	Accounts   []AccountCheck `json:"accounts"`
	DailyLimit int            `json:"dailyLimit"`
}
