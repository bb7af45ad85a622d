package application

import (
	"sort"
	"sync"

	"github.com/bnema/paymail/internal/domain"
)

// EmailLog is an append-only record of dispatch outcomes.
type EmailLog struct {
	mu      sync.RWMutex
	entries []domain.EmailLogEntry
}

func NewEmailLog() *EmailLog {
	return &EmailLog{}
}

func (l *EmailLog) Append(entry domain.EmailLogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
}

// All returns the entries in insertion order.
func (l *EmailLog) All() []domain.EmailLogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.EmailLogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Newest returns the entries sorted by timestamp, most recent first. Entries
// sharing a timestamp keep reverse insertion order.
func (l *EmailLog) Newest() []domain.EmailLogEntry {
	entries := l.All()
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries
}

func (l *EmailLog) Summary() domain.LogSummary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	summary := domain.LogSummary{Total: len(l.entries)}
	for _, entry := range l.entries {
		switch entry.Outcome {
		case domain.OutcomeSent:
			summary.Sent++
		case domain.OutcomeFailed:
			summary.Failed++
		}
	}
	return summary
}

func (l *EmailLog) View() LogView {
	return LogView{Entries: l.Newest(), LogSummary: l.Summary()}
}
