package application

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bnema/paymail/internal/domain"
	"github.com/bnema/paymail/internal/ports"
)

// MonitoringSession holds the watched vendor snapshot and dispatches a
// payment confirmation for every Not Paid -> Paid transition it sees.
type MonitoringSession struct {
	// updates serializes Update calls; mu guards snapshot and epoch and is
	// never held across a dispatch.
	updates  sync.Mutex
	mu       sync.Mutex
	snapshot domain.MonitoringSnapshot
	epoch    uint64
	notifier *Notifier
	clock    ports.Clock
	logger   *zap.Logger
}

func NewMonitoringSession(notifier *Notifier, clock ports.Clock, logger *zap.Logger) *MonitoringSession {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MonitoringSession{
		snapshot: domain.MonitoringSnapshot{State: domain.MonitorIdle},
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

func (s *MonitoringSession) Start(source string, records []domain.VendorRecord) (MonitorStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.State == domain.MonitorActive {
		return MonitorStatus{}, domain.NewAlreadyActiveError("start monitoring", s.snapshot.State)
	}

	s.epoch++
	s.snapshot = domain.MonitoringSnapshot{
		State:     domain.MonitorActive,
		Source:    source,
		Records:   cloneRecords(records),
		StartedAt: s.clock.Now().UTC(),
	}

	s.logger.Info("monitoring started",
		zap.String("source", source),
		zap.Int("records", len(records)),
	)

	return s.statusLocked(), nil
}

func (s *MonitoringSession) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.State != domain.MonitorActive {
		return domain.NewNotActiveError("stop monitoring", s.snapshot.State)
	}

	s.epoch++
	s.snapshot = domain.MonitoringSnapshot{State: domain.MonitorIdle}
	s.logger.Info("monitoring stopped")

	return nil
}

func (s *MonitoringSession) Status() MonitorStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.statusLocked()
}

// Snapshot returns a copy of the stored snapshot.
func (s *MonitoringSession) Snapshot() domain.MonitoringSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.snapshot
	out.Records = cloneRecords(s.snapshot.Records)
	return out
}

// Update diffs records against the stored snapshot, dispatches every
// qualifying transition in index order and then replaces the snapshot.
// Updates run one at a time so each dispatch sees the usage left by the ones
// before it, while Status stays readable during the batch. If the session is
// stopped or restarted mid-batch the new records are discarded.
func (s *MonitoringSession) Update(ctx context.Context, records []domain.VendorRecord) (UpdateReport, error) {
	s.updates.Lock()
	defer s.updates.Unlock()

	s.mu.Lock()
	if s.snapshot.State != domain.MonitorActive {
		state := s.snapshot.State
		s.mu.Unlock()
		return UpdateReport{}, domain.NewNotActiveError("update monitoring", state)
	}
	epoch := s.epoch
	previous := cloneRecords(s.snapshot.Records)
	s.mu.Unlock()

	transitions := Diff(previous, records)
	report := UpdateReport{
		ChangesDetected: len(transitions),
		Transitions:     transitions,
		Dispatches:      make([]DispatchOutcome, 0),
	}

	for _, transition := range Qualifying(transitions) {
		report.Dispatches = append(report.Dispatches, s.dispatch(ctx, transition))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		s.logger.Warn("monitoring session changed during update, snapshot not replaced",
			zap.Int("dispatches", len(report.Dispatches)),
		)
		return report, nil
	}
	s.snapshot.Records = cloneRecords(records)
	s.snapshot.LastModifiedAt = s.clock.Now().UTC()

	s.logger.Info("monitoring snapshot updated",
		zap.Int("changes", report.ChangesDetected),
		zap.Int("dispatches", len(report.Dispatches)),
	)

	return report, nil
}

func (s *MonitoringSession) dispatch(ctx context.Context, transition domain.Transition) DispatchOutcome {
	vendor := transition.Vendor
	outcome := DispatchOutcome{
		Index:      transition.Index,
		VendorName: vendor.VendorName,
		Email:      vendor.Email,
	}

	req := RequestFromRecord(vendor)
	notification, err := s.notifier.Notify(ctx, req)
	if err != nil {
		entry := notification.Entry
		if isValidation(err) {
			entry = s.notifier.RecordRejected(req, err)
		}
		outcome.Error = err.Error()
		outcome.LogEntryID = entry.ID
		s.logger.Warn("payment confirmation not sent",
			zap.Int("index", transition.Index),
			zap.String("vendor", vendor.VendorName),
			zap.Error(err),
		)
		return outcome
	}

	outcome.Sent = true
	outcome.MessageID = notification.Result.MessageID
	outcome.Method = notification.Result.Method
	outcome.Account = notification.Result.AccountName
	outcome.LogEntryID = notification.Entry.ID
	return outcome
}

func (s *MonitoringSession) statusLocked() MonitorStatus {
	status := MonitorStatus{
		Active:      s.snapshot.State == domain.MonitorActive,
		State:       string(s.snapshot.State),
		RecordCount: len(s.snapshot.Records),
		Source:      s.snapshot.Source,
	}
	status.StartedAt = timePtr(s.snapshot.StartedAt)
	status.LastModifiedAt = timePtr(s.snapshot.LastModifiedAt)
	return status
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func cloneRecords(records []domain.VendorRecord) []domain.VendorRecord {
	out := make([]domain.VendorRecord, len(records))
	copy(out, records)
	return out
}
