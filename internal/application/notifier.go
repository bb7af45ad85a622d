package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bnema/paymail/internal/domain"
	"github.com/bnema/paymail/internal/ports"
	"github.com/bnema/paymail/internal/validation"
)

// DispatchRequest is one payment confirmation to send. Amount accepts either
// a JSON number or a numeric string.
type DispatchRequest struct {
	VendorID    string          `json:"vendorId"`
	VendorName  string          `json:"vendorName" validate:"required"`
	Email       string          `json:"email" validate:"required,mailshape"`
	PaymentDate string          `json:"paymentDate"`
	Amount      decimal.Decimal `json:"amount" validate:"-"`
}

func RequestFromRecord(record domain.VendorRecord) DispatchRequest {
	return DispatchRequest{
		VendorID:    record.ID,
		VendorName:  record.VendorName,
		Email:       record.Email,
		PaymentDate: record.PaymentDate,
		Amount:      record.Amount,
	}
}

type Notification struct {
	Result domain.DispatchResult
	Entry  domain.EmailLogEntry
}

// Notifier renders a payment confirmation, dispatches it and records the
// outcome in the email log.
type Notifier struct {
	engine      *DispatchEngine
	renderer    ports.MessageRenderer
	log         *EmailLog
	validator   *validation.Validator
	fromDisplay string
	clock       ports.Clock
	logger      *zap.Logger
}

func NewNotifier(engine *DispatchEngine, renderer ports.MessageRenderer, log *EmailLog, fromDisplay string, clock ports.Clock, logger *zap.Logger) *Notifier {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Notifier{
		engine:      engine,
		renderer:    renderer,
		log:         log,
		validator:   validation.New(),
		fromDisplay: fromDisplay,
		clock:       clock,
		logger:      logger,
	}
}

func (n *Notifier) Log() *EmailLog {
	return n.log
}

func (n *Notifier) Validate(req DispatchRequest) error {
	if err := n.validator.Struct(req); err != nil {
		return err
	}
	if req.Amount.IsNegative() {
		return &domain.ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	return nil
}

// Notify validates req before anything is logged. Once validated, every
// attempt produces exactly one log entry, including ones that fail.
func (n *Notifier) Notify(ctx context.Context, req DispatchRequest) (Notification, error) {
	if err := n.Validate(req); err != nil {
		return Notification{}, err
	}

	entry := domain.EmailLogEntry{
		ID:          uuid.NewString(),
		Timestamp:   n.clock.Now().UTC(),
		VendorName:  req.VendorName,
		VendorEmail: req.Email,
		Outcome:     domain.OutcomeFailed,
	}

	message, err := n.renderer.Render(ports.PaymentNotice{
		VendorID:    req.VendorID,
		VendorName:  req.VendorName,
		Email:       req.Email,
		PaymentDate: req.PaymentDate,
		Amount:      req.Amount,
	})
	if err != nil {
		err = fmt.Errorf("render payment confirmation: %w", err)
		entry.Error = err.Error()
		n.log.Append(entry)
		n.logger.Error("payment confirmation not rendered",
			zap.String("vendor", req.VendorName),
			zap.Error(err),
		)
		return Notification{Entry: entry}, err
	}

	result, err := n.engine.Send(ctx, domain.Envelope{
		FromDisplay: n.fromDisplay,
		To:          req.Email,
		Subject:     message.Subject,
		HTMLBody:    message.HTMLBody,
		TextBody:    message.TextBody,
	})
	if err != nil {
		entry.Error = err.Error()
		n.log.Append(entry)
		n.logger.Error("payment confirmation failed",
			zap.String("vendor", req.VendorName),
			zap.String("email", req.Email),
			zap.Error(err),
		)
		return Notification{Entry: entry}, err
	}

	entry.Outcome = domain.OutcomeSent
	entry.MessageID = result.MessageID
	entry.Method = result.Method
	n.log.Append(entry)

	n.logger.Info("payment confirmation sent",
		zap.String("vendor", req.VendorName),
		zap.String("message_id", result.MessageID),
		zap.String("method", string(result.Method)),
		zap.String("account", string(result.AccountUsed)),
	)

	return Notification{Result: result, Entry: entry}, nil
}

// RecordRejected logs a request that failed validation before dispatch.
func (n *Notifier) RecordRejected(req DispatchRequest, cause error) domain.EmailLogEntry {
	entry := domain.EmailLogEntry{
		ID:          uuid.NewString(),
		Timestamp:   n.clock.Now().UTC(),
		VendorName:  req.VendorName,
		VendorEmail: req.Email,
		Outcome:     domain.OutcomeFailed,
		Error:       cause.Error(),
	}
	n.log.Append(entry)
	return entry
}

func isValidation(err error) bool {
	return errors.Is(err, domain.ErrValidation)
}
