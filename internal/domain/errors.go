package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrConfiguration  = errors.New("configuration error")
	ErrNoAccounts     = errors.New("no sending accounts configured")
	ErrAlreadyActive  = errors.New("monitoring is already active")
	ErrNotActive      = errors.New("monitoring is not active")
	ErrUnknownAction  = errors.New("unknown action")
	ErrSecretNotFound = errors.New("secret not found")
)

// ValidationError rejects malformed input. It is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConfigurationError is fatal for dispatch and is surfaced without fallback.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// StateError rejects a control action that does not fit the current monitoring state.
type StateError struct {
	Op    string
	State MonitorState
	Err   error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %v (state: %s)", e.Op, e.Err, e.State)
}

func (e *StateError) Unwrap() error {
	return e.Err
}

func NewAlreadyActiveError(op string, state MonitorState) error {
	return &StateError{Op: op, State: state, Err: ErrAlreadyActive}
}

func NewNotActiveError(op string, state MonitorState) error {
	return &StateError{Op: op, State: state, Err: ErrNotActive}
}

// TransportError carries the failure class assigned by a transport.
type TransportError struct {
	Kind    FailureKind
	Account AccountID
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failure via %s: %v", e.Kind, e.Account, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FailureKindOf extracts the classified kind; unclassified errors are FailureUnknown.
func FailureKindOf(err error) FailureKind {
	if err == nil {
		return FailureNone
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Kind
	}

	return FailureUnknown
}
