package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	StatusNotPaid PaymentStatus = "Not Paid"
	StatusPaid    PaymentStatus = "Paid"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusNotPaid, StatusPaid:
		return true
	default:
		return false
	}
}

// ParsePaymentStatus accepts the canonical labels case-insensitively.
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	trimmed := strings.TrimSpace(raw)
	switch {
	case strings.EqualFold(trimmed, string(StatusPaid)):
		return StatusPaid, nil
	case strings.EqualFold(trimmed, string(StatusNotPaid)):
		return StatusNotPaid, nil
	default:
		return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown payment status %q", raw)}
	}
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ValidationError{Field: "status", Reason: "must be a string"}
	}

	parsed, err := ParsePaymentStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// VendorRecord is one row of a snapshot. Records are never mutated once
// they are part of a snapshot; the next snapshot replaces them wholesale.
type VendorRecord struct {
	ID          string          `json:"id"`
	VendorName  string          `json:"vendorName"`
	Email       string          `json:"email"`
	PaymentDate string          `json:"paymentDate"`
	Amount      decimal.Decimal `json:"amount"`
	Status      PaymentStatus   `json:"status"`
}

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether address has the single-line local@domain.tld shape.
func ValidEmail(address string) bool {
	return emailShape.MatchString(address)
}
