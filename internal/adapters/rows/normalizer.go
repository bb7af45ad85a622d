// Package rows turns loosely-typed spreadsheet rows into vendor records.
package rows

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/bnema/paymail/internal/domain"
	"github.com/bnema/paymail/internal/ports"
)

var (
	vendorNameHeaders  = []string{"Vendor Name", "VendorName"}
	emailHeaders       = []string{"Email", "email"}
	paymentDateHeaders = []string{"Payment Date", "PaymentDate"}
	amountHeaders      = []string{"Amount", "amount"}
	statusHeaders      = []string{"Status", "status"}
)

type Normalizer struct{}

var _ ports.RowNormalizer = Normalizer{}

func New() Normalizer {
	return Normalizer{}
}

// Normalize maps each row to a record with id vendor-<index>. Missing text
// columns become empty strings, an unparseable amount becomes zero and a
// missing status defaults to Not Paid. An unrecognised status is rejected.
func (Normalizer) Normalize(rows []map[string]any) ([]domain.VendorRecord, error) {
	records := make([]domain.VendorRecord, 0, len(rows))
	for i, row := range rows {
		record, err := normalizeRow(i, row)
		if err != nil {
			return nil, fmt.Errorf("normalize row %d: %w", i, err)
		}
		records = append(records, record)
	}

	return records, nil
}

func normalizeRow(index int, row map[string]any) (domain.VendorRecord, error) {
	record := domain.VendorRecord{
		ID:          fmt.Sprintf("vendor-%d", index),
		VendorName:  text(row, vendorNameHeaders),
		Email:       text(row, emailHeaders),
		PaymentDate: text(row, paymentDateHeaders),
		Amount:      amount(row),
		Status:      domain.StatusNotPaid,
	}

	if raw := text(row, statusHeaders); raw != "" {
		status, err := domain.ParsePaymentStatus(raw)
		if err != nil {
			return domain.VendorRecord{}, err
		}
		record.Status = status
	}

	return record, nil
}

// lookup returns the first alias holding a non-blank value.
func lookup(row map[string]any, headers []string) (any, bool) {
	for _, header := range headers {
		value, ok := row[header]
		if !ok || value == nil {
			continue
		}
		if strings.TrimSpace(cast.ToString(value)) == "" {
			continue
		}
		return value, true
	}
	return nil, false
}

func text(row map[string]any, headers []string) string {
	value, ok := lookup(row, headers)
	if !ok {
		return ""
	}
	return strings.TrimSpace(cast.ToString(value))
}

func amount(row map[string]any) decimal.Decimal {
	value, ok := lookup(row, amountHeaders)
	if !ok {
		return decimal.Zero
	}

	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case float32:
		return decimal.NewFromFloat32(v)
	}

	raw, err := cast.ToStringE(value)
	if err != nil {
		return decimal.Zero
	}
	raw = strings.NewReplacer(",", "", "₹", "", " ", "").Replace(raw)
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return parsed
}
