package rows

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/paymail/internal/domain"
)

func TestNormalizeHeaderAliases(t *testing.T) {
	t.Parallel()

	records, err := New().Normalize([]map[string]any{
		{"Vendor Name": "Acme Supplies", "Email": "billing@acme.in", "Payment Date": "2026-10-01", "Amount": 1250.5, "Status": "Paid"},
		{"VendorName": "Beta Traders", "email": "ap@beta.in", "PaymentDate": "2026-10-02", "amount": "98,000.25", "status": "not paid"},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, domain.VendorRecord{
		ID:          "vendor-0",
		VendorName:  "Acme Supplies",
		Email:       "billing@acme.in",
		PaymentDate: "2026-10-01",
		Amount:      records[0].Amount,
		Status:      domain.StatusPaid,
	}, records[0])
	assert.True(t, decimal.RequireFromString("1250.5").Equal(records[0].Amount))

	assert.Equal(t, "vendor-1", records[1].ID)
	assert.Equal(t, "Beta Traders", records[1].VendorName)
	assert.Equal(t, "ap@beta.in", records[1].Email)
	assert.Equal(t, domain.StatusNotPaid, records[1].Status)
	assert.True(t, decimal.RequireFromString("98000.25").Equal(records[1].Amount))
}

func TestNormalizeDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		row        map[string]any
		wantAmount string
		wantStatus domain.PaymentStatus
	}{
		{name: "empty row", row: map[string]any{}, wantAmount: "0", wantStatus: domain.StatusNotPaid},
		{name: "invalid amount", row: map[string]any{"Amount": "n/a"}, wantAmount: "0", wantStatus: domain.StatusNotPaid},
		{name: "blank primary header falls through", row: map[string]any{"Amount": "", "amount": "12"}, wantAmount: "12", wantStatus: domain.StatusNotPaid},
		{name: "integer amount", row: map[string]any{"Amount": 500}, wantAmount: "500", wantStatus: domain.StatusNotPaid},
		{name: "rupee prefix", row: map[string]any{"Amount": "₹1,00,000"}, wantAmount: "100000", wantStatus: domain.StatusNotPaid},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			records, err := New().Normalize([]map[string]any{tc.row})
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "vendor-0", records[0].ID)
			assert.Equal(t, tc.wantStatus, records[0].Status)
			assert.True(t, decimal.RequireFromString(tc.wantAmount).Equal(records[0].Amount), records[0].Amount.String())
		})
	}
}

func TestNormalizeRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	_, err := New().Normalize([]map[string]any{
		{"Vendor Name": "Acme", "Status": "Paid"},
		{"Vendor Name": "Beta", "Status": "Pending"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "normalize row 1")
}

func TestNormalizeEmptyInput(t *testing.T) {
	t.Parallel()

	records, err := New().Normalize(nil)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}
