package mailtemplate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/paymail/internal/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func TestFormatINR(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount string
		want   string
	}{
		{amount: "0", want: "₹0.00"},
		{amount: "999", want: "₹999.00"},
		{amount: "1000", want: "₹1,000.00"},
		{amount: "1250.5", want: "₹1,250.50"},
		{amount: "100000", want: "₹1,00,000.00"},
		{amount: "1234567.891", want: "₹12,34,567.89"},
		{amount: "123456789", want: "₹12,34,56,789.00"},
		{amount: "-4500", want: "-₹4,500.00"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.amount, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, FormatINR(decimal.RequireFromString(tc.amount)))
		})
	}
}

func TestRendererRendersBothBodies(t *testing.T) {
	t.Parallel()

	renderer, err := New(Options{Clock: fixedClock{now: time.Date(2026, 10, 14, 9, 15, 0, 0, time.UTC)}})
	require.NoError(t, err)

	msg, err := renderer.Render(ports.PaymentNotice{
		VendorID:    "vendor-7",
		VendorName:  "Acme & Sons",
		Email:       "billing@acme.in",
		PaymentDate: "2026-10-01",
		Amount:      decimal.RequireFromString("125000.5"),
	})
	require.NoError(t, err)

	assert.Equal(t, Subject, msg.Subject)

	assert.Contains(t, msg.HTMLBody, "Acme &amp; Sons")
	assert.Contains(t, msg.HTMLBody, "billing@acme.in")
	assert.Contains(t, msg.HTMLBody, "₹1,25,000.50")
	assert.Contains(t, msg.HTMLBody, "PAID")
	assert.Contains(t, msg.HTMLBody, "Reference ID:")
	assert.Contains(t, msg.HTMLBody, "vendor-7")

	assert.Contains(t, msg.TextBody, "Dear Acme & Sons,")
	assert.Contains(t, msg.TextBody, "- Amount: ₹1,25,000.50")
	assert.Contains(t, msg.TextBody, "- Status: PAID")
	assert.Contains(t, msg.TextBody, "- Reference ID: vendor-7")
	assert.Contains(t, msg.TextBody, "Email sent at 14 Oct 2026 09:15 UTC")
}

func TestRendererOmitsEmptyReference(t *testing.T) {
	t.Parallel()

	renderer, err := New(Options{})
	require.NoError(t, err)

	msg, err := renderer.Render(ports.PaymentNotice{
		VendorName:  "Beta",
		Email:       "ap@beta.in",
		PaymentDate: "2026-10-02",
		Amount:      decimal.Zero,
	})
	require.NoError(t, err)

	assert.NotContains(t, msg.HTMLBody, "Reference ID")
	assert.NotContains(t, msg.TextBody, "Reference ID")
	assert.Contains(t, msg.TextBody, "₹0.00")
	assert.Contains(t, msg.TextBody, DefaultContactEmail)
}
