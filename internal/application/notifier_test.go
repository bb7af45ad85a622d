package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/paymail/internal/domain"
	"github.com/bnema/paymail/internal/ports"
)

func newTestNotifier(accounts []domain.Account) (*Notifier, *scriptedTransport) {
	pool := NewAccountPool(accounts, fixedClock{now: testNow})
	direct := &scriptedTransport{prefix: "direct"}
	engine := NewDispatchEngine(pool, direct, &scriptedTransport{prefix: "sim"}, nil, nil)
	return NewNotifier(engine, stubRenderer{}, NewEmailLog(), DefaultSenderDisplayName, fixedClock{now: testNow}, nil), direct
}

func TestNotifierNotifySuccess(t *testing.T) {
	t.Parallel()

	notifier, direct := newTestNotifier(testAccounts(450, "ops@psu.in"))

	n, err := notifier.Notify(context.Background(), DispatchRequest{
		VendorID:    "vendor-0",
		VendorName:  "Acme",
		Email:       "billing@acme.in",
		PaymentDate: "2026-03-01",
		Amount:      decimal.RequireFromString("125000.50"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.MethodDirect, n.Result.Method)
	assert.Equal(t, domain.OutcomeSent, n.Entry.Outcome)
	assert.Equal(t, n.Result.MessageID, n.Entry.MessageID)
	assert.Equal(t, testNow, n.Entry.Timestamp)
	assert.NotEmpty(t, n.Entry.ID)
	assert.Len(t, direct.Calls(), 1)
	assert.Equal(t, domain.LogSummary{Total: 1, Sent: 1}, notifier.Log().Summary())
}

func TestNotifierValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		req   DispatchRequest
		field string
	}{
		{name: "missing vendor", req: DispatchRequest{Email: "a@acme.in"}, field: "vendorName"},
		{name: "bad email", req: DispatchRequest{VendorName: "Acme", Email: "acme.in"}, field: "email"},
		{name: "negative amount", req: DispatchRequest{VendorName: "Acme", Email: "a@acme.in", Amount: decimal.NewFromInt(-1)}, field: "amount"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			notifier, direct := newTestNotifier(testAccounts(450, "ops@psu.in"))

			_, err := notifier.Notify(context.Background(), tt.req)
			require.Error(t, err)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Empty(t, direct.Calls())
			assert.Equal(t, 0, notifier.Log().Summary().Total, "rejected requests are not logged by Notify")
		})
	}
}

func TestNotifierAllowsZeroAmount(t *testing.T) {
	t.Parallel()

	notifier, _ := newTestNotifier(testAccounts(450, "ops@psu.in"))

	_, err := notifier.Notify(context.Background(), DispatchRequest{VendorName: "Acme", Email: "a@acme.in"})
	require.NoError(t, err)
}

func TestNotifierLogsConfigurationFailure(t *testing.T) {
	t.Parallel()

	notifier, _ := newTestNotifier(nil)

	n, err := notifier.Notify(context.Background(), DispatchRequest{VendorName: "Acme", Email: "a@acme.in"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
	assert.Equal(t, domain.OutcomeFailed, n.Entry.Outcome)
	assert.Equal(t, domain.LogSummary{Total: 1, Failed: 1}, notifier.Log().Summary())
}

type failingRenderer struct{}

func (failingRenderer) Render(ports.PaymentNotice) (ports.RenderedMessage, error) {
	return ports.RenderedMessage{}, errors.New("template missing")
}

func TestNotifierLogsRenderFailure(t *testing.T) {
	t.Parallel()

	pool := NewAccountPool(testAccounts(450, "ops@psu.in"), fixedClock{now: testNow})
	direct := &scriptedTransport{prefix: "direct"}
	engine := NewDispatchEngine(pool, direct, &scriptedTransport{prefix: "sim"}, nil, nil)
	notifier := NewNotifier(engine, failingRenderer{}, NewEmailLog(), DefaultSenderDisplayName, fixedClock{now: testNow}, nil)

	n, err := notifier.Notify(context.Background(), DispatchRequest{VendorName: "Acme", Email: "a@acme.in"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render payment confirmation")
	assert.NotEmpty(t, n.Entry.ID)
	assert.Equal(t, domain.OutcomeFailed, n.Entry.Outcome)
	assert.Equal(t, domain.LogSummary{Total: 1, Failed: 1}, notifier.Log().Summary())
	assert.Empty(t, direct.Calls())
	assert.Equal(t, 0, pool.Usage("ops@psu.in"))
}
