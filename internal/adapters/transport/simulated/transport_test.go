package simulated

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/paymail/internal/domain"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestTransportSendSynthesizesUniqueIDs(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	transport := New("", fixedClock{now: now})
	shape := regexp.MustCompile(`^sim-\d+\.[0-9a-f]{9}@psu-system\.local$`)

	seen := map[string]struct{}{}
	for i := 0; i < 20; i++ {
		receipt, err := transport.Send(context.Background(), domain.Account{ID: "ops@psu.in"}, domain.Envelope{To: "a@acme.in"})
		require.NoError(t, err)
		assert.Regexp(t, shape, receipt.MessageID)
		assert.Contains(t, receipt.MessageID, "sim-1772447400000.")
		assert.Equal(t, Response, receipt.Response)
		seen[receipt.MessageID] = struct{}{}
	}
	assert.Len(t, seen, 20)
}

func TestTransportCustomDomain(t *testing.T) {
	t.Parallel()

	receipt, err := New("payments.psu.in", nil).Send(context.Background(), domain.Account{}, domain.Envelope{})
	require.NoError(t, err)
	assert.Contains(t, receipt.MessageID, "@payments.psu.in")
}
