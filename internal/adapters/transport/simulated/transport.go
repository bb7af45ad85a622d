package simulated

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bnema/paymail/internal/domain"
	"github.com/bnema/paymail/internal/ports"
)

const (
	DefaultDomain = "psu-system.local"
	Response      = "250 simulated delivery (no network I/O)"
)

// Transport accepts every message without touching the network.
type Transport struct {
	domain string
	clock  ports.Clock
}

var _ ports.Transport = (*Transport)(nil)

func New(messageDomain string, clock ports.Clock) *Transport {
	if strings.TrimSpace(messageDomain) == "" {
		messageDomain = DefaultDomain
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Transport{domain: messageDomain, clock: clock}
}

func (t *Transport) Send(_ context.Context, _ domain.Account, _ domain.Envelope) (domain.Receipt, error) {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]

	return domain.Receipt{
		MessageID: fmt.Sprintf("sim-%d.%s@%s", t.clock.Now().UnixMilli(), id, t.domain),
		Response:  Response,
	}, nil
}
