package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/bnema/paymail/internal/domain"
	"github.com/bnema/paymail/internal/ports"
)

const (
	DefaultHost    = "smtp.gmail.com"
	DefaultPort    = 587
	DefaultTimeout = 5 * time.Second
	acceptedReply  = "250 message accepted for delivery"
)

type Config struct {
	Host string
	Port int
	// Timeout bounds the whole session: connect, greeting, STARTTLS, auth and
	// the message transfer.
	Timeout  time.Duration
	HeloName string
	// TLSConfig is used for STARTTLS when the server offers it. Nil means a
	// default config verifying Host.
	TLSConfig *tls.Config
}

func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.HeloName == "" {
		c.HeloName = "localhost"
	}
	return c
}

// Transport delivers over SMTP submission with STARTTLS and PLAIN auth.
// Every failure leaves as a *domain.TransportError carrying its kind.
type Transport struct {
	cfg   Config
	clock ports.Clock
}

var _ ports.Transport = (*Transport)(nil)

func New(cfg Config, clock ports.Clock) *Transport {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &Transport{cfg: cfg.withDefaults(), clock: clock}
}

func (t *Transport) Send(ctx context.Context, account domain.Account, envelope domain.Envelope) (domain.Receipt, error) {
	receipt, st, err := t.deliver(ctx, account, envelope)
	if err != nil {
		return domain.Receipt{}, &domain.TransportError{
			Kind:    Classify(st, err),
			Account: account.ID,
			Err:     fmt.Errorf("smtp %s: %w", st, err),
		}
	}
	return receipt, nil
}

func (t *Transport) deliver(ctx context.Context, account domain.Account, envelope domain.Envelope) (domain.Receipt, stage, error) {
	addr := net.JoinHostPort(t.cfg.Host, strconv.Itoa(t.cfg.Port))
	deadline := time.Now().Add(t.cfg.Timeout)

	dialCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return domain.Receipt{}, stageDial, err
	}
	if err := conn.SetDeadline(deadline); err != nil {
		_ = conn.Close()
		return domain.Receipt{}, stageDial, err
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	client, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return domain.Receipt{}, stageGreeting, err
	}
	defer client.Close()

	if err := client.Hello(t.cfg.HeloName); err != nil {
		return domain.Receipt{}, stageHello, err
	}

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := t.cfg.TLSConfig
		if tlsConfig == nil {
			tlsConfig = &tls.Config{ServerName: t.cfg.Host, MinVersion: tls.VersionTLS12}
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return domain.Receipt{}, stageStartTLS, err
		}
	}

	auth := smtp.PlainAuth("", string(account.ID), account.Secret, t.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return domain.Receipt{}, stageAuth, err
	}

	from := string(account.ID)
	if err := client.Mail(from); err != nil {
		return domain.Receipt{}, stageMail, err
	}
	if err := client.Rcpt(envelope.To); err != nil {
		return domain.Receipt{}, stageRcpt, err
	}

	messageID := newMessageID(from)
	body, err := buildMessage(envelope, from, messageID, t.clock.Now())
	if err != nil {
		return domain.Receipt{}, stageData, err
	}

	w, err := client.Data()
	if err != nil {
		return domain.Receipt{}, stageData, err
	}
	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return domain.Receipt{}, stageData, err
	}
	if err := w.Close(); err != nil {
		return domain.Receipt{}, stageData, err
	}

	// The message is accepted at this point; a failed QUIT does not undo it.
	_ = client.Quit()

	return domain.Receipt{MessageID: messageID, Response: acceptedReply}, stageQuit, nil
}
