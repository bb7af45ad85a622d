package smtp

import (
	"context"
	"errors"
	"io"
	"net"
	"net/textproto"
	"os"
	"strings"

	"github.com/bnema/paymail/internal/domain"
)

type stage string

const (
	stageDial     stage = "dial"
	stageGreeting stage = "greeting"
	stageHello    stage = "hello"
	stageStartTLS stage = "starttls"
	stageAuth     stage = "auth"
	stageMail     stage = "mail"
	stageRcpt     stage = "rcpt"
	stageData     stage = "data"
	stageQuit     stage = "quit"
)

var rateLimitMarkers = []string{
	"rate limit",
	"daily sending quota",
	"daily user sending quota",
	"quota",
	"too many",
}

// Classify maps an SMTP session error onto a failure kind. Reply codes win
// over the session stage; a refused login is a credentials failure, any other
// auth-stage problem is an auth failure.
func Classify(st stage, err error) domain.FailureKind {
	if err == nil {
		return domain.FailureNone
	}

	var reply *textproto.Error
	if errors.As(err, &reply) {
		return classifyReply(reply)
	}

	if isConnectivity(err) {
		return domain.FailureConnectivity
	}

	switch st {
	case stageDial, stageGreeting, stageStartTLS:
		return domain.FailureConnectivity
	case stageAuth:
		return domain.FailureAuth
	default:
		return domain.FailureUnknown
	}
}

func classifyReply(reply *textproto.Error) domain.FailureKind {
	msg := strings.ToLower(reply.Msg)
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return domain.FailureRateLimited
		}
	}

	switch reply.Code {
	case 535:
		return domain.FailureCredentials
	case 530, 534, 538:
		return domain.FailureAuth
	case 421:
		return domain.FailureConnectivity
	default:
		return domain.FailureUnknown
	}
}

func isConnectivity(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, net.ErrClosed) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
