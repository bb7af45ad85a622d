package smtp

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bnema/paymail/internal/domain"
)

func newMessageID(from string) string {
	host := "paymail.local"
	if _, domainPart, ok := strings.Cut(from, "@"); ok && domainPart != "" {
		host = domainPart
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), host)
}

// buildMessage renders a multipart/alternative message with a text and an
// HTML part, both quoted-printable.
func buildMessage(envelope domain.Envelope, from, messageID string, now time.Time) ([]byte, error) {
	var body bytes.Buffer
	parts := multipart.NewWriter(&body)

	for _, part := range []struct {
		contentType string
		content     string
	}{
		{contentType: "text/plain; charset=utf-8", content: envelope.TextBody},
		{contentType: "text/html; charset=utf-8", content: envelope.HTMLBody},
	} {
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", part.contentType)
		header.Set("Content-Transfer-Encoding", "quoted-printable")

		w, err := parts.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("create message part: %w", err)
		}
		qp := quotedprintable.NewWriter(w)
		if _, err := qp.Write([]byte(part.content)); err != nil {
			return nil, fmt.Errorf("encode message part: %w", err)
		}
		if err := qp.Close(); err != nil {
			return nil, fmt.Errorf("encode message part: %w", err)
		}
	}
	if err := parts.Close(); err != nil {
		return nil, fmt.Errorf("close message parts: %w", err)
	}

	sender := mail.Address{Name: envelope.FromDisplay, Address: from}
	recipient := mail.Address{Address: envelope.To}

	var msg bytes.Buffer
	writeHeader(&msg, "From", sender.String())
	writeHeader(&msg, "To", recipient.String())
	writeHeader(&msg, "Subject", mime.QEncoding.Encode("utf-8", envelope.Subject))
	writeHeader(&msg, "Date", now.Format(time.RFC1123Z))
	writeHeader(&msg, "Message-ID", messageID)
	writeHeader(&msg, "MIME-Version", "1.0")
	writeHeader(&msg, "Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", parts.Boundary()))
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	return msg.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}
