// Package mailtemplate renders payment confirmation messages.
package mailtemplate

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/bnema/paymail/internal/ports"
)

const (
	Subject             = "Payment Confirmation - PSU Vendor Payment"
	DefaultOrganization = "PSU Finance Department"
	DefaultContactEmail = "accounts@psu.gov.in"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type Options struct {
	Organization string
	ContactEmail string
	Location     *time.Location
	Clock        ports.Clock
}

type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
	opts Options
}

var _ ports.MessageRenderer = (*Renderer)(nil)

type view struct {
	VendorName   string
	Email        string
	PaymentDate  string
	Amount       string
	ReferenceID  string
	Organization string
	ContactEmail string
	SentAt       string
}

func New(opts Options) (*Renderer, error) {
	if strings.TrimSpace(opts.Organization) == "" {
		opts.Organization = DefaultOrganization
	}
	if strings.TrimSpace(opts.ContactEmail) == "" {
		opts.ContactEmail = DefaultContactEmail
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Clock == nil {
		opts.Clock = ports.SystemClock{}
	}

	html, err := htmltemplate.ParseFS(templateFS, "templates/confirmation.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse html template: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/confirmation.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse text template: %w", err)
	}

	return &Renderer{html: html, text: text, opts: opts}, nil
}

func (r *Renderer) Render(notice ports.PaymentNotice) (ports.RenderedMessage, error) {
	data := view{
		VendorName:   notice.VendorName,
		Email:        notice.Email,
		PaymentDate:  notice.PaymentDate,
		Amount:       FormatINR(notice.Amount),
		ReferenceID:  strings.TrimSpace(notice.VendorID),
		Organization: r.opts.Organization,
		ContactEmail: r.opts.ContactEmail,
		SentAt:       r.opts.Clock.Now().In(r.opts.Location).Format("02 Jan 2006 15:04 MST"),
	}

	var html bytes.Buffer
	if err := r.html.Execute(&html, data); err != nil {
		return ports.RenderedMessage{}, fmt.Errorf("render html body: %w", err)
	}
	var text bytes.Buffer
	if err := r.text.Execute(&text, data); err != nil {
		return ports.RenderedMessage{}, fmt.Errorf("render text body: %w", err)
	}

	return ports.RenderedMessage{
		Subject:  Subject,
		HTMLBody: html.String(),
		TextBody: text.String(),
	}, nil
}
