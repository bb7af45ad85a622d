package ports

import "github.com/shopspring/decimal"

type PaymentNotice struct {
	VendorID    string
	VendorName  string
	Email       string
	PaymentDate string
	Amount      decimal.Decimal
}

type RenderedMessage struct {
	Subject  string
	HTMLBody string
	TextBody string
}

// MessageRenderer turns a payment notice into subject and bodies.
type MessageRenderer interface {
	Render(notice PaymentNotice) (RenderedMessage, error)
}
