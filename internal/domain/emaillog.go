package domain

import "time"

type Outcome string

const (
	OutcomeSent   Outcome = "sent"
	OutcomeFailed Outcome = "failed"
)

type EmailLogEntry struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	VendorName  string    `json:"vendorName"`
	VendorEmail string    `json:"vendorEmail"`
	Outcome     Outcome   `json:"status"`
	MessageID   string    `json:"messageId,omitempty"`
	Error       string    `json:"error,omitempty"`
	Method      Method    `json:"method,omitempty"`
}

type LogSummary struct {
	Total  int `json:"totalCount"`
	Sent   int `json:"sentCount"`
	Failed int `json:"failedCount"`
}
