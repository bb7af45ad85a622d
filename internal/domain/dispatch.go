package domain

type Method string

const (
	MethodDirect    Method = "direct"
	MethodSimulated Method = "simulated"
)

// FailureKind is the closed set of transport failure classes. Transports
// assign it once, at the boundary; nothing downstream re-reads error text.
type FailureKind string

const (
	FailureNone         FailureKind = ""
	FailureAuth         FailureKind = "auth"
	FailureConnectivity FailureKind = "connectivity"
	FailureCredentials  FailureKind = "credentials"
	FailureRateLimited  FailureKind = "rate_limited"
	FailureUnknown      FailureKind = "unknown"
)

// Rotates reports whether the failure should move dispatch on to another account.
func (k FailureKind) Rotates() bool {
	switch k {
	case FailureAuth, FailureCredentials, FailureRateLimited:
		return true
	default:
		return false
	}
}

type Envelope struct {
	FromDisplay string
	To          string
	Subject     string
	HTMLBody    string
	TextBody    string
}

// Receipt is what a transport hands back after accepting a message.
type Receipt struct {
	MessageID string
	Response  string
}

type DispatchResult struct {
	Success      bool        `json:"success"`
	MessageID    string      `json:"messageId"`
	Response     string      `json:"response,omitempty"`
	Method       Method      `json:"method"`
	AccountUsed  AccountID   `json:"accountUsed"`
	AccountName  string      `json:"account"`
	AccountIndex int         `json:"accountIndex"`
	UsageAfter   int         `json:"usage"`
	Quota        int         `json:"limit"`
	FailureKind  FailureKind `json:"failureKind,omitempty"`
}
