package domain

import (
	"fmt"
	"strings"
)

// AccountID is the sending identity (the SMTP login, usually an email address).
type AccountID string

type Account struct {
	ID          AccountID
	DisplayName string
	// SecretRef points to where the secret was resolved from, e.g. "env://GMAIL_APP_PASSWORD".
	SecretRef  string
	Secret     string `json:"-"`
	DailyQuota int
}

func (a Account) Validate() error {
	if strings.TrimSpace(string(a.ID)) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(a.Secret) == "" {
		return fmt.Errorf("secret is required for %s", a.ID)
	}
	if a.DailyQuota <= 0 {
		return fmt.Errorf("daily quota must be positive for %s", a.ID)
	}

	return nil
}

// Name returns the display name, falling back to the identity.
func (a Account) Name() string {
	if name := strings.TrimSpace(a.DisplayName); name != "" {
		return name
	}
	return string(a.ID)
}

// SenderConfig is the runtime-set sending credential, the highest layer of account resolution.
type SenderConfig struct {
	Email       string
	AppPassword string
	DisplayName string
}

func (c SenderConfig) IsConfigured() bool {
	return strings.TrimSpace(c.Email) != "" && strings.TrimSpace(c.AppPassword) != ""
}
