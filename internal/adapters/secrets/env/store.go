package env

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/spf13/viper"

	"github.com/bnema/paymail/internal/domain"
	"github.com/bnema/paymail/internal/ports"
)

// Store resolves secret references from environment variables. A reference
// such as "paymail/accounts/ops-2" is read from PAYMAIL_ACCOUNTS_OPS_2.
type Store struct {
	v *viper.Viper
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore() *Store {
	v := viper.New()
	v.AutomaticEnv()
	return &Store{v: v}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := VariableName(key)
	if name == "" {
		return "", fmt.Errorf("env secret key is empty")
	}

	value := strings.TrimSpace(s.v.GetString(name))
	if value == "" {
		return "", fmt.Errorf("env secret %q: %w", name, domain.ErrSecretNotFound)
	}

	return value, nil
}

func VariableName(key string) string {
	trimmed := strings.Trim(strings.TrimSpace(key), "/")
	if trimmed == "" {
		return ""
	}

	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToUpper(r)
		}
		return '_'
	}, trimmed)
}
