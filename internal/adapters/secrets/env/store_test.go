package env

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/paymail/internal/domain"
)

func TestVariableName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"GMAIL_APP_PASSWORD_2":   "GMAIL_APP_PASSWORD_2",
		"paymail/accounts/ops-2": "PAYMAIL_ACCOUNTS_OPS_2",
		"/leading/slash/":        "LEADING_SLASH",
		"   ":                    "",
	}

	for key, want := range tests {
		assert.Equal(t, want, VariableName(key), key)
	}
}

func TestStoreGetReadsEnvironment(t *testing.T) {
	t.Setenv("PAYMAIL_ACCOUNTS_OPS_2", "  abcd efgh ijkl mnop \n")

	value, err := NewStore().Get(context.Background(), "paymail/accounts/ops-2")
	require.NoError(t, err)
	assert.Equal(t, "abcd efgh ijkl mnop", value)
}

func TestStoreGetMissingIsNotFound(t *testing.T) {
	t.Setenv("PAYMAIL_ACCOUNTS_MISSING", "")

	_, err := NewStore().Get(context.Background(), "paymail/accounts/missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSecretNotFound))
}

func TestStoreGetHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStore().Get(ctx, "anything")
	require.ErrorIs(t, err, context.Canceled)
}
