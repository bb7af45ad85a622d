package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/paymail/internal/domain"
	portmocks "github.com/bnema/paymail/internal/ports/mocks"
)

type staticRepo struct {
	accounts []domain.Account
	err      error
}

func (r staticRepo) Save(context.Context, domain.Account) error { return nil }

func (r staticRepo) List(context.Context) ([]domain.Account, error) {
	return r.accounts, r.err
}

func TestResolverLayering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		config   map[string]string
		runtime  domain.SenderConfig
		wantID   domain.AccountID
		wantPass string
		wantName string
		wantRef  string
		wantNone bool
	}{
		{
			name:     "base only",
			config:   map[string]string{KeyUser: "base@psu.in", KeyAppPassword: "base-password"},
			wantID:   "base@psu.in",
			wantPass: "base-password",
			wantName: "Primary PSU Account",
			wantRef:  "env://GMAIL_APP_PASSWORD",
		},
		{
			name: "indexed overrides base",
			config: map[string]string{
				KeyUser: "base@psu.in", KeyAppPassword: "base-password",
				KeyIndexedUser: "one@psu.in", KeyIndexedAppPassword: "one-password",
			},
			wantID:   "one@psu.in",
			wantPass: "one-password",
			wantName: "Primary PSU Account",
			wantRef:  "env://GMAIL_APP_PASSWORD_1",
		},
		{
			name: "runtime overrides static",
			config: map[string]string{
				KeyIndexedUser: "one@psu.in", KeyIndexedAppPassword: "one-password",
			},
			runtime:  domain.SenderConfig{Email: "runtime@psu.in", AppPassword: "runtime-password", DisplayName: "Runtime"},
			wantID:   "runtime@psu.in",
			wantPass: "runtime-password",
			wantName: "Runtime",
			wantRef:  "runtime",
		},
		{
			name:     "layers resolve independently",
			config:   map[string]string{KeyUser: "base@psu.in", KeyIndexedAppPassword: "one-password"},
			wantID:   "base@psu.in",
			wantPass: "one-password",
			wantName: "Primary PSU Account",
			wantRef:  "env://GMAIL_APP_PASSWORD_1",
		},
		{
			name:     "blank secret excludes account",
			config:   map[string]string{KeyUser: "base@psu.in", KeyAppPassword: "   "},
			wantNone: true,
		},
		{
			name:     "nothing configured",
			wantNone: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := viper.New()
			for key, value := range tt.config {
				v.Set(key, value)
			}
			sender := NewSenderStore()
			sender.Set(tt.runtime)

			accounts, err := NewResolver(v, sender, nil, nil, 0, nil).Accounts(context.Background())
			require.NoError(t, err)

			if tt.wantNone {
				assert.Empty(t, accounts)
				return
			}
			require.Len(t, accounts, 1)
			assert.Equal(t, tt.wantID, accounts[0].ID)
			assert.Equal(t, tt.wantPass, accounts[0].Secret)
			assert.Equal(t, tt.wantName, accounts[0].DisplayName)
			assert.Equal(t, tt.wantRef, accounts[0].SecretRef)
			assert.Equal(t, DefaultDailyQuota, accounts[0].DailyQuota)
		})
	}
}

func TestResolverAppendsRepositoryAccounts(t *testing.T) {
	t.Parallel()

	v := viper.New()
	v.Set(KeyUser, "base@psu.in")
	v.Set(KeyAppPassword, "base-password")

	repo := staticRepo{accounts: []domain.Account{
		{ID: "two@psu.in", SecretRef: "paymail/two", DailyQuota: 100},
		{ID: "three@psu.in", SecretRef: "paymail/three"},
		{ID: "BASE@psu.in", SecretRef: "paymail/dup"},
	}}
	secrets := portmocks.NewMockSecretStore(t)
	secrets.EXPECT().Get(mock.Anything, "paymail/two").Return("two-password", nil).Once()
	secrets.EXPECT().Get(mock.Anything, "paymail/three").Return("", domain.ErrSecretNotFound).Once()
	secrets.EXPECT().Get(mock.Anything, "paymail/dup").Return("dup-password", nil).Once()

	accounts, err := NewResolver(v, NewSenderStore(), repo, secrets, 300, nil).Accounts(context.Background())
	require.NoError(t, err)

	require.Len(t, accounts, 2)
	assert.Equal(t, domain.AccountID("base@psu.in"), accounts[0].ID)
	assert.Equal(t, 300, accounts[0].DailyQuota)
	assert.Equal(t, domain.AccountID("two@psu.in"), accounts[1].ID)
	assert.Equal(t, "two-password", accounts[1].Secret)
	assert.Equal(t, 100, accounts[1].DailyQuota)
}

func TestResolverRepositoryErrorIsReturned(t *testing.T) {
	t.Parallel()

	repo := staticRepo{err: errors.New("decode accounts file: boom")}
	_, err := NewResolver(viper.New(), nil, repo, portmocks.NewMockSecretStore(t), 0, nil).Accounts(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "list stored accounts")
}

func TestBindEnv(t *testing.T) {
	t.Setenv("GMAIL_USER_1", "one@psu.in")

	v := viper.New()
	require.NoError(t, BindEnv(v))
	assert.Equal(t, "one@psu.in", v.GetString(KeyIndexedUser))
}
