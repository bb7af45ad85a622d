package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/bnema/paymail/internal/domain"
	"github.com/bnema/paymail/internal/ports"
)

const (
	KeyUser               = "gmail.user"
	KeyAppPassword        = "gmail.app_password"
	KeyIndexedUser        = "gmail.user_1"
	KeyIndexedAppPassword = "gmail.app_password_1"

	DefaultDailyQuota  = 450
	primaryAccountName = "Primary PSU Account"
)

// BindEnv maps the credential keys onto their environment variables.
func BindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		KeyUser:               "GMAIL_USER",
		KeyAppPassword:        "GMAIL_APP_PASSWORD",
		KeyIndexedUser:        "GMAIL_USER_1",
		KeyIndexedAppPassword: "GMAIL_APP_PASSWORD_1",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s: %w", env, err)
		}
	}
	return nil
}

// Resolver builds the ordered account list. The primary account takes each
// of its user and password from the first non-blank layer among the runtime
// sender config, the _1 indexed credential and the base credential. Accounts
// from the repository follow, with their secrets fetched by reference.
type Resolver struct {
	v          *viper.Viper
	sender     ports.SenderConfigStore
	repo       ports.AccountRepository
	secrets    ports.SecretStore
	dailyQuota int
	logger     *zap.Logger
}

var _ ports.AccountSource = (*Resolver)(nil)

// NewResolver accepts a nil repo or secrets when no accounts file is used.
func NewResolver(v *viper.Viper, sender ports.SenderConfigStore, repo ports.AccountRepository, secrets ports.SecretStore, dailyQuota int, logger *zap.Logger) *Resolver {
	if dailyQuota <= 0 {
		dailyQuota = DefaultDailyQuota
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Resolver{
		v:          v,
		sender:     sender,
		repo:       repo,
		secrets:    secrets,
		dailyQuota: dailyQuota,
		logger:     logger,
	}
}

func (r *Resolver) Accounts(ctx context.Context) ([]domain.Account, error) {
	accounts := make([]domain.Account, 0, 1)
	if primary, ok := r.primary(); ok {
		accounts = append(accounts, primary)
	}

	extra, err := r.fromRepository(ctx)
	if err != nil {
		return nil, err
	}
	accounts = append(accounts, extra...)

	return domain.NormalizeAccounts(accounts), nil
}

func (r *Resolver) primary() (domain.Account, bool) {
	var runtime domain.SenderConfig
	if r.sender != nil {
		runtime = r.sender.Get()
	}

	user, _ := firstNonBlank(
		layer{value: runtime.Email, ref: "runtime"},
		layer{value: r.v.GetString(KeyIndexedUser), ref: "env://GMAIL_USER_1"},
		layer{value: r.v.GetString(KeyUser), ref: "env://GMAIL_USER"},
	)
	password, ref := firstNonBlank(
		layer{value: runtime.AppPassword, ref: "runtime"},
		layer{value: r.v.GetString(KeyIndexedAppPassword), ref: "env://GMAIL_APP_PASSWORD_1"},
		layer{value: r.v.GetString(KeyAppPassword), ref: "env://GMAIL_APP_PASSWORD"},
	)
	if user == "" || password == "" {
		return domain.Account{}, false
	}

	name := strings.TrimSpace(runtime.DisplayName)
	if name == "" {
		name = primaryAccountName
	}

	return domain.Account{
		ID:          domain.AccountID(user),
		DisplayName: name,
		SecretRef:   ref,
		Secret:      password,
		DailyQuota:  r.dailyQuota,
	}, true
}

func (r *Resolver) fromRepository(ctx context.Context) ([]domain.Account, error) {
	if r.repo == nil || r.secrets == nil {
		return nil, nil
	}

	stored, err := r.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stored accounts: %w", err)
	}

	accounts := make([]domain.Account, 0, len(stored))
	for _, account := range stored {
		secret, err := r.secrets.Get(ctx, account.SecretRef)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			r.logger.Warn("skipping account without a resolvable secret",
				zap.String("account", string(account.ID)),
				zap.String("secret_ref", account.SecretRef),
				zap.Error(err),
			)
			continue
		}

		account.Secret = secret
		if account.DailyQuota <= 0 {
			account.DailyQuota = r.dailyQuota
		}
		accounts = append(accounts, account)
	}

	return accounts, nil
}

type layer struct {
	value string
	ref   string
}

func firstNonBlank(layers ...layer) (string, string) {
	for _, l := range layers {
		if v := strings.TrimSpace(l.value); v != "" {
			return v, l.ref
		}
	}
	return "", ""
}
