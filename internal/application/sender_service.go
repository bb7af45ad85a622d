package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bnema/paymail/internal/domain"
	"github.com/bnema/paymail/internal/ports"
	"github.com/bnema/paymail/internal/validation"
)

const DefaultSenderDisplayName = "PSU Accounts Department"

type SenderConfigInput struct {
	Email       string `json:"email" validate:"required,mailshape"`
	AppPassword string `json:"appPassword" validate:"required,apppassword"`
	DisplayName string `json:"displayName"`
}

// SenderConfigView is the runtime sender config with the secret masked.
type SenderConfigView struct {
	Email        string    `json:"email"`
	AppPassword  string    `json:"appPassword"`
	DisplayName  string    `json:"displayName"`
	IsConfigured bool      `json:"isConfigured"`
	Timestamp    time.Time `json:"timestamp"`
}

// SenderService owns the runtime sender config and keeps the pool in sync with it.
type SenderService struct {
	store     ports.SenderConfigStore
	source    ports.AccountSource
	pool      *AccountPool
	validator *validation.Validator
	clock     ports.Clock
	logger    *zap.Logger
}

func NewSenderService(store ports.SenderConfigStore, source ports.AccountSource, pool *AccountPool, clock ports.Clock, logger *zap.Logger) *SenderService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SenderService{
		store:     store,
		source:    source,
		pool:      pool,
		validator: validation.New(),
		clock:     clock,
		logger:    logger,
	}
}

func (s *SenderService) Current() SenderConfigView {
	cfg := s.store.Get()
	view := SenderConfigView{
		Email:        cfg.Email,
		DisplayName:  cfg.DisplayName,
		IsConfigured: cfg.IsConfigured(),
		Timestamp:    s.clock.Now().UTC(),
	}
	if view.DisplayName == "" {
		view.DisplayName = DefaultSenderDisplayName
	}
	if cfg.AppPassword != "" {
		view.AppPassword = "configured"
	}
	return view
}

// CurrentSender is the identity the next dispatch would most likely use, or
// "Not configured".
func (s *SenderService) CurrentSender() string {
	if cfg := s.store.Get(); cfg.IsConfigured() {
		return cfg.Email
	}
	accounts := s.pool.Accounts()
	if len(accounts) == 0 {
		return "Not configured"
	}
	return string(accounts[0].ID)
}

func (s *SenderService) Update(ctx context.Context, input SenderConfigInput) (SenderConfigView, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.AppPassword = strings.TrimSpace(input.AppPassword)
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	if err := s.validator.Struct(input); err != nil {
		return SenderConfigView{}, err
	}
	if input.DisplayName == "" {
		input.DisplayName = DefaultSenderDisplayName
	}

	s.store.Set(domain.SenderConfig{
		Email:       input.Email,
		AppPassword: input.AppPassword,
		DisplayName: input.DisplayName,
	})

	if err := s.Reload(ctx); err != nil {
		return SenderConfigView{}, err
	}

	s.logger.Info("sender config updated", zap.String("email", input.Email))

	return s.Current(), nil
}

// Reload re-resolves the account layers into the pool. Usage already
// recorded today for identities that remain is kept.
func (s *SenderService) Reload(ctx context.Context) error {
	accounts, err := s.source.Accounts(ctx)
	if err != nil {
		return fmt.Errorf("resolve sending accounts: %w", err)
	}
	s.pool.Replace(accounts)
	return nil
}

// CheckConnection validates every configured account's credentials shape
// without any network I/O.
func (s *SenderService) CheckConnection() ConnectionReport {
	accounts := s.pool.Accounts()
	if len(accounts) == 0 {
		return ConnectionReport{Success: false, Message: "No sending accounts configured", Accounts: []AccountCheck{}}
	}

	report := ConnectionReport{Accounts: make([]AccountCheck, 0, len(accounts))}
	ok := 0
	for _, account := range accounts {
		check := AccountCheck{Account: account.Name(), Email: string(account.ID), Status: "success", Message: "configuration validated successfully"}
		switch {
		case strings.TrimSpace(account.Secret) == "":
			check.Status, check.Message = "error", "missing credentials"
		case !domain.ValidEmail(string(account.ID)):
			check.Status, check.Message = "error", "invalid email format"
		case !validation.ValidAppPassword(account.Secret):
			check.Status, check.Message = "error", "invalid app password format (should be 10-20 characters)"
		default:
			ok++
		}
		if report.DailyLimit == 0 || account.DailyQuota > report.DailyLimit {
			report.DailyLimit = account.DailyQuota
		}
		report.Accounts = append(report.Accounts, check)
	}

	report.Success = ok > 0
	report.Message = fmt.Sprintf("%d/%d accounts configured correctly", ok, len(accounts))
	return report
}
