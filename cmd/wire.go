package cmd

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/bnema/paymail/internal/adapters/credentials"
	"github.com/bnema/paymail/internal/adapters/mailtemplate"
	statusadapter "github.com/bnema/paymail/internal/adapters/render/status"
	tomlrepo "github.com/bnema/paymail/internal/adapters/repo/toml"
	"github.com/bnema/paymail/internal/adapters/rows"
	chainstore "github.com/bnema/paymail/internal/adapters/secrets/chain"
	"github.com/bnema/paymail/internal/adapters/transport/breaker"
	"github.com/bnema/paymail/internal/adapters/transport/simulated"
	smtptransport "github.com/bnema/paymail/internal/adapters/transport/smtp"
	"github.com/bnema/paymail/internal/application"
	"github.com/bnema/paymail/internal/config"
	"github.com/bnema/paymail/internal/logger"
	"github.com/bnema/paymail/internal/metrics"
	"github.com/bnema/paymail/internal/ports"
)

type app struct {
	cfg        config.Config
	logger     *zap.Logger
	clock      ports.Clock
	repo       *tomlrepo.Repository
	pool       *application.AccountPool
	notifier   *application.Notifier
	session    *application.MonitoringSession
	controller *application.MonitorController
	sender     *application.SenderService
	metrics    *metrics.Recorder

	statusRenderer func([]application.AccountStatus, statusadapter.RenderOptions) (string, error)
	checkRenderer  func(application.ConnectionReport) (string, error)
}

// appLoader wires the app on first use so persistent flags are parsed first.
type appLoader struct {
	opts config.Options

	once sync.Once
	app  *app
	err  error
}

func (l *appLoader) load(ctx context.Context) (*app, error) {
	l.once.Do(func() {
		l.app, l.err = wireApp(ctx, l.opts)
	})
	return l.app, l.err
}

func wireApp(ctx context.Context, opts config.Options) (*app, error) {
	v, err := config.New(opts)
	if err != nil {
		return nil, fmt.Errorf("wire config: %w", err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.Env)
	clock := ports.SystemClock{}

	repo, err := tomlrepo.NewRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire account repository: %w", err)
	}
	secrets := chainstore.NewEnvFirst(cfg.SecretsDir, cfg.UsePass)

	senderStore := credentials.NewSenderStore()
	resolver := credentials.NewResolver(v, senderStore, repo, secrets, cfg.DailyQuota, log)
	accounts, err := resolver.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve sending accounts: %w", err)
	}

	pool := application.NewAccountPool(accounts, clock)
	recorder := metrics.NewRecorder()
	direct := breaker.New(
		smtptransport.New(smtptransport.Config{Host: cfg.SMTP.Host, Port: cfg.SMTP.Port, Timeout: cfg.SMTP.Timeout}, clock),
		breaker.Settings{Failures: cfg.Breaker.Failures, Cooldown: cfg.Breaker.Cooldown},
		log,
	)
	engine := application.NewDispatchEngine(pool, direct, simulated.New("", clock), recorder, log)

	renderer, err := mailtemplate.New(mailtemplate.Options{
		Organization: cfg.Organization,
		ContactEmail: cfg.ContactEmail,
		Clock:        clock,
	})
	if err != nil {
		return nil, fmt.Errorf("wire mail templates: %w", err)
	}

	notifier := application.NewNotifier(engine, renderer, application.NewEmailLog(), cfg.FromDisplay, clock, log)
	session := application.NewMonitoringSession(notifier, clock, log)

	log.Debug("sending accounts resolved", zap.Int("accounts", len(accounts)))

	return &app{
		cfg:            cfg,
		logger:         log,
		clock:          clock,
		repo:           repo,
		pool:           pool,
		notifier:       notifier,
		session:        session,
		controller:     application.NewMonitorController(session, rows.New()),
		sender:         application.NewSenderService(senderStore, resolver, pool, clock, log),
		metrics:        recorder,
		statusRenderer: statusadapter.Render,
		checkRenderer:  statusadapter.RenderCheck,
	}, nil
}

