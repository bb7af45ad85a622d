// Package config layers defaults, an optional config.toml, dotenv files and
// the process environment into one viper instance.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/bnema/paymail/internal/adapters/credentials"
)

const (
	EnvPrefix = "PAYMAIL"

	KeyEnv             = "env"
	KeyHTTPAddr        = "http.addr"
	KeySMTPHost        = "smtp.host"
	KeySMTPPort        = "smtp.port"
	KeySMTPTimeout     = "smtp.timeout"
	KeyDailyQuota      = "dispatch.daily_quota"
	KeyFromDisplay     = "dispatch.from_display"
	KeyAccountsFile    = "accounts.file"
	KeySecretsDir      = "secrets.dir"
	KeySecretsPass     = "secrets.pass"
	KeyBreakerFailures = "breaker.failures"
	KeyBreakerCooldown = "breaker.cooldown"
	KeyOrganization    = "mail.organization"
	KeyContactEmail    = "mail.contact_email"
)

var dotenvFiles = []string{".env.local", ".env"}

type Options struct {
	// ConfigFile overrides the $HOME/.paymail/config.toml lookup.
	ConfigFile string
	// DotenvDir is where .env.local and .env are read from; empty means the
	// working directory.
	DotenvDir string
}

type SMTP struct {
	Host    string
	Port    int
	Timeout time.Duration
}

type Breaker struct {
	Failures uint32
	Cooldown time.Duration
}

type Config struct {
	Env          string
	HTTPAddr     string
	SMTP         SMTP
	DailyQuota   int
	FromDisplay  string
	AccountsFile string
	SecretsDir   string
	UsePass      bool
	Breaker      Breaker
	Organization string
	ContactEmail string
}

// New builds the viper instance. Dotenv files never override variables that
// are already set, and .env.local wins over .env.
func New(opts Options) (*viper.Viper, error) {
	if err := loadDotenv(opts.DotenvDir); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := credentials.BindEnv(v); err != nil {
		return nil, fmt.Errorf("bind credential env: %w", err)
	}

	v.SetConfigType("toml")
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.ConfigFile, err)
		}
		return v, nil
	}

	v.SetConfigName("config")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".paymail"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyEnv, "development")
	v.SetDefault(KeyHTTPAddr, ":8080")
	v.SetDefault(KeySMTPHost, "smtp.gmail.com")
	v.SetDefault(KeySMTPPort, 587)
	v.SetDefault(KeySMTPTimeout, "5s")
	v.SetDefault(KeyDailyQuota, credentials.DefaultDailyQuota)
	v.SetDefault(KeyFromDisplay, "PSU Accounts Department")
	v.SetDefault(KeyAccountsFile, "")
	v.SetDefault(KeySecretsDir, "")
	v.SetDefault(KeySecretsPass, false)
	v.SetDefault(KeyBreakerFailures, 3)
	v.SetDefault(KeyBreakerCooldown, "1m")
	v.SetDefault(KeyOrganization, "PSU Finance Department")
	v.SetDefault(KeyContactEmail, "accounts@psu.gov.in")
}

func loadDotenv(dir string) error {
	for _, name := range dotenvFiles {
		path := name
		if dir != "" {
			path = filepath.Join(dir, name)
		}
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// Load reads the typed configuration and checks numeric ranges.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Env:      strings.TrimSpace(v.GetString(KeyEnv)),
		HTTPAddr: strings.TrimSpace(v.GetString(KeyHTTPAddr)),
		SMTP: SMTP{
			Host:    strings.TrimSpace(v.GetString(KeySMTPHost)),
			Port:    v.GetInt(KeySMTPPort),
			Timeout: v.GetDuration(KeySMTPTimeout),
		},
		DailyQuota:   v.GetInt(KeyDailyQuota),
		FromDisplay:  strings.TrimSpace(v.GetString(KeyFromDisplay)),
		AccountsFile: strings.TrimSpace(v.GetString(KeyAccountsFile)),
		SecretsDir:   strings.TrimSpace(v.GetString(KeySecretsDir)),
		UsePass:      v.GetBool(KeySecretsPass),
		Breaker: Breaker{
			Cooldown: v.GetDuration(KeyBreakerCooldown),
		},
		Organization: strings.TrimSpace(v.GetString(KeyOrganization)),
		ContactEmail: strings.TrimSpace(v.GetString(KeyContactEmail)),
	}

	var errs []error
	if cfg.DailyQuota <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", KeyDailyQuota, cfg.DailyQuota))
	}
	if cfg.SMTP.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %q", KeySMTPTimeout, v.GetString(KeySMTPTimeout)))
	}
	if cfg.SMTP.Port <= 0 || cfg.SMTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("%s out of range: %d", KeySMTPPort, cfg.SMTP.Port))
	}
	if failures := v.GetInt(KeyBreakerFailures); failures <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", KeyBreakerFailures, failures))
	} else {
		cfg.Breaker.Failures = uint32(failures)
	}
	if cfg.Breaker.Cooldown <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %q", KeyBreakerCooldown, v.GetString(KeyBreakerCooldown)))
	}
	if cfg.SecretsDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.SecretsDir = filepath.Join(home, ".paymail", "secrets")
		}
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("load config: %w", errors.Join(errs...))
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
