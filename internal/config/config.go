package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"earnings-alerts/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Sheet     SheetConfig     `mapstructure:"sheet"`
	Mailbox   MailboxConfig   `mapstructure:"mailbox"`
	Alerting  AlertingConfig  `mapstructure:"alerting"`
	Export    ExportConfig    `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig encapsulates PostgreSQL connectivity for the postgres
// ledger backend.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LedgerConfig selects and parameterises the sent-alert ledger.
type LedgerConfig struct {
	// Backend is "file" or "postgres".
	Backend  string `mapstructure:"backend"`
	Path     string `mapstructure:"path"`
	KeepDays int    `mapstructure:"keep_days"`
}

// SchedulerConfig governs the daily scan cadence.
type SchedulerConfig struct {
	Cron            string `mapstructure:"cron"`
	Timezone        string `mapstructure:"timezone"`
	RunOnStart      bool   `mapstructure:"run_on_start"`
	AdvisoryLockKey int64  `mapstructure:"advisory_lock_key"`
}

// SheetConfig points at the published earnings sheet (CSV over HTTP).
type SheetConfig struct {
	URL            string        `mapstructure:"url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// MailboxConfig covers the IMAP mailbox that receives broker statements.
type MailboxConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Folder   string `mapstructure:"folder"`
	Sender   string `mapstructure:"sender"`
}

// AlertingConfig defines alert lead times and routing.
type AlertingConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// ThresholdOffsets are extra trading days of lead time; 0 alerts on the
	// last tradable day itself.
	ThresholdOffsets []int       `mapstructure:"threshold_offsets"`
	Channels         []string    `mapstructure:"channels"`
	Email            EmailConfig `mapstructure:"email"`
}

// EmailConfig describes the SMTP alert channel.
type EmailConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	MaxDataPoints int `mapstructure:"max_data_points"`
	HorizonDays   int `mapstructure:"horizon_days"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("EARNWATCHER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "earnwatcher")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Weekday mornings, late enough for overnight sheet edits, early enough
	// to land before the premarket window matters.
	v.SetDefault("scheduler.cron", "30 7 * * 1-5")
	v.SetDefault("scheduler.timezone", "America/New_York")
	v.SetDefault("scheduler.run_on_start", false)
	v.SetDefault("scheduler.advisory_lock_key", int64(0x6561726E))

	v.SetDefault("ledger.backend", "file")
	v.SetDefault("ledger.path", "sent_alerts.json")
	v.SetDefault("ledger.keep_days", 90)

	v.SetDefault("sheet.request_timeout", "10s")
	v.SetDefault("sheet.user_agent", "earnwatcher/1.0")

	v.SetDefault("mailbox.enabled", false)
	v.SetDefault("mailbox.folder", "INBOX")

	v.SetDefault("alerting.enabled", true)
	v.SetDefault("alerting.threshold_offsets", []int{0})
	v.SetDefault("alerting.channels", []string{"console"})
	v.SetDefault("alerting.email.enabled", false)
	v.SetDefault("alerting.email.port", 587)

	v.SetDefault("export.max_data_points", 10000)
	v.SetDefault("export.horizon_days", 30)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	switch c.Ledger.Backend {
	case "file":
		if c.Ledger.Path == "" {
			return fmt.Errorf("ledger.path is required for the file backend")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("ledger.backend must be file or postgres, got %q", c.Ledger.Backend)
	}
	if c.Ledger.KeepDays <= 0 {
		return fmt.Errorf("ledger.keep_days must be greater than zero")
	}
	if c.Scheduler.Cron == "" {
		return fmt.Errorf("scheduler.cron must not be empty")
	}
	for _, offset := range c.Alerting.ThresholdOffsets {
		if offset < 0 {
			return fmt.Errorf("alerting.threshold_offsets cannot be negative, got %d", offset)
		}
	}
	if c.Alerting.Email.Enabled {
		if c.Alerting.Email.Host == "" {
			return fmt.Errorf("alerting.email.host is required")
		}
		if c.Alerting.Email.From == "" {
			return fmt.Errorf("alerting.email.from is required")
		}
		if len(c.Alerting.Email.To) == 0 {
			return fmt.Errorf("alerting.email.to is required")
		}
	}
	if c.Mailbox.Enabled {
		if c.Mailbox.Address == "" {
			return fmt.Errorf("mailbox.address is required")
		}
		if c.Mailbox.Username == "" {
			return fmt.Errorf("mailbox.username is required")
		}
	}
	if c.Export.MaxDataPoints <= 0 {
		return fmt.Errorf("export.max_data_points must be greater than zero")
	}
	return nil
}

// ResolveOffsets returns the configured lead-time offsets, falling back to a
// same-day alert when the list is empty.
func (c *Config) ResolveOffsets() []int {
	if len(c.Alerting.ThresholdOffsets) == 0 {
		return []int{0}
	}
	return c.Alerting.ThresholdOffsets
}

// ResolveMaxPoints returns either the CLI override or config default.
func (c *Config) ResolveMaxPoints(override int) int {
	if override > 0 {
		return override
	}
	return c.Export.MaxDataPoints
}
