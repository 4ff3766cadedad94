package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/myway/panel-api/internal/service/document"
	"github.com/myway/panel-api/pkg/logger"
	"github.com/myway/panel-api/pkg/messaging/redis"
	"github.com/myway/panel-api/pkg/worker"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Documents     DocumentsConfig     `mapstructure:"documents"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Worker        WorkerConfig        `mapstructure:"worker"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	CORS          CORSConfig          `mapstructure:"cors"`
	Log           LogConfig           `mapstructure:"log"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// MetricsPort serves /metrics and health endpoints from the worker.
	MetricsPort    int   `mapstructure:"metrics_port"`
	MaxBodyBytes   int64 `mapstructure:"max_body_bytes"`
	MaxImportBytes int64 `mapstructure:"max_import_bytes"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
}

type AuthConfig struct {
	AllowedEmails []string      `mapstructure:"allowed_emails"`
	JWTSecret     string        `mapstructure:"jwt_secret"`
	JWTIssuer     string        `mapstructure:"jwt_issuer"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	BcryptCost    int           `mapstructure:"bcrypt_cost"`
}

type DocumentsConfig struct {
	RegularFontURL string        `mapstructure:"regular_font_url"`
	BoldFontURL    string        `mapstructure:"bold_font_url"`
	FontTimeout    time.Duration `mapstructure:"font_timeout"`
	FontCacheTTL   time.Duration `mapstructure:"font_cache_ttl"`
	FontFailureTTL time.Duration `mapstructure:"font_failure_ttl"`
}

type NotificationsConfig struct {
	// Transport selects the alert mail transport: "resend" or "smtp".
	Transport      string            `mapstructure:"transport"`
	AlertRecipient string            `mapstructure:"alert_recipient"`
	AlertSender    string            `mapstructure:"alert_sender"`
	GetResponse    GetResponseConfig `mapstructure:"getresponse"`
	Resend         ResendConfig      `mapstructure:"resend"`
	SMTP           SMTPConfig        `mapstructure:"smtp"`
	CRMSync        CRMSyncConfig     `mapstructure:"crm_sync"`
}

type GetResponseConfig struct {
	BaseURL        string            `mapstructure:"base_url"`
	APIKey         string            `mapstructure:"api_key"`
	Campaigns      map[string]string `mapstructure:"campaigns"`
	AllCampaign    string            `mapstructure:"all_campaign"`
	FromFieldID    string            `mapstructure:"from_field_id"`
	PackageFieldID string            `mapstructure:"package_field_id"`
	PhoneFieldID   string            `mapstructure:"phone_field_id"`
	// SendDelay schedules newsletters this far ahead.
	SendDelay time.Duration `mapstructure:"send_delay"`
	// ContactLookupDelay is the pause between enrollment and the contact
	// lookup that follows it.
	ContactLookupDelay time.Duration `mapstructure:"contact_lookup_delay"`
	Timeout            time.Duration `mapstructure:"timeout"`
}

type ResendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type CRMSyncConfig struct {
	URL           string        `mapstructure:"url"`
	TotalSessions int           `mapstructure:"total_sessions"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type WorkerConfig struct {
	BatchSize       int           `mapstructure:"batch_size"`
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	MaxAttempts     int           `mapstructure:"max_attempts"`
	Lease           time.Duration `mapstructure:"lease"`
	Concurrency     int           `mapstructure:"concurrency"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	Multiplier      float64       `mapstructure:"multiplier"`
	Jitter          float64       `mapstructure:"jitter"`
	RetainProcessed time.Duration `mapstructure:"retain_processed"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

// Secrets are never read from the config file.
type Secrets struct {
	JWTSecret         string `envconfig:"JWT_SECRET"`
	GetResponseAPIKey string `envconfig:"GETRESPONSE_API_KEY"`
	ResendAPIKey      string `envconfig:"RESEND_API_KEY"`
	SMTPPassword      string `envconfig:"SMTP_PASSWORD"`
	DatabasePassword  string `envconfig:"DATABASE_PASSWORD"`
}

const envPrefix = "MYWAY"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 0)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.max_import_bytes", 32<<20)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "myway")
	v.SetDefault("database.name", "myway")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("auth.allowed_emails", []string{})
	v.SetDefault("auth.jwt_issuer", "myway-panel")
	v.SetDefault("auth.token_ttl", 12*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 12)

	v.SetDefault("documents.regular_font_url", "https://cdnjs.cloudflare.com/ajax/libs/pdfmake/0.1.66/fonts/Roboto/Roboto-Regular.ttf")
	v.SetDefault("documents.bold_font_url", "https://cdnjs.cloudflare.com/ajax/libs/pdfmake/0.1.66/fonts/Roboto/Roboto-Medium.ttf")
	v.SetDefault("documents.font_timeout", 10*time.Second)
	v.SetDefault("documents.font_cache_ttl", 24*time.Hour)
	v.SetDefault("documents.font_failure_ttl", 30*time.Second)

	v.SetDefault("notifications.transport", "resend")
	v.SetDefault("notifications.alert_sender", "MyWay Point <rezerwacje@osrodek-myway.pl>")
	v.SetDefault("notifications.alert_recipient", "terapia@osrodek-myway.pl")
	v.SetDefault("notifications.getresponse.base_url", "https://api.getresponse.com/v3")
	v.SetDefault("notifications.getresponse.campaigns", map[string]string{"1": "iccz2", "2": "fzbxf", "3": "ij5Ot"})
	v.SetDefault("notifications.getresponse.all_campaign", "Lik0s")
	v.SetDefault("notifications.getresponse.from_field_id", "zajt2")
	v.SetDefault("notifications.getresponse.package_field_id", "naIkxY")
	v.SetDefault("notifications.getresponse.phone_field_id", "naIF5S")
	v.SetDefault("notifications.getresponse.send_delay", 2*time.Minute)
	v.SetDefault("notifications.getresponse.contact_lookup_delay", 3*time.Second)
	v.SetDefault("notifications.getresponse.timeout", 15*time.Second)
	v.SetDefault("notifications.resend.base_url", "https://api.resend.com")
	v.SetDefault("notifications.resend.timeout", 10*time.Second)
	v.SetDefault("notifications.smtp.port", 587)
	v.SetDefault("notifications.crm_sync.url", "https://europe-west1-myway-point-app.cloudfunctions.net/createPatientFromCRM")
	v.SetDefault("notifications.crm_sync.total_sessions", 20)
	v.SetDefault("notifications.crm_sync.timeout", 15*time.Second)

	v.SetDefault("worker.batch_size", 20)
	v.SetDefault("worker.poll_interval", 2*time.Second)
	v.SetDefault("worker.max_attempts", 8)
	v.SetDefault("worker.lease", 5*time.Minute)
	v.SetDefault("worker.concurrency", 8)
	v.SetDefault("worker.initial_interval", 5*time.Second)
	v.SetDefault("worker.max_interval", 30*time.Minute)
	v.SetDefault("worker.multiplier", 2.0)
	v.SetDefault("worker.jitter", 0.2)
	v.SetDefault("worker.retain_processed", 30*24*time.Hour)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 20.0)
	v.SetDefault("rate_limit.burst", 40)

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("log.level", "info")
}

// LoadConfig reads config.yaml from the usual locations, then environment
// variables prefixed with MYWAY_. A missing file is not an error.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app/config")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.applySecrets(); err != nil {
		return nil, err
	}
	cfg.Auth.AllowedEmails = splitList(cfg.Auth.AllowedEmails)
	cfg.CORS.AllowedOrigins = splitList(cfg.CORS.AllowedOrigins)

	return &cfg, nil
}

func (c *Config) applySecrets() error {
	var s Secrets
	if err := envconfig.Process(envPrefix, &s); err != nil {
		return fmt.Errorf("failed to read secrets from environment: %w", err)
	}
	if s.JWTSecret != "" {
		c.Auth.JWTSecret = s.JWTSecret
	}
	if s.GetResponseAPIKey != "" {
		c.Notifications.GetResponse.APIKey = s.GetResponseAPIKey
	}
	if s.ResendAPIKey != "" {
		c.Notifications.Resend.APIKey = s.ResendAPIKey
	}
	if s.SMTPPassword != "" {
		c.Notifications.SMTP.Password = s.SMTPPassword
	}
	if s.DatabasePassword != "" {
		c.Database.Password = s.DatabasePassword
	}
	return nil
}

// splitList accepts both YAML lists and a single comma separated env value.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks the settings every binary needs.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required (set %s_JWT_SECRET)", envPrefix)
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters")
	}
	return nil
}

func (c *WorkerConfig) ToWorkerConfig() worker.Config {
	return worker.Config{
		BatchSize:    c.BatchSize,
		PollInterval: c.PollInterval,
		MaxAttempts:  c.MaxAttempts,
		Lease:        c.Lease,
		Concurrency:  c.Concurrency,
		Backoff: worker.BackoffConfig{
			InitialInterval: c.InitialInterval,
			MaxInterval:     c.MaxInterval,
			Multiplier:      c.Multiplier,
			Jitter:          c.Jitter,
		},
	}
}

func (c *RedisConfig) ToBrokerConfig() redis.Config {
	return redis.Config{
		URL:          c.URL,
		MaxRetries:   c.MaxRetries,
		RetryBackoff: c.RetryBackoff,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
	}
}

func (c *DocumentsConfig) ToFontConfig() document.FontConfig {
	return document.FontConfig{
		RegularURL: c.RegularFontURL,
		BoldURL:    c.BoldFontURL,
		Timeout:    c.FontTimeout,
		CacheTTL:   c.FontCacheTTL,
		FailureTTL: c.FontFailureTTL,
	}
}

func (c *LogConfig) ToLoggerConfig() *logger.Config {
	return &logger.Config{
		Level:      logger.ParseLevel(c.Level),
		TimeFormat: time.RFC3339,
		Console:    c.Console,
	}
}
