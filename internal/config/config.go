// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

// Package config loads Keyward configuration from defaults, a YAML file,
// a .env file, KEYWARD_ environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/keyward/keyward/internal/account"
	"github.com/keyward/keyward/internal/reaper"
	"github.com/keyward/keyward/internal/xdg"
)

// EnvPrefix prefixes every environment variable Keyward reads.
const EnvPrefix = "KEYWARD_"

// Config is the full service configuration.
type Config struct {
	HTTP      HTTPConfig      `koanf:"http"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Kafka     KafkaConfig     `koanf:"kafka"`
	Mail      MailConfig      `koanf:"mail"`
	Tokens    TokensConfig    `koanf:"tokens"`
	OTP       OTPConfig       `koanf:"otp"`
	Hash      HashConfig      `koanf:"hash"`
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Addr            string        `koanf:"addr"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// SecureCookies marks the refresh cookie Secure with SameSite=None, for
	// deployments where the UI lives on another origin over HTTPS.
	SecureCookies bool `koanf:"secure_cookies"`
}

// MetricsConfig configures the observability listener. An empty address
// disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// DatabaseConfig configures the PostgreSQL connection.
type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	ConnectAttempts int           `koanf:"connect_attempts"`
	ConnectBackoff  time.Duration `koanf:"connect_backoff"`
}

// RedisConfig configures the recovery rate limiter. An empty address
// disables rate limiting.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// KafkaConfig configures account event publishing. No brokers disables it.
type KafkaConfig struct {
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
}

// MailConfig configures outgoing email.
type MailConfig struct {
	Driver   string `koanf:"driver"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
	StartTLS bool   `koanf:"starttls"`
}

// TokenClassConfig is the secret and lifetime of one token class.
type TokenClassConfig struct {
	Secret string        `koanf:"secret"`
	TTL    time.Duration `koanf:"ttl"`
}

// TokensConfig configures every token class.
type TokensConfig struct {
	Issuer         string           `koanf:"issuer"`
	Access         TokenClassConfig `koanf:"access"`
	Refresh        TokenClassConfig `koanf:"refresh"`
	RecoveryStage1 TokenClassConfig `koanf:"recovery_stage1"`
	RecoveryStage2 TokenClassConfig `koanf:"recovery_stage2"`
}

// OTPConfig configures recovery codes, their reaper and request limits.
type OTPConfig struct {
	Length        int           `koanf:"length"`
	TTL           time.Duration `koanf:"ttl"`
	MaxAttempts   int           `koanf:"max_attempts"`
	ReapInterval  time.Duration `koanf:"reap_interval"`
	ReapGrace     time.Duration `koanf:"reap_grace"`
	RequestLimit  int           `koanf:"request_limit"`
	RequestWindow time.Duration `koanf:"request_window"`
	RequestBlock  time.Duration `koanf:"request_block"`
}

// HashConfig holds the argon2id cost parameters.
type HashConfig struct {
	Time      uint32 `koanf:"time"`
	MemoryKiB uint32 `koanf:"memory_kib"`
	Threads   uint8  `koanf:"threads"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// TelemetryConfig configures trace export. An empty endpoint disables it.
type TelemetryConfig struct {
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	Insecure     bool   `koanf:"insecure"`
}

// defaults holds every known key. Environment variables are only mapped onto
// keys present here.
func defaults() map[string]any {
	hash := account.DefaultHashParams()
	return map[string]any{
		"http.addr":                     ":8080",
		"http.cors_origins":             []string{"http://localhost:3000"},
		"http.shutdown_timeout":         "15s",
		"http.secure_cookies":           false,
		"metrics.addr":                  ":9100",
		"database.url":                  "",
		"database.connect_attempts":     5,
		"database.connect_backoff":      "500ms",
		"redis.addr":                    "",
		"redis.password":                "",
		"redis.db":                      0,
		"kafka.brokers":                 []string{},
		"kafka.topic":                   "keyward.account-events",
		"mail.driver":                   "log",
		"mail.host":                     "",
		"mail.port":                     587,
		"mail.username":                 "",
		"mail.password":                 "",
		"mail.from":                     "Keyward <no-reply@keyward.local>",
		"mail.starttls":                 true,
		"tokens.issuer":                 "keyward",
		"tokens.access.secret":          "",
		"tokens.access.ttl":             "15m",
		"tokens.refresh.secret":         "",
		"tokens.refresh.ttl":            "720h",
		"tokens.recovery_stage1.secret": "",
		"tokens.recovery_stage1.ttl":    "10m",
		"tokens.recovery_stage2.secret": "",
		"tokens.recovery_stage2.ttl":    "10m",
		"otp.length":                    account.DefaultOTPLength,
		"otp.ttl":                       account.DefaultOTPTTL.String(),
		"otp.max_attempts":              account.DefaultOTPMaxAttempts,
		"otp.reap_interval":             reaper.DefaultInterval.String(),
		"otp.reap_grace":                reaper.DefaultGrace.String(),
		"otp.request_limit":             5,
		"otp.request_window":            "1h",
		"otp.request_block":             "1h",
		"hash.time":                     hash.Time,
		"hash.memory_kib":               hash.MemoryKiB,
		"hash.threads":                  hash.Threads,
		"log.format":                    "json",
		"log.level":                     "info",
		"telemetry.otlp_endpoint":       "",
		"telemetry.insecure":            false,
	}
}

// FlagKeys maps command-line flag names onto configuration keys.
var FlagKeys = map[string]string{
	"http-addr":     "http.addr",
	"metrics-addr":  "metrics.addr",
	"database-url":  "database.url",
	"log-format":    "log.format",
	"log-level":     "log.level",
	"otlp-endpoint": "telemetry.otlp_endpoint",
}

// LoadOptions selects the sources Load reads.
type LoadOptions struct {
	// File is a YAML config file. Empty means the XDG default, when present.
	File string
	// EnvFile is a dotenv file merged into the environment. A missing file
	// is ignored.
	EnvFile string
	// Flags are applied last. Only flags named in FlagKeys are read.
	Flags *pflag.FlagSet
	// SkipValidation is for maintenance commands that only touch the
	// database and should not demand token secrets.
	SkipValidation bool
}

// Load builds a Config from all sources and validates it.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")
	defs := defaults()
	if err := k.Load(confmap.Provider(defs, "."), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "defaults").Wrap(err)
	}

	path := opts.File
	if path == "" {
		path = xdg.ExistingConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "file").With("path", path).Wrap(err)
		}
	}

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "dotenv").With("path", opts.EnvFile).Wrap(err)
		}
	}

	envKeys := envKeyIndex(defs)
	if err := k.Load(env.Provider(EnvPrefix, ".", func(name string) string {
		return envKeys[strings.ToLower(strings.TrimPrefix(name, EnvPrefix))]
	}), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "env").Wrap(err)
	}

	if opts.Flags != nil {
		provider := posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := FlagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, f.Value.String()
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("operation", "decode config").Wrap(err)
	}
	cfg.HTTP.CORSOrigins = splitList(cfg.HTTP.CORSOrigins)
	cfg.Kafka.Brokers = splitList(cfg.Kafka.Brokers)

	if opts.SkipValidation {
		return &cfg, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKeyIndex maps "tokens_recovery_stage1_secret" style names onto their
// dotted keys, so underscores inside a key segment survive.
func envKeyIndex(defs map[string]any) map[string]string {
	index := make(map[string]string, len(defs))
	for key := range defs {
		index[strings.ReplaceAll(key, ".", "_")] = key
	}
	return index
}

// splitList accepts both YAML lists and comma separated environment values.
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

// Validate checks the values the services cannot start without.
func (c *Config) Validate() error {
	if err := c.TokenConfig().Validate(); err != nil {
		return oops.With("section", "tokens").Wrap(err)
	}
	if err := c.OTPSettings().Validate(); err != nil {
		return oops.With("section", "otp").Wrap(err)
	}
	if err := c.HashParams().Validate(); err != nil {
		return oops.With("section", "hash").Wrap(err)
	}
	if !slices.Contains([]string{"json", "text"}, c.Log.Format) {
		return oops.Code("CONFIG_INVALID").With("section", "log").Errorf("log format must be json or text, got %q", c.Log.Format)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if !slices.Contains([]string{"smtp", "log"}, c.Mail.Driver) {
		return oops.Code("CONFIG_INVALID").With("section", "mail").Errorf("mail driver must be smtp or log, got %q", c.Mail.Driver)
	}
	if c.Mail.Driver == "smtp" && c.Mail.Host == "" {
		return oops.Code("CONFIG_INVALID").With("section", "mail").Errorf("mail host is required for the smtp driver")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return oops.Code("CONFIG_INVALID").With("section", "kafka").Errorf("kafka topic is required when brokers are set")
	}
	if c.Redis.Addr != "" && (c.OTP.RequestLimit <= 0 || c.OTP.RequestWindow <= 0) {
		return oops.Code("CONFIG_INVALID").With("section", "otp").Errorf("request limit and window must be positive when redis is configured")
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return oops.Code("CONFIG_INVALID").With("section", "http").Errorf("shutdown timeout must be positive")
	}
	return nil
}

// TokenConfig converts the tokens section for account.NewTokenService.
func (c *Config) TokenConfig() account.TokenConfig {
	spec := func(t TokenClassConfig) account.TokenSpec {
		return account.TokenSpec{Secret: t.Secret, TTL: t.TTL}
	}
	return account.TokenConfig{
		Issuer:         c.Tokens.Issuer,
		Access:         spec(c.Tokens.Access),
		Refresh:        spec(c.Tokens.Refresh),
		RecoveryStage1: spec(c.Tokens.RecoveryStage1),
		RecoveryStage2: spec(c.Tokens.RecoveryStage2),
	}
}

// OTPSettings converts the otp section for account.NewOTPStore.
func (c *Config) OTPSettings() account.OTPConfig {
	return account.OTPConfig{Length: c.OTP.Length, TTL: c.OTP.TTL, MaxAttempts: c.OTP.MaxAttempts}
}

// HashParams converts the hash section for account.NewArgon2idHasher.
func (c *Config) HashParams() account.HashParams {
	return account.HashParams{Time: c.Hash.Time, MemoryKiB: c.Hash.MemoryKiB, Threads: c.Hash.Threads}
}

// ParseLevel converts a log level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, oops.Code("CONFIG_INVALID").With("section", "log").Errorf("unknown log level %q", name)
	}
	return level, nil
}
