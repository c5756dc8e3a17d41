package config

import (
	"fmt"
	"strings"
	"time"

	"secure-wallet/internal/core/domain"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Mail     MailConfig     `mapstructure:"mail"`
	Security SecurityConfig `mapstructure:"security"`
	Assets   AssetsConfig   `mapstructure:"assets"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// MailConfig configures the template-mail provider used to deliver one-time
// codes. Provider "log" writes codes to the logger instead of dispatching
// (development only).
type MailConfig struct {
	Provider   string        `mapstructure:"provider"` // http, log
	Endpoint   string        `mapstructure:"endpoint"`
	ServiceID  string        `mapstructure:"service_id"`
	TemplateID string        `mapstructure:"template_id"`
	PublicKey  string        `mapstructure:"public_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// SecurityConfig carries the verification-flow tunables. The reference
// values (10m code windows, 60s resend cooldown, 3 failures, 2h lockout) are
// defaults, not behavior.
type SecurityConfig struct {
	OTPTTL         time.Duration `mapstructure:"otp_ttl"`
	SendCodeTTL    time.Duration `mapstructure:"send_code_ttl"`
	ResendCooldown time.Duration `mapstructure:"resend_cooldown"`
	MaxFailures    int           `mapstructure:"max_failures"`
	LockoutWindow  time.Duration `mapstructure:"lockout_window"`
	HashFallback   bool          `mapstructure:"hash_fallback"` // weak checksum hasher, compatibility only
}

// AssetsConfig carries the simulated asset tables: fixed unit prices,
// per-currency network fees, static receive addresses and the balances a new
// session is seeded with.
type AssetsConfig struct {
	Prices       map[string]float64 `mapstructure:"prices"`
	Fees         map[string]float64 `mapstructure:"fees"`
	Addresses    map[string]string  `mapstructure:"addresses"`
	SeedBalances map[string]float64 `mapstructure:"seed_balances"`
}

// PriceTable converts the configured prices to the domain table.
func (a AssetsConfig) PriceTable() domain.PriceTable {
	t := make(domain.PriceTable, len(a.Prices))
	for k, v := range a.Prices {
		t[domain.Currency(k)] = v
	}
	return t
}

// FeeTable converts the configured fees to the domain table.
func (a AssetsConfig) FeeTable() domain.FeeTable {
	t := make(domain.FeeTable, len(a.Fees))
	for k, v := range a.Fees {
		t[domain.Currency(k)] = v
	}
	return t
}

// Seed converts the configured seed balances to domain currencies.
func (a AssetsConfig) Seed() map[domain.Currency]float64 {
	m := make(map[domain.Currency]float64, len(a.SeedBalances))
	for k, v := range a.SeedBalances {
		m[domain.Currency(k)] = v
	}
	return m
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: SW_ (Secure Wallet).
// Nested keys use underscore: SW_DATABASE_HOST, SW_SECURITY_OTP_TTL, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "secure_wallet")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "secure-wallet")
	v.SetDefault("mail.provider", "log")
	v.SetDefault("mail.endpoint", "https://api.emailjs.com/api/v1.0/email/send")
	v.SetDefault("mail.service_id", "")
	v.SetDefault("mail.template_id", "")
	v.SetDefault("mail.public_key", "")
	v.SetDefault("mail.timeout", "10s")
	v.SetDefault("security.otp_ttl", "10m")
	v.SetDefault("security.send_code_ttl", "10m")
	v.SetDefault("security.resend_cooldown", "60s")
	v.SetDefault("security.max_failures", 3)
	v.SetDefault("security.lockout_window", "2h")
	v.SetDefault("security.hash_fallback", false)
	v.SetDefault("assets.prices", map[string]float64{
		"BTC": 27000, "ETH": 1750, "USDT": 1,
	})
	v.SetDefault("assets.fees", map[string]float64{
		"BTC": 0.00001, "ETH": 0.002, "USDT": 2.5,
	})
	v.SetDefault("assets.addresses", map[string]string{
		"BTC":  "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh",
		"ETH":  "0x742d35Cc6634C0532925a3b8D7A7C0CfF7E0A5b8",
		"USDT": "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t",
	})
	v.SetDefault("assets.seed_balances", map[string]float64{
		"BTC": 0.15647832, "ETH": 3.24567891, "USDT": 1234.56,
	})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: SW_DATABASE_HOST -> database.host
	v.SetEnvPrefix("SW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required; env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
