// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix: префикс переменных окружения (RAYDIUM_SWAP_RPC_URL и т.д.).
const EnvPrefix = "RAYDIUM_SWAP"

type Config struct {
	RPCURL              string        `mapstructure:"rpc_url"`
	Commitment          string        `mapstructure:"commitment"`
	PriorityFee         uint64        `mapstructure:"priority_fee"`
	TransferPriorityFee uint64        `mapstructure:"transfer_priority_fee"`
	Slippage            float64       `mapstructure:"slippage"`
	ConfirmInterval     time.Duration `mapstructure:"confirm_interval"`
	ConfirmTimeout      time.Duration `mapstructure:"confirm_timeout"`
	Port                int           `mapstructure:"port"`
	CORSOrigin          string        `mapstructure:"cors_origin"`
	RateLimit           float64       `mapstructure:"rate_limit"`
	RedisAddr           string        `mapstructure:"redis_addr"`
	Debug               bool          `mapstructure:"debug"`
	LogFile             string        `mapstructure:"log_file"`
	PrivateKey          string        `mapstructure:"private_key"`
}

const (
	DefaultRPCURL              = "https://api.mainnet-beta.solana.com"
	DefaultCommitment          = "confirmed"
	DefaultPriorityFee         = 10_000
	DefaultTransferPriorityFee = 25_000
	DefaultSlippage            = 0.01
	DefaultConfirmInterval     = 2 * time.Second
	DefaultConfirmTimeout      = 90 * time.Second
	DefaultPort                = 3001
	DefaultCORSOrigin          = "*"
	DefaultRateLimit           = 5
)

// LoadConfig читает конфигурацию: defaults, затем файл (если path не пуст),
// затем переменные окружения (.env подгружается заранее), затем флаги.
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()

	defaults := map[string]interface{}{
		"rpc_url":               DefaultRPCURL,
		"commitment":            DefaultCommitment,
		"priority_fee":          DefaultPriorityFee,
		"transfer_priority_fee": DefaultTransferPriorityFee,
		"slippage":              DefaultSlippage,
		"confirm_interval":      DefaultConfirmInterval,
		"confirm_timeout":       DefaultConfirmTimeout,
		"port":                  DefaultPort,
		"cors_origin":           DefaultCORSOrigin,
		"rate_limit":            DefaultRateLimit,
		"redis_addr":            "",
		"debug":                 false,
		"log_file":              "",
		"private_key":           "",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := bindEnvironment(v); err != nil {
		return nil, err
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

// loadDotEnv подгружает .env из рабочей директории; отсутствие файла не ошибка.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

func bindEnvironment(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// PRIVATE_KEY и PORT читаются и без префикса, как в .env сервиса переводов.
	if err := v.BindEnv("private_key", EnvPrefix+"_PRIVATE_KEY", "PRIVATE_KEY"); err != nil {
		return err
	}
	return v.BindEnv("port", EnvPrefix+"_PORT", "PORT")
}

// bindFlags привязывает флаги вида --rpc-url к ключам rpc_url.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
			bindErr = fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
		}
	})
	return bindErr
}

func validateConfig(cfg *Config) error {
	if cfg.RPCURL == "" {
		return errors.New("rpc_url is empty")
	}
	if err := validateURLWithCache(cfg.RPCURL, "http"); err != nil {
		return errors.New("invalid RPC URL protocol")
	}
	switch cfg.Commitment {
	case "processed", "confirmed", "finalized":
	default:
		return fmt.Errorf("invalid commitment %q", cfg.Commitment)
	}
	if err := validateNumericParams(cfg); err != nil {
		return err
	}
	return nil
}

func validateNumericParams(cfg *Config) error {
	if cfg.Slippage < 0 || cfg.Slippage >= 1 {
		return errors.New("invalid slippage: must be in [0, 1)")
	}
	if cfg.ConfirmInterval <= 0 {
		return errors.New("invalid confirm_interval")
	}
	if cfg.ConfirmTimeout < cfg.ConfirmInterval {
		return errors.New("invalid confirm_timeout")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return errors.New("invalid port")
	}
	if cfg.RateLimit < 0 {
		return errors.New("invalid rate_limit")
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) || parsed.Host == "" {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}
