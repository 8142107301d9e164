// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Solana    SolanaConfig    `mapstructure:"solana"`
	Venues    VenuesConfig    `mapstructure:"venues"`
	Arbitrage ArbitrageConfig `mapstructure:"arbitrage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// SolanaConfig holds Solana node configuration.
type SolanaConfig struct {
	RPCURL         string        `mapstructure:"rpc_url"`
	WebSocketURL   string        `mapstructure:"websocket_url"`
	Commitment     string        `mapstructure:"commitment"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
}

// VenuesConfig holds the on-chain program addresses for each DEX venue
// and rate limits for on-demand pool quotes.
type VenuesConfig struct {
	PumpSwapProgram    string `mapstructure:"pumpswap_program"`
	DammV2Program      string `mapstructure:"dammv2_program"`
	DLMMProgram        string `mapstructure:"dlmm_program"`
	QuoteRatePerMinute int    `mapstructure:"quote_rate_per_minute"`
}

// ArbitrageConfig holds divergence detection and execution settings.
type ArbitrageConfig struct {
	MinDivergencePercent float64       `mapstructure:"min_divergence_percent"`
	DebounceDelay        time.Duration `mapstructure:"debounce_delay"`
	ExecutionCooldown    time.Duration `mapstructure:"execution_cooldown"`
	TradeAmount          float64       `mapstructure:"trade_amount"`
	SlippagePercent      float64       `mapstructure:"slippage_percent"`
	DispatchEnabled      bool          `mapstructure:"dispatch_enabled"`
	TUIMode              bool          `mapstructure:"-"` // Set at runtime, not from config file
}

// TradeAmountDecimal returns the trade amount as decimal.Decimal.
func (c *ArbitrageConfig) TradeAmountDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.TradeAmount)
}

// SlippagePercentDecimal returns the slippage tolerance as decimal.Decimal.
func (c *ArbitrageConfig) SlippagePercentDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.SlippagePercent)
}

// RedisConfig holds the optional Redis snapshot publisher settings.
type RedisConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("ARB")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "ARB_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "ARB_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "ARB_LOG_LEVEL", "LOG_LEVEL")

	// Solana
	v.BindEnv("solana.rpc_url", "ARB_SOLANA_RPC_URL", "SOLANA_RPC_URL")
	v.BindEnv("solana.websocket_url", "ARB_SOLANA_WS_URL", "SOLANA_WS_URL")
	v.BindEnv("solana.commitment", "ARB_SOLANA_COMMITMENT", "SOLANA_COMMITMENT")

	// Venues
	v.BindEnv("venues.pumpswap_program", "ARB_PUMPSWAP_PROGRAM")
	v.BindEnv("venues.dammv2_program", "ARB_DAMMV2_PROGRAM")
	v.BindEnv("venues.dlmm_program", "ARB_DLMM_PROGRAM")

	// Arbitrage
	v.BindEnv("arbitrage.min_divergence_percent", "ARB_MIN_DIVERGENCE_PERCENT")
	v.BindEnv("arbitrage.debounce_delay", "ARB_DEBOUNCE_DELAY")
	v.BindEnv("arbitrage.execution_cooldown", "ARB_EXECUTION_COOLDOWN")
	v.BindEnv("arbitrage.trade_amount", "ARB_TRADE_AMOUNT")
	v.BindEnv("arbitrage.slippage_percent", "ARB_SLIPPAGE_PERCENT")
	v.BindEnv("arbitrage.dispatch_enabled", "ARB_DISPATCH_ENABLED")

	// Redis
	v.BindEnv("redis.enabled", "ARB_REDIS_ENABLED", "REDIS_ENABLED")
	v.BindEnv("redis.addr", "ARB_REDIS_ADDR", "REDIS_ADDR")
	v.BindEnv("redis.password", "ARB_REDIS_PASSWORD", "REDIS_PASSWORD")

	// Telemetry
	v.BindEnv("telemetry.enabled", "ARB_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "ARB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "ARB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "solana-arb-bot")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Solana defaults
	v.SetDefault("solana.rpc_url", "https://api.mainnet-beta.solana.com")
	v.SetDefault("solana.websocket_url", "wss://api.mainnet-beta.solana.com")
	v.SetDefault("solana.commitment", "confirmed")
	v.SetDefault("solana.max_reconnects", 0) // infinite
	v.SetDefault("solana.initial_backoff", "1s")
	v.SetDefault("solana.max_backoff", "30s")

	// Venue program defaults (mainnet)
	v.SetDefault("venues.pumpswap_program", "pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA")
	v.SetDefault("venues.dammv2_program", "cpamdpZCGKUy5JxQXB4dcpGPiikHawvSWAd6mEn1sGG")
	v.SetDefault("venues.dlmm_program", "LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo")
	v.SetDefault("venues.quote_rate_per_minute", 120)

	// Arbitrage defaults
	v.SetDefault("arbitrage.min_divergence_percent", 1.0)
	v.SetDefault("arbitrage.debounce_delay", "300ms")
	v.SetDefault("arbitrage.execution_cooldown", "10s")
	v.SetDefault("arbitrage.trade_amount", 0.01)
	v.SetDefault("arbitrage.slippage_percent", 0.5)
	v.SetDefault("arbitrage.dispatch_enabled", true)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "arb")
	v.SetDefault("redis.ttl", "1m")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "solana-arb-bot")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Solana.RPCURL == "" {
		return fmt.Errorf("solana.rpc_url is required")
	}
	if c.Solana.WebSocketURL == "" {
		return fmt.Errorf("solana.websocket_url is required")
	}
	switch c.Solana.Commitment {
	case "processed", "confirmed", "finalized":
	default:
		return fmt.Errorf("invalid solana.commitment: %s", c.Solana.Commitment)
	}
	if c.Venues.PumpSwapProgram == "" {
		return fmt.Errorf("venues.pumpswap_program is required")
	}
	if c.Venues.DammV2Program == "" {
		return fmt.Errorf("venues.dammv2_program is required")
	}
	if c.Venues.DLMMProgram == "" {
		return fmt.Errorf("venues.dlmm_program is required")
	}
	if c.Arbitrage.MinDivergencePercent < 0 {
		return fmt.Errorf("arbitrage.min_divergence_percent must not be negative")
	}
	if c.Arbitrage.DebounceDelay <= 0 {
		return fmt.Errorf("arbitrage.debounce_delay must be positive")
	}
	if c.Arbitrage.ExecutionCooldown <= 0 {
		return fmt.Errorf("arbitrage.execution_cooldown must be positive")
	}
	if c.Arbitrage.TradeAmount <= 0 {
		return fmt.Errorf("arbitrage.trade_amount must be positive")
	}
	return nil
}
