package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port       string `mapstructure:"PORT"`
	Env        string `mapstructure:"ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32  `mapstructure:"DB_MIN_CONNS"`

	// Insurer gateway credentials. CustomerID and SecurityWord feed the
	// request signature; TerminalID is sent in request bodies.
	GatewayBaseURL      string `mapstructure:"GATEWAY_BASE_URL"`
	GatewayUploadURL    string `mapstructure:"GATEWAY_UPLOAD_URL"`
	GatewayCustomerID   string `mapstructure:"GATEWAY_CUSTOMER_ID"`
	GatewaySecurityWord string `mapstructure:"GATEWAY_SECURITY_WORD"`
	GatewayTerminalID   string `mapstructure:"GATEWAY_TERMINAL_ID"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	BlobDir    string `mapstructure:"BLOB_DIR"`
	BlobSecret string `mapstructure:"BLOB_SECRET"`

	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("BLOB_DIR", "./data/blobs")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("GATEWAY_BASE_URL")
	v.BindEnv("GATEWAY_UPLOAD_URL")
	v.BindEnv("GATEWAY_CUSTOMER_ID")
	v.BindEnv("GATEWAY_SECURITY_WORD")
	v.BindEnv("GATEWAY_TERMINAL_ID")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("BLOB_DIR")
	v.BindEnv("BLOB_SECRET")
	v.BindEnv("CORS_ORIGINS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	// Uploads default to the transaction endpoint unless routed separately.
	if cfg.GatewayUploadURL == "" {
		cfg.GatewayUploadURL = cfg.GatewayBaseURL
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Gateway credentials
// are always required; the JWT secret may only be empty in development,
// where the auth middleware is skipped.
func (c *Config) Validate() error {
	if c.GatewayBaseURL == "" {
		return fmt.Errorf("GATEWAY_BASE_URL is required")
	}
	if c.GatewayCustomerID == "" {
		return fmt.Errorf("GATEWAY_CUSTOMER_ID is required")
	}
	if c.GatewaySecurityWord == "" {
		return fmt.Errorf("GATEWAY_SECURITY_WORD is required")
	}
	if c.GatewayTerminalID == "" {
		return fmt.Errorf("GATEWAY_TERMINAL_ID is required")
	}
	if !c.IsDev() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required outside development (current ENV=%q)", c.Env)
	}
	if !c.IsDev() && c.BlobSecret == "" {
		return fmt.Errorf("BLOB_SECRET is required outside development (current ENV=%q)", c.Env)
	}
	return nil
}
