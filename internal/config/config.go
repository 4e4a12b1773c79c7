package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa toda la configuración del proceso.
// DATABASE_URL vacío => repos in-memory (modo dev / tests).
type Config struct {
	Port        string        `mapstructure:"PORT"`
	Env         string        `mapstructure:"ENV"`
	DatabaseURL string        `mapstructure:"DATABASE_URL"`
	JWTSecret   string        `mapstructure:"JWT_SECRET"`
	TokenTTL    time.Duration `mapstructure:"TOKEN_TTL"`
	UploadsDir  string        `mapstructure:"UPLOADS_DIR"`
	LogLevel    string        `mapstructure:"LOG_LEVEL"`
	LogFormat   string        `mapstructure:"LOG_FORMAT"`
	CORSOrigins []string      `mapstructure:"CORS_ORIGINS"`

	// Compatibilidad: el sistema original descuenta stock buscando por
	// nombre de producto. true => forzar ese matching legado.
	StockMatchByName bool `mapstructure:"STOCK_MATCH_BY_NAME"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "4000")
	v.SetDefault("ENV", "development")
	v.SetDefault("TOKEN_TTL", "8h")
	v.SetDefault("UPLOADS_DIR", "uploads")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("STOCK_MATCH_BY_NAME", false)

	for _, key := range []string{
		"PORT", "ENV", "DATABASE_URL", "JWT_SECRET", "TOKEN_TTL",
		"UPLOADS_DIR", "LOG_LEVEL", "LOG_FORMAT", "CORS_ORIGINS",
		"STOCK_MATCH_BY_NAME",
	} {
		_ = v.BindEnv(key)
	}

	// .env es opcional
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.CORSOrigins) == 0 {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 8 * time.Hour
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}
