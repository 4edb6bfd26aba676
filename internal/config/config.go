package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/3-lines-studio/gacha/internal/adapters/env"
	"github.com/3-lines-studio/gacha/internal/core"
)

const (
	defaultAddr         = "127.0.0.1:8000"
	defaultDBPath       = "gacha.db"
	defaultSessionTTL   = time.Hour
	defaultSessionSweep = 60 * time.Second
	defaultLogLevel     = "info"
	defaultLogFormat    = "console"
)

// Config captures startup settings for the server.
type Config struct {
	Addr            string `validate:"required,hostname_port"`
	Mode            core.Mode
	DBPath          string `validate:"required"`
	ThemePath       string
	FallbackView    string
	SessionTTL      time.Duration `validate:"gt=0"`
	SessionSweep    time.Duration `validate:"gt=0"`
	SessionHashKey  []byte        `validate:"omitempty,min=32"`
	SessionBlockKey []byte        `validate:"omitempty,block_key"`
	Discord         Discord
	LogLevel        string `validate:"oneof=trace debug info warn error"`
	LogFormat       string `validate:"oneof=console json"`
}

type Discord struct {
	ClientID     string
	ClientSecret string `validate:"required_with=ClientID"`
	RedirectURL  string `validate:"omitempty,url"`
}

func (c Config) IsDev() bool {
	return c.Mode == core.ModeDev
}

// AuthEnabled reports whether the Discord login routes should be served.
func (c Config) AuthEnabled() bool {
	return c.Discord.ClientID != ""
}

var envNames = map[string]string{
	"Addr":            "GACHA_ADDR",
	"DBPath":          "GACHA_DB_PATH",
	"SessionTTL":      "GACHA_SESSION_TTL",
	"SessionSweep":    "GACHA_SESSION_SWEEP",
	"SessionHashKey":  "GACHA_SESSION_HASH_KEY",
	"SessionBlockKey": "GACHA_SESSION_BLOCK_KEY",
	"ClientSecret":    "DISCORD_CLIENT_SECRET",
	"RedirectURL":     "DISCORD_REDIRECT_URL",
	"LogLevel":        "GACHA_LOG_LEVEL",
	"LogFormat":       "GACHA_LOG_FORMAT",
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("block_key", func(fl validator.FieldLevel) bool {
			switch fl.Field().Len() {
			case 16, 24, 32:
				return true
			}
			return false
		})

		validateInst = v
	})

	return validateInst
}

// LoadFromEnv loads runtime configuration from environment variables.
func LoadFromEnv() (Config, error) {
	cfg := Config{
		Mode:         env.DetectMode(),
		ThemePath:    os.Getenv("GACHA_THEME_PATH"),
		FallbackView: os.Getenv("GACHA_FALLBACK_VIEW"),
		Discord: Discord{
			ClientID:     os.Getenv("DISCORD_CLIENT_ID"),
			ClientSecret: os.Getenv("DISCORD_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("DISCORD_REDIRECT_URL"),
		},
	}

	var err error
	if cfg.Addr, err = readRequiredOrDefault("GACHA_ADDR", defaultAddr); err != nil {
		return Config{}, err
	}
	if cfg.DBPath, err = readRequiredOrDefault("GACHA_DB_PATH", defaultDBPath); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = readDuration("GACHA_SESSION_TTL", defaultSessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.SessionSweep, err = readDuration("GACHA_SESSION_SWEEP", defaultSessionSweep); err != nil {
		return Config{}, err
	}
	if cfg.SessionHashKey, err = readHex("GACHA_SESSION_HASH_KEY"); err != nil {
		return Config{}, err
	}
	if cfg.SessionBlockKey, err = readHex("GACHA_SESSION_BLOCK_KEY"); err != nil {
		return Config{}, err
	}
	if cfg.LogLevel, err = readRequiredOrDefault("GACHA_LOG_LEVEL", defaultLogLevel); err != nil {
		return Config{}, err
	}
	if cfg.LogFormat, err = readRequiredOrDefault("GACHA_LOG_FORMAT", defaultLogFormat); err != nil {
		return Config{}, err
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	err := validatorInstance().Struct(cfg)
	if err == nil {
		if cfg.AuthEnabled() && cfg.Discord.RedirectURL == "" {
			return fmt.Errorf("DISCORD_REDIRECT_URL is required when DISCORD_CLIENT_ID is set")
		}
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	name, ok := envNames[fe.StructField()]
	if !ok {
		name = fe.Namespace()
	}
	if fe.Param() != "" {
		return fmt.Errorf("%s failed %s=%s validation", name, fe.Tag(), fe.Param())
	}
	return fmt.Errorf("%s failed %s validation", name, fe.Tag())
}

func readRequiredOrDefault(key, fallback string) (string, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%s must not be empty", key)
	}
	return raw, nil
}

func readDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	return parsed, nil
}

func readHex(key string) ([]byte, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return nil, nil
	}
	decoded, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be hex encoded: %w", key, err)
	}
	return decoded, nil
}
