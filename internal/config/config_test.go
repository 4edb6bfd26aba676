package config

import (
	"strings"
	"testing"
	"time"

	"github.com/3-lines-studio/gacha/internal/core"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	if cfg.Addr != defaultAddr {
		t.Errorf("Addr = %q, want %q", cfg.Addr, defaultAddr)
	}
	if cfg.DBPath != defaultDBPath {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, defaultDBPath)
	}
	if cfg.SessionTTL != time.Hour || cfg.SessionSweep != time.Minute {
		t.Errorf("session timings = %v/%v, want 1h/1m", cfg.SessionTTL, cfg.SessionSweep)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "console" {
		t.Errorf("log = %s/%s, want info/console", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.AuthEnabled() {
		t.Error("AuthEnabled() = true without a client id")
	}
	if cfg.FallbackView != "" {
		t.Errorf("FallbackView = %q, want none", cfg.FallbackView)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("GACHA_ADDR", "0.0.0.0:9000")
	t.Setenv("GACHA_DEV", "1")
	t.Setenv("GACHA_SESSION_TTL", "30m")
	t.Setenv("GACHA_SESSION_BLOCK_KEY", strings.Repeat("ab", 32))
	t.Setenv("GACHA_LOG_FORMAT", "JSON")
	t.Setenv("DISCORD_CLIENT_ID", "id")
	t.Setenv("DISCORD_CLIENT_SECRET", "secret")
	t.Setenv("DISCORD_REDIRECT_URL", "https://gacha.example.com/auth/discord/redirect")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	if cfg.Addr != "0.0.0.0:9000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.Mode != core.ModeDev || !cfg.IsDev() {
		t.Errorf("Mode = %v, want dev", cfg.Mode)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if len(cfg.SessionBlockKey) != 32 {
		t.Errorf("SessionBlockKey length = %d, want 32", len(cfg.SessionBlockKey))
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q", cfg.LogFormat)
	}
	if !cfg.AuthEnabled() {
		t.Error("AuthEnabled() = false with a client id")
	}
}

func TestLoadFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"blank addr", map[string]string{"GACHA_ADDR": "  "}, "GACHA_ADDR"},
		{"addr without port", map[string]string{"GACHA_ADDR": "localhost"}, "GACHA_ADDR"},
		{"bad ttl", map[string]string{"GACHA_SESSION_TTL": "soon"}, "GACHA_SESSION_TTL"},
		{"zero sweep", map[string]string{"GACHA_SESSION_SWEEP": "0s"}, "GACHA_SESSION_SWEEP"},
		{"non hex key", map[string]string{"GACHA_SESSION_HASH_KEY": "zz"}, "GACHA_SESSION_HASH_KEY"},
		{"short hash key", map[string]string{"GACHA_SESSION_HASH_KEY": "abcd"}, "GACHA_SESSION_HASH_KEY"},
		{"bad block key", map[string]string{"GACHA_SESSION_BLOCK_KEY": strings.Repeat("ab", 20)}, "GACHA_SESSION_BLOCK_KEY"},
		{"bad level", map[string]string{"GACHA_LOG_LEVEL": "loud"}, "GACHA_LOG_LEVEL"},
		{"bad format", map[string]string{"GACHA_LOG_FORMAT": "xml"}, "GACHA_LOG_FORMAT"},
		{"client without secret", map[string]string{"DISCORD_CLIENT_ID": "id", "DISCORD_REDIRECT_URL": "https://x.example/cb"}, "DISCORD_CLIENT_SECRET"},
		{"client without redirect", map[string]string{"DISCORD_CLIENT_ID": "id", "DISCORD_CLIENT_SECRET": "s"}, "DISCORD_REDIRECT_URL"},
		{"client with bad redirect", map[string]string{"DISCORD_CLIENT_ID": "id", "DISCORD_CLIENT_SECRET": "s", "DISCORD_REDIRECT_URL": "not a url"}, "DISCORD_REDIRECT_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFromEnv()
			if err == nil {
				t.Fatal("LoadFromEnv() expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %s", err, tt.want)
			}
		})
	}
}
