package config

import (
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// SessionConfig is the cookie policy read from auth.yml.
type SessionConfig struct {
	SameSite       string `mapstructure:"sameSite"`
	Domain         string `mapstructure:"domain"`
	LegacyFallback bool   `mapstructure:"legacyFallback"`
	LegacyPrefix   string `mapstructure:"legacyPrefix"`
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		SameSite:       "lax",
		Domain:         "",
		LegacyFallback: true,
		LegacyPrefix:   EnvProduction,
	}
}

// SameSiteMode converts the configured policy to its net/http value.
func (c SessionConfig) SameSiteMode() http.SameSite {
	switch strings.ToLower(strings.TrimSpace(c.SameSite)) {
	case "none":
		return http.SameSiteNoneMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteLaxMode
	}
}

type SessionConfigHolder struct {
	current atomic.Value // holds SessionConfig
}

// NewStaticSessionConfigHolder returns a holder that never reloads.
func NewStaticSessionConfigHolder(cfg SessionConfig) *SessionConfigHolder {
	holder := &SessionConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewSessionConfigHolder(log *zap.Logger) (*SessionConfigHolder, error) {
	log = log.Named("config.session")

	v := viper.New()
	v.SetConfigName("auth")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/inkwell")
	v.AddConfigPath("/var/lib/inkwell/config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("INKWELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultSessionConfig()
	v.SetDefault("session.sameSite", defaults.SameSite)
	v.SetDefault("session.domain", defaults.Domain)
	v.SetDefault("session.legacyFallback", defaults.LegacyFallback)
	v.SetDefault("session.legacyPrefix", defaults.LegacyPrefix)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	var cfg SessionConfig
	if err := v.UnmarshalKey("session", &cfg); err != nil {
		return nil, err
	}
	if err := validateSessionConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticSessionConfigHolder(cfg)
	if !fileFound {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated SessionConfig
		if err := v.UnmarshalKey("session", &updated); err != nil {
			log.Warn("session config reload failed", zap.Error(err))
			return
		}
		if err := validateSessionConfig(updated); err != nil {
			log.Warn("invalid session config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("session config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *SessionConfigHolder) Get() SessionConfig {
	return h.current.Load().(SessionConfig)
}

func validateSessionConfig(cfg SessionConfig) error {
	switch strings.ToLower(strings.TrimSpace(cfg.SameSite)) {
	case "none", "lax", "strict":
	default:
		return fmt.Errorf("session.sameSite must be none, lax or strict, got %q", cfg.SameSite)
	}
	if cfg.LegacyFallback && strings.TrimSpace(cfg.LegacyPrefix) == "" {
		return fmt.Errorf("session.legacyPrefix is required when legacyFallback is enabled")
	}
	return nil
}
