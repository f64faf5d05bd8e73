package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/user/site-cloner/pkg/utils"
)

// ClientEnvPrefix namespaces client settings in the environment, so
// CLONER_BACKEND sets --backend.
const ClientEnvPrefix = "CLONER"

// ClientConfig holds settings for the cloner command line and terminal UI.
type ClientConfig struct {
	Backend  string        `mapstructure:"backend"`
	Timeout  time.Duration `mapstructure:"timeout"`
	LogLevel string        `mapstructure:"log-level"`
	// LogFile receives the UI's log lines, the terminal is owned by the UI.
	LogFile string `mapstructure:"log-file"`
}

var clientDefaults = map[string]any{
	"backend":   "http://localhost:8000",
	"timeout":   180 * time.Second,
	"log-level": "",
	"log-file":  "cloner.log",
}

// NewClientViper returns a viper instance reading CLONER_* variables. Callers
// bind their command flags to it before LoadClient, flags set explicitly win.
func NewClientViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(ClientEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for key, value := range clientDefaults {
		v.SetDefault(key, value)
	}
	return v
}

func LoadClient(v *viper.Viper) (*ClientConfig, error) {
	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Backend = strings.TrimRight(strings.TrimSpace(cfg.Backend), "/")
	if _, err := utils.ParseHTTPURL(cfg.Backend); err != nil {
		return nil, fmt.Errorf("invalid backend %q: %w", cfg.Backend, err)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	return &cfg, nil
}
