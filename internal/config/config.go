package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Host  HostConfig
	UI    UIConfig
	Sell  SellConfig
	Store StoreConfig
}

// HostConfig holds the push-channel settings.
type HostConfig struct {
	URL          string        `mapstructure:"url"`
	ReconnectMin time.Duration `mapstructure:"reconnect_min"`
	ReconnectMax time.Duration `mapstructure:"reconnect_max"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	ToastDuration    time.Duration `mapstructure:"toast_duration"`
	LevelPopDuration time.Duration `mapstructure:"level_pop_duration"`
	CurrencySymbol   string        `mapstructure:"currency_symbol"`
}

// SellConfig holds sell-flow policy.
type SellConfig struct {
	// ClearDraftOnSubmit drops the draft after a sell command is emitted.
	// Off by default: the draft survives until the host's follow-up sync
	// shrinks the inventory under it.
	ClearDraftOnSubmit bool `mapstructure:"clear_draft_on_submit"`
}

// StoreConfig holds the local session store settings.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// Load reads configuration from file and env. Env var overrides use prefix FARMTAB_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("host.url", "ws://localhost:3847/tablet")
	v.SetDefault("host.reconnect_min", "1s")
	v.SetDefault("host.reconnect_max", "30s")
	v.SetDefault("ui.toast_duration", "3200ms")
	v.SetDefault("ui.level_pop_duration", "700ms")
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("sell.clear_draft_on_submit", false)
	v.SetDefault("store.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "farmtab", "farmtab.db"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("FARMTAB_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "farmtab"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FARMTAB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Host.ReconnectMin <= 0 {
		c.Host.ReconnectMin = time.Second
	}
	if c.Host.ReconnectMax < c.Host.ReconnectMin {
		c.Host.ReconnectMax = 30 * time.Second
	}
	if c.UI.ToastDuration <= 0 {
		c.UI.ToastDuration = 3200 * time.Millisecond
	}
	if c.UI.LevelPopDuration <= 0 {
		c.UI.LevelPopDuration = 700 * time.Millisecond
	}
	return c, nil
}
