// Package config loads and validates monitor configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures everything one invocation of the monitor needs.
type Config struct {
	Monitor MonitorConfig `mapstructure:"monitor"`
	SMTP    SMTPConfig    `mapstructure:"smtp"`
}

// MonitorConfig points at the ISG error list page.
type MonitorConfig struct {
	URL            string `mapstructure:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// SMTPConfig describes the outgoing mail account. User and Token are
// optional; authentication is skipped unless both are set.
type SMTPConfig struct {
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	UseTLS bool   `mapstructure:"use_tls"`
	From   string `mapstructure:"from"`
	To     string `mapstructure:"to"`
	User   string `mapstructure:"user"`
	Token  string `mapstructure:"token"`
}

// Load builds a Config from the INI file at path.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("monitor.timeout_seconds", 10)
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.use_tls", true)
}

// Validate enforces required values up front so a misconfigured cron
// deployment fails on its first run rather than at first delivery.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Monitor.URL) == "" {
		return fmt.Errorf("monitor.url must be set")
	}
	if c.Monitor.TimeoutSeconds <= 0 {
		return fmt.Errorf("monitor.timeout_seconds must be > 0")
	}
	if strings.TrimSpace(c.SMTP.Host) == "" {
		return fmt.Errorf("smtp.host must be set")
	}
	if c.SMTP.Port <= 0 {
		return fmt.Errorf("smtp.port must be > 0")
	}
	if strings.TrimSpace(c.SMTP.From) == "" {
		return fmt.Errorf("smtp.from must be set")
	}
	if strings.TrimSpace(c.SMTP.To) == "" {
		return fmt.Errorf("smtp.to must be set")
	}
	return nil
}

// Timeout converts the fetch timeout config into a duration.
func (c MonitorConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Credentials returns the trimmed user/token pair and whether SMTP
// authentication should be attempted at all.
func (c SMTPConfig) Credentials() (user, token string, ok bool) {
	user = strings.TrimSpace(c.User)
	token = strings.TrimSpace(c.Token)
	return user, token, user != "" && token != ""
}
