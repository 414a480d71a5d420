// Package config loads the user/account configuration: which broker each
// client trades through, its credentials, and where outcomes are journaled.
// The loaded value is passed explicitly into whatever needs it; nothing here
// is ambient state.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	BrokerFivePaisa = "fivepaisa"
	BrokerShoonya   = "shoonya"
)

// Config is the complete tool configuration.
type Config struct {
	Journal JournalConfig   `yaml:"journal"`
	Log     LogConfig       `yaml:"log"`
	Users   map[string]User `yaml:"users"`
}

// User holds one brokerage account. Which credential fields matter depends
// on the broker.
type User struct {
	Broker string `yaml:"broker"` // "fivepaisa" or "shoonya"

	// fivepaisa: session established out of band, we only carry the token.
	AppKey      string `yaml:"app_key,omitempty"`
	ClientCode  string `yaml:"client_code,omitempty"`
	AccessToken string `yaml:"access_token,omitempty"`

	// shoonya: full Noren login credentials. Factor2 is the already
	// generated TOTP value (or a session token via SessionToken).
	UserID       string `yaml:"user_id,omitempty"`
	Password     string `yaml:"password,omitempty"`
	Factor2      string `yaml:"factor2,omitempty"`
	VendorCode   string `yaml:"vendor_code,omitempty"`
	APISecret    string `yaml:"api_secret,omitempty"`
	IMEI         string `yaml:"imei,omitempty"`
	SessionToken string `yaml:"session_token,omitempty"`
}

// JournalConfig selects where order outcomes are recorded.
type JournalConfig struct {
	Type       string `yaml:"type"` // "sqlite", "csv" or "none"
	DBPath     string `yaml:"db_path,omitempty"`
	OrdersFile string `yaml:"orders_file,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level"` // zap level name; default "info"
}

// LoadFromFile loads and validates a config file (YAML).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration is usable before any order is placed.
func (c *Config) Validate() error {
	if len(c.Users) == 0 {
		return fmt.Errorf("at least one user is required")
	}
	for name, u := range c.Users {
		switch u.Broker {
		case BrokerFivePaisa:
			if u.ClientCode == "" || u.AccessToken == "" {
				return fmt.Errorf("user %s: fivepaisa needs client_code and access_token", name)
			}
		case BrokerShoonya:
			if u.UserID == "" {
				return fmt.Errorf("user %s: shoonya needs user_id", name)
			}
			if u.SessionToken == "" && (u.Password == "" || u.Factor2 == "" || u.APISecret == "") {
				return fmt.Errorf("user %s: shoonya needs session_token or password+factor2+api_secret", name)
			}
		default:
			return fmt.Errorf("user %s: unknown broker %q", name, u.Broker)
		}
	}

	switch c.Journal.Type {
	case "", "none":
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite journal")
		}
	case "csv":
		if c.Journal.OrdersFile == "" {
			return fmt.Errorf("journal.orders_file required for csv journal")
		}
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'csv' or 'none'")
	}
	return nil
}

// Default returns a configuration skeleton with sensible defaults.
func Default() *Config {
	return &Config{
		Journal: JournalConfig{Type: "sqlite", DBPath: "./optioner.sqlite"},
		Log:     LogConfig{Level: "info"},
		Users:   map[string]User{},
	}
}
