package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mol3earth/ofx/internal/spending"
)

// Config represents the spendtrend configuration file.
type Config struct {
	Report       ReportConfig           `yaml:"report"`
	Institutions map[string]Institution `yaml:"institutions,omitempty"`
}

// ReportConfig holds report defaults that command-line flags override.
type ReportConfig struct {
	WeeklyGoal string `yaml:"weekly_goal"`
	Increment  string `yaml:"increment"`
}

// Institution describes how to request statements from an OFX server.
type Institution struct {
	URL        string `yaml:"url"`
	User       string `yaml:"user"`
	ClientUID  string `yaml:"client_uid,omitempty"`
	Version    string `yaml:"version"` // OFX protocol version, e.g. "102"
	AppID      string `yaml:"app_id"`
	AppVer     string `yaml:"app_ver"`
	Org        string `yaml:"org,omitempty"`
	FID        string `yaml:"fid,omitempty"`
	BankID     string `yaml:"bank_id,omitempty"`
	Checking   string `yaml:"checking,omitempty"`    // checking account number
	CreditCard string `yaml:"credit_card,omitempty"` // card number; takes precedence over Checking
}

// DefaultPath returns <user config dir>/spendtrend/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, "spendtrend", "config.yaml"), nil
}

// Load reads a config file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file, creating its directory.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	// Institutions may carry account numbers.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with report defaults and one example institution.
func Default() *Config {
	return &Config{
		Report: ReportConfig{
			WeeklyGoal: "500.00",
			Increment:  "daily",
		},
		Institutions: map[string]Institution{
			"mybank": {
				URL:       "https://ofx.example.com/",
				User:      "username",
				ClientUID: strings.ToUpper(uuid.NewString()),
				Version:   "220",
				AppID:     "QWIN",
				AppVer:    "2700",
				Checking:  "000000000",
			},
		},
	}
}

// Goal parses the configured weekly goal.
func (c *Config) Goal() (decimal.Decimal, error) {
	if c.Report.WeeklyGoal == "" {
		return spending.DefaultWeeklyGoal, nil
	}
	goal, err := decimal.NewFromString(c.Report.WeeklyGoal)
	if err != nil {
		return decimal.Zero, &spending.ValidationError{Field: "weekly goal", Value: c.Report.WeeklyGoal, Reason: "not a number"}
	}
	if !goal.IsPositive() {
		return decimal.Zero, &spending.ValidationError{Field: "weekly goal", Value: c.Report.WeeklyGoal, Reason: "must be positive"}
	}
	return goal, nil
}

// Step parses the configured increment.
func (c *Config) Step() (spending.Increment, error) {
	if c.Report.Increment == "" {
		return spending.Daily, nil
	}
	return spending.ParseIncrement(c.Report.Increment)
}

// Validate checks report defaults and every institution entry.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Goal(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Step(); err != nil {
		errs = append(errs, err)
	}
	for _, name := range c.InstitutionNames() {
		inst := c.Institutions[name]
		if inst.URL == "" {
			errs = append(errs, fmt.Errorf("institution %s: missing url", name))
		}
		if inst.Checking == "" && inst.CreditCard == "" {
			errs = append(errs, fmt.Errorf("institution %s: one of checking or credit_card is required", name))
		}
	}
	return errors.Join(errs...)
}

// InstitutionNames returns configured institution names in sorted order.
func (c *Config) InstitutionNames() []string {
	names := make([]string, 0, len(c.Institutions))
	for name := range c.Institutions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Institution returns the named institution.
func (c *Config) Institution(name string) (Institution, error) {
	inst, ok := c.Institutions[name]
	if !ok {
		return Institution{}, fmt.Errorf("institution %q not configured (known: %s)", name, strings.Join(c.InstitutionNames(), ", "))
	}
	return inst, nil
}
