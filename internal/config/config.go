package config

import (
	"errors"
	"os"
)

// Config holds environment-driven configuration.
type Config struct {
	Harvest struct {
		APIToken  string
		AccountID string
		BaseURL   string // default: https://api.harvestapp.com
	}
	MySQL struct {
		DSN string // optional report cache; e.g. user:pass@tcp(host:3306)/db?parseTime=true&multiStatements=true
	}
	Vault struct {
		Dir string // optional markdown vault root
	}
	Report struct {
		Timezone string // calendar for TODAY/WEEK/MONTH; e.g. UTC (default), Europe/Berlin
	}
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config

	cfg.Harvest.APIToken = os.Getenv("HARVEST_API_TOKEN")
	if cfg.Harvest.APIToken == "" {
		return cfg, errors.New("HARVEST_API_TOKEN is required")
	}
	cfg.Harvest.AccountID = os.Getenv("HARVEST_ACCOUNT_ID")
	if cfg.Harvest.AccountID == "" {
		return cfg, errors.New("HARVEST_ACCOUNT_ID is required")
	}
	cfg.Harvest.BaseURL = os.Getenv("HARVEST_BASE_URL")
	if cfg.Harvest.BaseURL == "" {
		cfg.Harvest.BaseURL = "https://api.harvestapp.com"
	}

	cfg.MySQL.DSN = os.Getenv("MYSQL_DSN")
	cfg.Vault.Dir = os.Getenv("VAULT_DIR")

	cfg.Report.Timezone = os.Getenv("REPORT_TZ")
	if cfg.Report.Timezone == "" {
		cfg.Report.Timezone = "UTC"
	}

	return cfg, nil
}
