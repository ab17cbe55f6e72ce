package config

import (
	"strings"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("HARVEST_API_TOKEN", "token")
	t.Setenv("HARVEST_ACCOUNT_ID", "12345")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("HARVEST_BASE_URL", "")
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("VAULT_DIR", "")
	t.Setenv("REPORT_TZ", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Harvest.APIToken != "token" || cfg.Harvest.AccountID != "12345" {
		t.Errorf("harvest credentials %+v", cfg.Harvest)
	}
	if cfg.Harvest.BaseURL != "https://api.harvestapp.com" {
		t.Errorf("base url default %q", cfg.Harvest.BaseURL)
	}
	if cfg.Report.Timezone != "UTC" {
		t.Errorf("timezone default %q", cfg.Report.Timezone)
	}
	if cfg.MySQL.DSN != "" || cfg.Vault.Dir != "" {
		t.Errorf("optional values should stay empty: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("HARVEST_BASE_URL", "http://localhost:8081")
	t.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/harvestql?parseTime=true")
	t.Setenv("VAULT_DIR", "/tmp/vault")
	t.Setenv("REPORT_TZ", "Europe/Berlin")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Harvest.BaseURL != "http://localhost:8081" {
		t.Errorf("base url %q", cfg.Harvest.BaseURL)
	}
	if cfg.Vault.Dir != "/tmp/vault" {
		t.Errorf("vault dir %q", cfg.Vault.Dir)
	}
	if cfg.Report.Timezone != "Europe/Berlin" {
		t.Errorf("timezone %q", cfg.Report.Timezone)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("HARVEST_API_TOKEN", "")
	t.Setenv("HARVEST_ACCOUNT_ID", "12345")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "HARVEST_API_TOKEN") {
		t.Fatalf("expected a missing-token error, got %v", err)
	}

	t.Setenv("HARVEST_API_TOKEN", "token")
	t.Setenv("HARVEST_ACCOUNT_ID", "")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "HARVEST_ACCOUNT_ID") {
		t.Fatalf("expected a missing-account error, got %v", err)
	}
}
