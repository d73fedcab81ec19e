package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
app:
  name: "shareit"
database:
  path: "test.db"
http:
  port: 9000
reports:
  days_after: 14
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "shareit" {
		t.Errorf("expected app name shareit, got %s", cfg.App.Name)
	}
	if cfg.HTTP.Port != 9000 {
		t.Errorf("expected http port 9000, got %d", cfg.HTTP.Port)
	}
	if cfg.Reports.DaysAfter != 14 {
		t.Errorf("expected report days_after 14, got %d", cfg.Reports.DaysAfter)
	}
}

func TestLoadConfig_EnvExpansion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("TEST_DB_PATH", "/tmp/expanded.db")

	yamlContent := `
database:
  path: "${TEST_DB_PATH}"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Database.Path != "/tmp/expanded.db" {
		t.Errorf("expected expanded database path, got %s", cfg.Database.Path)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				Database: DatabaseConfig{Path: "path"},
				HTTP:     HTTPConfig{Port: 8080},
			},
			wantErr: false,
		},
		{
			name: "missing database path",
			cfg: Config{
				HTTP: HTTPConfig{Port: 8080},
			},
			wantErr: true,
		},
		{
			name: "invalid port",
			cfg: Config{
				Database: DatabaseConfig{Path: "path"},
				HTTP:     HTTPConfig{Port: 123456},
			},
			wantErr: true,
		},
		{
			name: "negative report window",
			cfg: Config{
				Database: DatabaseConfig{Path: "path"},
				HTTP:     HTTPConfig{Port: 8080},
				Reports:  ReportsConfig{DaysBefore: -1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.HTTP.Port != 8080 {
		t.Errorf("expected default http port 8080, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.RateLimit.RPS != 50 {
		t.Errorf("expected default rate limit rps 50, got %f", cfg.HTTP.RateLimit.RPS)
	}
	if cfg.Reports.DaysBefore != 7 || cfg.Reports.DaysAfter != 30 {
		t.Errorf("expected default report window 7/30, got %d/%d", cfg.Reports.DaysBefore, cfg.Reports.DaysAfter)
	}
	if cfg.Reports.MaxRetries != 5 || cfg.Reports.RetryDelay != "2s" || cfg.Reports.RetryMaxDelay != "1m" {
		t.Errorf("expected default report retry 5/2s/1m, got %d/%s/%s",
			cfg.Reports.MaxRetries, cfg.Reports.RetryDelay, cfg.Reports.RetryMaxDelay)
	}
	if cfg.Backup.Schedule != "24h" {
		t.Errorf("expected default backup schedule 24h, got %s", cfg.Backup.Schedule)
	}
}
