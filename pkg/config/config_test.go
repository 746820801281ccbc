package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "https://automationexercise.com", cfg.BaseURL)
	assert.Equal(t, "outputfolder", cfg.OutputDir)
	assert.Equal(t, 15000, cfg.Timeout)
	assert.Equal(t, "test-results/results.json", cfg.ResultsPath)
	assert.Equal(t, "test-results/custom-report.html", cfg.ReportPath)
	assert.True(t, cfg.Headless)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ValidConfig(t *testing.T) {
	t.Setenv("SHOP_PASSWORD", "s3cret")

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
baseUrl: https://staging.example.com
adminUser: qa@example.com
adminPassword: ${SHOP_PASSWORD}
timeout: 5000
retries: 2
headless: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "https://staging.example.com", cfg.BaseURL)
	assert.Equal(t, "qa@example.com", cfg.AdminUser)
	assert.Equal(t, "s3cret", cfg.AdminPassword)
	assert.Equal(t, 5000, cfg.Timeout)
	assert.Equal(t, 2, cfg.Retries)
	assert.False(t, cfg.Headless)

	// Unset keys keep their defaults
	assert.Equal(t, DefaultReportPath, cfg.ReportPath)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
}

func TestLoad_NonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("timeout: [not, a, number"), 0644))

	_, err := Load(configPath)
	assert.Error(t, err)
}

func TestLoadFromDir(t *testing.T) {
	t.Run("yml fallback", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("timeout: 100\n"), 0644))

		cfg, err := LoadFromDir(dir)
		require.NoError(t, err)
		assert.Equal(t, 100, cfg.Timeout)
	})

	t.Run("no file", func(t *testing.T) {
		cfg, err := LoadFromDir(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"BASE_URL":      "http://localhost:8080",
		"OUTPUT_DIR":    "/tmp/artifacts",
		"TIMEOUT":       "2500",
		"TEST_USER":     "fallback@example.com",
		"ADMIN_USER":    "admin@example.com",
		"TEST_PASSWORD": "fallback-pass",
		"REPORT_HTML":   "out/report.html",
	}
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, "/tmp/artifacts", cfg.OutputDir)
	assert.Equal(t, 2500, cfg.Timeout)
	assert.Equal(t, "admin@example.com", cfg.AdminUser, "ADMIN_USER wins over TEST_USER")
	assert.Equal(t, "fallback-pass", cfg.AdminPassword, "TEST_PASSWORD used when ADMIN_PASSWORD unset")
	assert.Equal(t, "out/report.html", cfg.ReportPath)
	assert.Equal(t, DefaultResultsPath, cfg.ResultsPath)
	assert.True(t, cfg.HasCredentials())
}

func TestApplyEnv_BadTimeout(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(func(k string) string {
		if k == "TIMEOUT" {
			return "soon"
		}
		return ""
	})
	assert.Error(t, err)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad url", func(c *Config) { c.BaseURL = "not a url" }},
		{"empty url", func(c *Config) { c.BaseURL = "" }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"zero check timeout", func(c *Config) { c.CheckTimeout = 0 }},
		{"negative retries", func(c *Config) { c.Retries = -1 }},
		{"no results path", func(c *Config) { c.ResultsPath = "" }},
		{"no report path", func(c *Config) { c.ReportPath = "" }},
		{"no output dir", func(c *Config) { c.OutputDir = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestWaitTimeout(t *testing.T) {
	cfg := Default()
	cfg.Timeout = 1500
	assert.Equal(t, 1500*time.Millisecond, cfg.WaitTimeout())
	assert.Equal(t, 2*time.Minute, cfg.CheckDeadline())
}

func TestURL(t *testing.T) {
	cfg := Default()
	cfg.BaseURL = "https://shop.example.com/"

	assert.Equal(t, "https://shop.example.com/products", cfg.URL("/products"))
	assert.Equal(t, "https://shop.example.com/contact_us", cfg.URL("contact_us"))
	assert.Equal(t, "https://shop.example.com", cfg.URL(""))
}
