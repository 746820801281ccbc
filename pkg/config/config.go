// Package config handles configuration for storefront-e2e.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/a8m/envsubst"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultBaseURL     = "https://automationexercise.com"
	DefaultOutputDir   = "outputfolder"
	DefaultTimeout     = 15000
	DefaultCheckTime   = 120000
	DefaultResultsPath = "test-results/results.json"
	DefaultReportPath  = "test-results/custom-report.html"
	DefaultReportTitle = "Custom Playwright Report"
	DefaultDataFile    = "datadriventest/testdata.csv"
	DefaultUploadsDir  = "uploads"
)

// Config is the run configuration (config.yaml, environment, flags).
type Config struct {
	// Target site
	BaseURL       string `yaml:"baseUrl" validate:"required,url"`
	AdminUser     string `yaml:"adminUser"`
	AdminPassword string `yaml:"adminPassword"`

	// Waits and retries
	Timeout      int  `yaml:"timeout" validate:"gt=0"`      // per-wait deadline in ms
	CheckTimeout int  `yaml:"checkTimeout" validate:"gt=0"` // per-check deadline in ms
	Retries      int  `yaml:"retries" validate:"gte=0"`
	Headless     bool `yaml:"headless"`

	// Files
	OutputDir   string `yaml:"outputDir" validate:"required"` // downloaded invoices, screenshots
	ResultsPath string `yaml:"resultsPath" validate:"required"`
	ReportPath  string `yaml:"reportPath" validate:"required"`
	ReportTitle string `yaml:"reportTitle"`
	DataFile    string `yaml:"dataFile"`
	UploadsDir  string `yaml:"uploadsDir"`
}

// Default returns a Config with every option set to its documented default.
func Default() *Config {
	return &Config{
		BaseURL:      DefaultBaseURL,
		Timeout:      DefaultTimeout,
		CheckTimeout: DefaultCheckTime,
		Headless:     true,
		OutputDir:    DefaultOutputDir,
		ResultsPath:  DefaultResultsPath,
		ReportPath:   DefaultReportPath,
		ReportTitle:  DefaultReportTitle,
		DataFile:     DefaultDataFile,
		UploadsDir:   DefaultUploadsDir,
	}
}

// Load reads a YAML config file on top of the defaults. ${VAR} references in
// the file are expanded from the environment first.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	data, err = envsubst.Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("expanding env vars: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// LoadFromDir looks for config.yaml or config.yml in the directory.
// Without either file the defaults are returned.
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range []string{"config.yaml", "config.yml"} {
		configPath := filepath.Join(dir, name)
		if _, err := os.Stat(configPath); err == nil {
			return Load(configPath)
		}
	}
	return Default(), nil
}

// ApplyEnv overlays environment variables onto the config. Unset or empty
// variables leave the current value alone. Credentials fall back from
// ADMIN_* to TEST_*.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := getenv("OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := getenv("RESULTS_JSON"); v != "" {
		c.ResultsPath = v
	}
	if v := getenv("REPORT_HTML"); v != "" {
		c.ReportPath = v
	}
	if v := firstNonEmpty(getenv("ADMIN_USER"), getenv("TEST_USER")); v != "" {
		c.AdminUser = v
	}
	if v := firstNonEmpty(getenv("ADMIN_PASSWORD"), getenv("TEST_PASSWORD")); v != "" {
		c.AdminPassword = v
	}
	if v := getenv("TIMEOUT"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TIMEOUT must be milliseconds, got %q", v)
		}
		c.Timeout = ms
	}
	return nil
}

// Validate checks the config for values the runner cannot work with.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// WaitTimeout returns Timeout as a duration.
func (c *Config) WaitTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

// CheckDeadline returns CheckTimeout as a duration.
func (c *Config) CheckDeadline() time.Duration {
	return time.Duration(c.CheckTimeout) * time.Millisecond
}

// HasCredentials reports whether both login fields are set.
func (c *Config) HasCredentials() bool {
	return c.AdminUser != "" && c.AdminPassword != ""
}

// URL joins a site path onto BaseURL.
func (c *Config) URL(path string) string {
	base := c.BaseURL
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	if path == "" {
		return base
	}
	if path[0] != '/' {
		path = "/" + path
	}
	return base + path
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
