// Package config loads a11ygrade settings from a file, the environment and
// AWS SSM Parameter Store.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/reaandrew/a11ygrade/core"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFiles are probed in order when no path is given.
var DefaultConfigFiles = []string{".a11ygrade.yaml", ".a11ygrade.yml", ".a11ygrade.toml", ".a11ygrade.hcl"}

type ReportConfig struct {
	Format    string `yaml:"format" toml:"format"`
	OutputDir string `yaml:"output_dir" toml:"output_dir"`
	Prefix    string `yaml:"prefix" toml:"prefix"`
	BaseURL   string `yaml:"base_url" toml:"base_url"`
}

type ServerConfig struct {
	Addr            string `yaml:"addr" toml:"addr"`
	MetricsAddr     string `yaml:"metrics_addr" toml:"metrics_addr"`
	MaxRequestBytes int64  `yaml:"max_request_bytes" toml:"max_request_bytes"`
}

type GitlabConfig struct {
	BaseURL string `yaml:"base_url" toml:"base_url"`
	Token   string `yaml:"token" toml:"token"`
	NoCache bool   `yaml:"no_cache" toml:"no_cache"`
}

type Config struct {
	Include     []string        `yaml:"include" toml:"include"`
	Exclude     []string        `yaml:"exclude" toml:"exclude"`
	Workers     int             `yaml:"workers" toml:"workers"`
	LogFile     string          `yaml:"log_file" toml:"log_file"`
	LogLevel    string          `yaml:"log_level" toml:"log_level"`
	Store       string          `yaml:"store" toml:"store"`
	SqlitePath  string          `yaml:"sqlite_path" toml:"sqlite_path"`
	CloneDir    string          `yaml:"clone_dir" toml:"clone_dir"`
	Since       string          `yaml:"since" toml:"since"`
	GithubToken string          `yaml:"github_token" toml:"github_token"`
	Gitlab      GitlabConfig    `yaml:"gitlab" toml:"gitlab"`
	Report      ReportConfig    `yaml:"report" toml:"report"`
	Server      ServerConfig    `yaml:"server" toml:"server"`
	Summary     core.SqlQueries `yaml:"summary" toml:"summary"`
}

func Default() Config {
	return Config{
		Include: []string{"**/*.{html,htm,xhtml,jsx,tsx,js,mjs,cjs,ts,py,php,go}"},
		Exclude: []string{
			"**/node_modules/**",
			"**/vendor/**",
			"**/dist/**",
			"**/build/**",
			"**/.git/**",
			"**/*.min.js",
		},
		Workers:  10,
		LogFile:  "a11ygrade.log",
		LogLevel: "info",
		Store:    "file",
		CloneDir: filepath.Join(os.TempDir(), "a11ygrade"),
		Gitlab: GitlabConfig{
			BaseURL: "https://gitlab.com",
		},
		Report: ReportConfig{
			Format:    "text",
			OutputDir: ".",
			Prefix:    "a11ygrade",
		},
		Server: ServerConfig{
			Addr:            ":3000",
			MaxRequestBytes: 1 << 20,
		},
	}
}

// LoadConfig reads path on top of the defaults. An empty path probes
// DefaultConfigFiles in the working directory; finding none is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		for _, candidate := range DefaultConfigFiles {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	if err := Decode(path, data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode parses data in the format implied by the file name's extension.
func Decode(filename string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to unmarshal YAML config: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to decode TOML config: %w", err)
		}
	case ".hcl":
		if err := decodeHcl(filename, data, cfg); err != nil {
			return fmt.Errorf("failed to decode HCL config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format: %s", filename)
	}
	return nil
}

// ApplyEnv overrides settings from A11Y_* environment variables.
func (c *Config) ApplyEnv() {
	setString := func(key string, target *string) {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			*target = value
		}
	}

	setString("A11Y_LOG_FILE", &c.LogFile)
	setString("A11Y_LOG_LEVEL", &c.LogLevel)
	setString("A11Y_STORE", &c.Store)
	setString("A11Y_SQLITE_PATH", &c.SqlitePath)
	setString("A11Y_CLONE_DIR", &c.CloneDir)
	setString("A11Y_SINCE", &c.Since)
	setString("A11Y_REPORT_FORMAT", &c.Report.Format)
	setString("A11Y_REPORT_OUTPUT_DIR", &c.Report.OutputDir)
	setString("A11Y_REPORT_PREFIX", &c.Report.Prefix)
	setString("A11Y_REPORT_BASE_URL", &c.Report.BaseURL)
	setString("A11Y_SERVER_ADDR", &c.Server.Addr)
	setString("A11Y_METRICS_ADDR", &c.Server.MetricsAddr)
	setString("A11Y_GITLAB_BASE_URL", &c.Gitlab.BaseURL)
	setString("GITLAB_TOKEN", &c.Gitlab.Token)
	setString("GITHUB_TOKEN", &c.GithubToken)

	if value, ok := os.LookupEnv("A11Y_WORKERS"); ok {
		if workers, err := strconv.Atoi(value); err == nil && workers > 0 {
			c.Workers = workers
		}
	}
	if value, ok := os.LookupEnv("A11Y_MAX_REQUEST_BYTES"); ok {
		if limit, err := strconv.ParseInt(value, 10, 64); err == nil && limit > 0 {
			c.Server.MaxRequestBytes = limit
		}
	}
	if value, ok := os.LookupEnv("PORT"); ok && value != "" && os.Getenv("A11Y_SERVER_ADDR") == "" {
		c.Server.Addr = ":" + value
	}
}
