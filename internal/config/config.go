// Package config loads quizsync settings from defaults, an optional
// quizsync.yaml, an optional .env file and QUIZSYNC_* environment variables,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/aretw0/quizsync/internal/platform"
)

const (
	DefaultEnvPrefix = "QUIZSYNC"

	DefaultAPIURL   = "https://api.github.com"
	DefaultAssetDir = "assets"
	DefaultFilePath = "levels.js"
	DefaultAddr     = "127.0.0.1:8080"
	DefaultAdapter  = platform.AdapterGitHub
)

// Config is the resolved configuration.
type Config struct {
	Owner         string  `json:"owner,omitempty"          mapstructure:"owner"`
	Repo          string  `json:"repo,omitempty"           mapstructure:"repo"`
	Branch        string  `json:"branch,omitempty"         mapstructure:"branch"`
	APIURL        string  `json:"api_url,omitempty"        mapstructure:"api_url"`
	AssetDir      string  `json:"asset_dir,omitempty"      mapstructure:"asset_dir"`
	FilePath      string  `json:"file_path,omitempty"      mapstructure:"file_path"`
	Token         string  `json:"-"                        mapstructure:"token"`
	Concurrency   int     `json:"concurrency,omitempty"    mapstructure:"concurrency"`
	RateLimit     float64 `json:"rate_limit,omitempty"     mapstructure:"rate_limit"`
	WriteMessage  string  `json:"write_message,omitempty"  mapstructure:"write_message"`
	UploadMessage string  `json:"upload_message,omitempty" mapstructure:"upload_message"`
	Adapter       string  `json:"adapter,omitempty"        mapstructure:"adapter"`
	Addr          string  `json:"addr,omitempty"           mapstructure:"addr"`

	// Root is the project directory the configuration was resolved from.
	Root string `json:"root,omitempty" mapstructure:"-"`
}

// Source tells Load where to look.
type Source struct {
	// Dir is where the project root search starts. Defaults to ".".
	Dir string
	// ConfigFile overrides the quizsync.yaml lookup.
	ConfigFile string
	// EnvFile is the dotenv file. Defaults to ".env" in the project root.
	EnvFile string
}

var defaults = map[string]any{
	"owner":          "",
	"repo":           "",
	"branch":         "",
	"api_url":        DefaultAPIURL,
	"asset_dir":      DefaultAssetDir,
	"file_path":      DefaultFilePath,
	"token":          "",
	"concurrency":    1,
	"rate_limit":     0.0,
	"write_message":  "",
	"upload_message": "",
	"adapter":        DefaultAdapter,
	"addr":           DefaultAddr,
}

// Load resolves the configuration described by src.
func Load(src Source) (*Config, error) {
	if src.Dir == "" {
		src.Dir = "."
	}
	root, err := platform.FindRoot(src.Dir)
	if err != nil {
		root, err = filepath.Abs(src.Dir)
		if err != nil {
			return nil, err
		}
	}

	v := viper.NewWithOptions(
		viper.KeyDelimiter("."),
		viper.EnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")),
	)
	v.SetEnvPrefix(DefaultEnvPrefix)
	v.AutomaticEnv()

	for key, value := range defaults {
		_ = v.BindEnv(key)
		v.SetDefault(key, value)
	}
	_ = v.BindEnv("token", DefaultEnvPrefix+"_TOKEN", "GITHUB_TOKEN")

	configFile := src.ConfigFile
	if configFile == "" {
		candidate := filepath.Join(root, platform.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	envFile := src.EnvFile
	if envFile == "" {
		envFile = filepath.Join(root, ".env")
	}
	if err := applyDotenv(v, envFile, src.EnvFile != ""); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.Root = root

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDotenv layers the dotenv file over the config file. Non-empty
// variables of the process environment win. The process environment itself is
// left untouched.
func applyDotenv(v *viper.Viper, path string, required bool) error {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to read env file %s: %w", path, err)
	}

	prefix := DefaultEnvPrefix + "_"
	for name, value := range vars {
		if os.Getenv(name) != "" {
			continue
		}
		switch {
		case strings.HasPrefix(name, prefix):
			key := strings.ToLower(strings.TrimPrefix(name, prefix))
			if _, known := defaults[key]; known {
				v.Set(key, value)
			}
		case name == "GITHUB_TOKEN":
			if _, set := vars[prefix+"TOKEN"]; set {
				continue
			}
			if os.Getenv(prefix+"TOKEN") != "" {
				continue
			}
			v.Set("token", value)
		}
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative, got %v", c.RateLimit)
	}
	switch c.Adapter {
	case platform.AdapterGitHub, platform.AdapterMemory:
	default:
		return fmt.Errorf("unknown adapter %q", c.Adapter)
	}
	return nil
}

// Options converts the configuration into platform options.
func (c *Config) Options() []platform.Option {
	return []platform.Option{
		platform.WithAdapter(c.Adapter),
		platform.WithBaseURL(c.APIURL),
		platform.WithRepo(c.Owner, c.Repo),
		platform.WithBranch(c.Branch),
		platform.WithWorkDir(c.Root),
		platform.WithCredential(c.Token),
		platform.WithConcurrency(c.Concurrency),
		platform.WithRateLimit(c.RateLimit),
		platform.WithWriteMessage(c.WriteMessage),
		platform.WithUploadMessage(c.UploadMessage),
	}
}
