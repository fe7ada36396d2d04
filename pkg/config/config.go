// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/i18nmigrate/pkg/catalog"
	"github.com/walteh/i18nmigrate/pkg/completion"
	"github.com/walteh/i18nmigrate/pkg/preset"
	"github.com/walteh/i18nmigrate/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// StateDir holds the persisted migration artifacts
const StateDir = ".i18nmigrate"

// FileNames are the project config files looked up in order
var FileNames = []string{
	".i18nmigrate.yaml",
	".i18nmigrate.yml",
	".i18nmigrate.hcl",
	".i18nmigrate.json",
}

const defaultTimeout = "5m"

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🤖 Provider selects and configures the completion service
type Provider struct {
	Name       string `json:"name,omitempty" yaml:"name,omitempty" hcl:"name,optional"`
	Model      string `json:"model,omitempty" yaml:"model,omitempty" hcl:"model,optional"`
	BaseURL    string `json:"base_url,omitempty" yaml:"base_url,omitempty" hcl:"base_url,optional"`
	APIKeyEnv  string `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty" hcl:"api_key_env,optional"`
	Deployment string `json:"deployment,omitempty" yaml:"deployment,omitempty" hcl:"deployment,optional"`
	APIVersion string `json:"api_version,omitempty" yaml:"api_version,omitempty" hcl:"api_version,optional"`
	Timeout    string `json:"timeout,omitempty" yaml:"timeout,omitempty" hcl:"timeout,optional"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Preset       string    `json:"preset,omitempty" yaml:"preset,omitempty" hcl:"preset,optional"`
	Pattern      string    `json:"pattern,omitempty" yaml:"pattern,omitempty" hcl:"pattern,optional"`
	AppendixPath string    `json:"appendix_path,omitempty" yaml:"appendix_path,omitempty" hcl:"appendix_path,optional"`
	StatusFile   string    `json:"status_file,omitempty" yaml:"status_file,omitempty" hcl:"status_file,optional"`
	CatalogFile  string    `json:"catalog_file,omitempty" yaml:"catalog_file,omitempty" hcl:"catalog_file,optional"`
	Ignore       []string  `json:"ignore,omitempty" yaml:"ignore,omitempty" hcl:"ignore,optional"`
	Provider     *Provider `json:"provider,omitempty" yaml:"provider,omitempty" hcl:"provider,block"`

	location string
}

// 🏭 Default returns a validated config with every default filled in
func Default() *Config {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

// Location returns the file the config was loaded from, empty for defaults
func (cfg *Config) Location() string {
	return cfg.location
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config %s: %w", path, err)
	}
	cfg.location = path

	return cfg, nil
}

// 🔍 Discover returns the first project config file in dir, or "" if none exists
func Discover(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

// 🧭 Resolve loads explicitPath when set, otherwise the discovered project
// file in dir, otherwise the defaults
func Resolve(ctx context.Context, explicitPath, dir string) (*Config, error) {
	if explicitPath != "" {
		return Load(ctx, explicitPath)
	}

	if path := Discover(dir); path != "" {
		return Load(ctx, path)
	}

	zerolog.Ctx(ctx).Debug().Str("dir", dir).Msg("no config file found, using defaults")
	return Default(), nil
}

// ✅ Validate fills defaults and checks the configuration
func (cfg *Config) Validate() error {
	if cfg.Preset == "" {
		cfg.Preset = preset.DefaultName
	}
	p, err := preset.Get(cfg.Preset)
	if err != nil {
		return err
	}
	cfg.Preset = p.Name

	if cfg.Pattern != "" && !doublestar.ValidatePattern(filepath.ToSlash(cfg.Pattern)) {
		return errors.Errorf("pattern %q is not a valid glob", cfg.Pattern)
	}
	for _, ig := range cfg.Ignore {
		if !doublestar.ValidatePattern(ig) {
			return errors.Errorf("ignore pattern %q is not a valid glob", ig)
		}
	}

	if cfg.StatusFile == "" {
		cfg.StatusFile = filepath.Join(StateDir, status.DefaultFileName)
	}
	if cfg.CatalogFile == "" {
		cfg.CatalogFile = filepath.Join(StateDir, catalog.DefaultFileName)
	}
	cfg.StatusFile = filepath.Clean(cfg.StatusFile)
	cfg.CatalogFile = filepath.Clean(cfg.CatalogFile)
	if cfg.AppendixPath != "" {
		cfg.AppendixPath = filepath.Clean(cfg.AppendixPath)
	}

	if cfg.Provider == nil {
		cfg.Provider = &Provider{}
	}
	return cfg.Provider.validate()
}

func (p *Provider) validate() error {
	p.Name = strings.ToLower(strings.TrimSpace(p.Name))
	if p.Name == "" {
		p.Name = completion.ProviderOpenAI
	}

	switch p.Name {
	case completion.ProviderOpenAI:
		if p.APIKeyEnv == "" {
			p.APIKeyEnv = "OPENAI_API_KEY"
		}
	case completion.ProviderAzure:
		if p.APIKeyEnv == "" {
			p.APIKeyEnv = "AZURE_OPENAI_API_KEY"
		}
	case completion.ProviderGemini:
		if p.APIKeyEnv == "" {
			p.APIKeyEnv = "GEMINI_API_KEY"
		}
	default:
		return errors.Errorf("provider.name %q is not one of %s, %s, %s",
			p.Name, completion.ProviderOpenAI, completion.ProviderAzure, completion.ProviderGemini)
	}

	if p.Timeout == "" {
		p.Timeout = defaultTimeout
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return errors.Errorf("provider.timeout: %w", err)
	}
	if d <= 0 {
		return errors.Errorf("provider.timeout must be positive, got %s", p.Timeout)
	}

	return nil
}

// 🔑 CompletionOptions builds transport options, reading the API key from the
// configured environment variable
func (cfg *Config) CompletionOptions() (completion.Options, error) {
	p := cfg.Provider
	if p == nil {
		return completion.Options{}, errors.New("config has not been validated")
	}

	timeout, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return completion.Options{}, errors.Errorf("provider.timeout: %w", err)
	}

	key := os.Getenv(p.APIKeyEnv)
	if key == "" {
		return completion.Options{}, errors.Errorf("environment variable %s is not set", p.APIKeyEnv)
	}

	return completion.Options{
		Provider:   p.Name,
		Model:      p.Model,
		BaseURL:    p.BaseURL,
		APIKey:     key,
		Deployment: p.Deployment,
		APIVersion: p.APIVersion,
		Timeout:    timeout,
	}, nil
}

// 📝 String returns a one-line description of the config
func (cfg *Config) String() string {
	source := cfg.location
	if source == "" {
		source = "defaults"
	}
	return fmt.Sprintf("%s preset via %s (%s)", cfg.Preset, cfg.Provider.Name, source)
}
