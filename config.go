package assistants

import (
	_ "embed"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed config/defaults.yaml
var defaultConfigYAML []byte

// BetaAssistantsV1 is the protocol-version marker sent with every call made
// by the thread, message and run resources.
const BetaAssistantsV1 = "assistants=v1"

// Config carries credentials and endpoint settings for one API account.
//
// Config is a value type. Resources never modify the caller's Config; they
// derive a copy with WithBeta and hand that copy to the Transport, so one
// Config can be shared freely between goroutines.
type Config struct {
	APIKey       string            `yaml:"api_key"`
	BaseURL      string            `yaml:"base_url"`
	Organization string            `yaml:"organization"`
	Timeout      time.Duration     `yaml:"timeout"`
	Headers      map[string]string `yaml:"headers"`

	// Beta is the protocol-version marker (sent as the OpenAI-Beta header).
	Beta string `yaml:"beta"`
}

// WithBeta returns a copy of c with the protocol-version marker set.
// The Headers map is cloned so the copy shares no mutable state with c.
func (c Config) WithBeta(version string) Config {
	out := c
	out.Beta = version
	if c.Headers != nil {
		out.Headers = make(map[string]string, len(c.Headers))
		for k, v := range c.Headers {
			out.Headers[k] = v
		}
	}
	return out
}

var (
	defaultConfig     Config
	defaultConfigErr  error
	defaultConfigOnce sync.Once
)

// DefaultConfig returns the embedded defaults (base URL, timeout, beta marker).
// The API key is always empty.
func DefaultConfig() Config {
	defaultConfigOnce.Do(func() {
		if err := yaml.Unmarshal(defaultConfigYAML, &defaultConfig); err != nil {
			defaultConfigErr = fmt.Errorf("failed to unmarshal default config: %w", err)
		}
		if defaultConfig.Headers == nil {
			defaultConfig.Headers = map[string]string{}
		}
	})
	if defaultConfigErr != nil {
		// Embedded file is part of the build; fall back to the bare minimum.
		return Config{BaseURL: "https://api.openai.com/v1", Beta: BetaAssistantsV1}
	}
	return defaultConfig.WithBeta(defaultConfig.Beta)
}

// LoadConfigFile reads a YAML file and overlays it on the embedded defaults.
// Keys missing from the file keep their default value.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config file %s: %w", path, err)
	}
	return cfg, nil
}

// ConfigFromEnv overlays OPENAI_API_KEY, OPENAI_BASE_URL and OPENAI_ORG_ID
// on base. Unset variables leave the corresponding field untouched.
func ConfigFromEnv(base Config) Config {
	cfg := base.WithBeta(base.Beta)
	if v, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
		cfg.APIKey = v
	}
	if v, ok := os.LookupEnv("OPENAI_BASE_URL"); ok && v != "" {
		cfg.BaseURL = v
	}
	if v, ok := os.LookupEnv("OPENAI_ORG_ID"); ok {
		cfg.Organization = v
	}
	return cfg
}
