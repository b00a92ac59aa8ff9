package assistants

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Beta != BetaAssistantsV1 {
		t.Errorf("Beta = %q, want %q", cfg.Beta, BetaAssistantsV1)
	}
	if cfg.Timeout != 120*time.Second {
		t.Errorf("Timeout = %v, want 120s", cfg.Timeout)
	}
	if cfg.APIKey != "" {
		t.Error("default config must not carry an API key")
	}
}

func TestDefaultConfig_ReturnsCopies(t *testing.T) {
	first := DefaultConfig()
	first.Headers["X-Mutated"] = "yes"
	first.BaseURL = "http://changed"

	second := DefaultConfig()
	if _, ok := second.Headers["X-Mutated"]; ok {
		t.Error("DefaultConfig shares its Headers map between calls")
	}
	if second.BaseURL == "http://changed" {
		t.Error("DefaultConfig returned a mutated value")
	}
}

func TestWithBeta_CopiesHeaders(t *testing.T) {
	cfg := Config{APIKey: "k", Headers: map[string]string{"A": "1"}}

	derived := cfg.WithBeta(BetaAssistantsV1)
	derived.Headers["A"] = "2"

	if cfg.Beta != "" {
		t.Errorf("receiver Beta = %q, want empty", cfg.Beta)
	}
	if cfg.Headers["A"] != "1" {
		t.Error("WithBeta copy shares the Headers map")
	}
	if derived.APIKey != "k" || derived.Beta != BetaAssistantsV1 {
		t.Errorf("derived = %+v", derived)
	}
}

func TestLoadConfigFile_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistants.yaml")
	content := "api_key: sk-file\norganization: org-1\ntimeout: 30s\nheaders:\n  X-Team: core\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}

	if cfg.APIKey != "sk-file" || cfg.Organization != "org-1" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("BaseURL default lost: %q", cfg.BaseURL)
	}
	if cfg.Beta != BetaAssistantsV1 {
		t.Errorf("Beta default lost: %q", cfg.Beta)
	}
	if cfg.Headers["X-Team"] != "core" {
		t.Errorf("Headers = %v", cfg.Headers)
	}
}

func TestLoadConfigFile_Errors(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("timeout: [not, a, duration]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFile(path); err == nil {
		t.Error("expected error for malformed file")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:8080/v1")
	t.Setenv("OPENAI_ORG_ID", "org-env")

	base := DefaultConfig()
	cfg := ConfigFromEnv(base)

	if cfg.APIKey != "sk-env" || cfg.BaseURL != "http://localhost:8080/v1" || cfg.Organization != "org-env" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if base.APIKey != "" {
		t.Error("ConfigFromEnv mutated its argument")
	}
}
