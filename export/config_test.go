package export

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "confmill.yaml")
	data := `
base_url: https://example.atlassian.net
space: DOCS
output_dir: out
state_db: state/export.db
incremental: true
timeout_sec: 10
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BaseURL != "https://example.atlassian.net" || cfg.Space != "DOCS" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.Incremental || cfg.TimeoutSec != 10 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "confmill.yaml")
	os.WriteFile(path, []byte("base_url: https://x.example\nspace: S\n"), 0o644)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OutputDir != "exported_docs" {
		t.Errorf("output_dir default = %q", cfg.OutputDir)
	}
	if cfg.TimeoutSec != 30 {
		t.Errorf("timeout default = %d", cfg.TimeoutSec)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"valid", Config{BaseURL: "https://x", Space: "S", OutputDir: "o", TimeoutSec: 5}, true},
		{"missing base_url", Config{Space: "S", OutputDir: "o", TimeoutSec: 5}, false},
		{"missing space", Config{BaseURL: "https://x", OutputDir: "o", TimeoutSec: 5}, false},
		{"bad timeout", Config{BaseURL: "https://x", Space: "S", OutputDir: "o"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected error")
			}
		})
	}
}
