package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.GeminiAPIKey != "" {
		t.Errorf("key = %q, want empty", cfg.GeminiAPIKey)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("model = %q, want %q", cfg.Model, DefaultModel)
	}
}

func TestLoadFileWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "gemini_api_key: file-key\nmodel: gemini-2.5-pro\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GEMINI_API_KEY", "")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.GeminiAPIKey != "file-key" || cfg.Model != "gemini-2.5-pro" {
		t.Errorf("cfg = %+v", cfg)
	}

	t.Setenv("GEMINI_API_KEY", "env-key")
	cfg, err = LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.GeminiAPIKey != "env-key" {
		t.Errorf("env override lost: %q", cfg.GeminiAPIKey)
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("model: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRequireAPIKey(t *testing.T) {
	cfg := &Config{}
	if _, err := cfg.RequireAPIKey(); err == nil {
		t.Fatal("expected error for missing key")
	}
	cfg.GeminiAPIKey = "k"
	key, err := cfg.RequireAPIKey()
	if err != nil || key != "k" {
		t.Fatalf("key=%q err=%v", key, err)
	}
}
