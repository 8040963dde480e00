package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rupor-github/gencfg"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.Lexer.TabWidth != 4 {
		t.Errorf("Default tab width = %d, want 4", cfg.Lexer.TabWidth)
	}
	if cfg.Cache.MaxEntries != 1024 {
		t.Errorf("Default cache max entries = %d, want 1024", cfg.Cache.MaxEntries)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
lexer:
  tab_width: 2
  max_nesting_depth: 32
layout:
  default_glyph_size: 20
  default_padding: 4
diff:
  attr_threshold: 5
cache:
  max_entries: 256
history:
  max_undo_entries: 50
logging:
  console:
    level: normal
  file:
    level: debug
    destination: /tmp/test.log
    mode: append
reporting:
  destination: /tmp/test-report.zip
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Lexer.TabWidth != 2 {
		t.Errorf("Lexer.TabWidth = %d, want 2", cfg.Lexer.TabWidth)
	}
	if cfg.Layout.DefaultPadding != 4 {
		t.Errorf("Layout.DefaultPadding = %v, want 4", cfg.Layout.DefaultPadding)
	}
	if cfg.Diff.AttrThreshold != 5 {
		t.Errorf("Diff.AttrThreshold = %d, want 5", cfg.Diff.AttrThreshold)
	}
	if cfg.Cache.MaxEntries != 256 {
		t.Errorf("Cache.MaxEntries = %d, want 256", cfg.Cache.MaxEntries)
	}
	if cfg.History.MaxUndoEntries != 50 {
		t.Errorf("History.MaxUndoEntries = %d, want 50", cfg.History.MaxUndoEntries)
	}
}

func TestLoadConfiguration_UnknownFields(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "unknown.yaml")

	configContent := `version: 1
lexer:
  tab_width: 4
  bogus_field: true
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := LoadConfiguration(configPath)
	if err == nil {
		t.Error("Expected error for unknown fields")
	}
}

func TestLoadConfiguration_ValidationError(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_version.yaml")

	configWithInvalidVersion := `version: 2
lexer:
  tab_width: 4
  max_nesting_depth: 64
`
	if err := os.WriteFile(configPath, []byte(configWithInvalidVersion), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := LoadConfiguration(configPath)
	if err == nil {
		t.Error("Expected validation error for invalid version")
	}
}

func TestLoadConfiguration_ValidationErrorOnBadLexer(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad_lexer.yaml")

	// tab_width is capped at 16 by the lexer's validation tag.
	configContent := `version: 1
lexer:
  tab_width: 99
  max_nesting_depth: 64
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := LoadConfiguration(configPath)
	if err == nil {
		t.Error("Expected validation error for out-of-range tab width")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {
		// Options are opaque, just test that we can pass them through.
	}

	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if len(data) == 0 {
		t.Error("Prepare() returned empty data")
	}

	cfg := &Config{}
	_, err = unmarshalConfig(data, cfg, true)
	if err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg := &Config{
		Version: 1,
		Lexer:   LexerConfig{TabWidth: 4, MaxNestingDepth: 64},
		Layout:  LayoutConfig{DefaultGlyphSize: 16, DefaultPadding: 0},
		Diff:    DiffConfig{AttrThreshold: 3},
		Cache:   CacheConfig{MaxEntries: 1024},
		History: HistoryConfig{MaxUndoEntries: 100},
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	if len(data) == 0 {
		t.Error("Dump() returned empty data")
	}

	cfg2 := &Config{}
	if _, err := unmarshalConfig(data, cfg2, false); err != nil {
		t.Errorf("Failed to load dumped config back: %v", err)
	}
	if cfg2.Cache.MaxEntries != 1024 {
		t.Errorf("Round-tripped Cache.MaxEntries = %d, want 1024", cfg2.Cache.MaxEntries)
	}
}
