package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	// LexerConfig governs the indentation-tracking tokenizer and the parser's
	// block-nesting cap. MaxNestingDepth is grouped here because it is the
	// indentation stack's depth limit in spec terms, even though the guard
	// itself lives in the parser's recursive descent.
	LexerConfig struct {
		TabWidth        int `yaml:"tab_width" validate:"min=1,max=16"`
		MaxNestingDepth int `yaml:"max_nesting_depth" validate:"min=1"`
	}

	// LayoutConfig carries the defaults the dimension solver falls back to
	// when a shape or container leaves a value unspecified.
	LayoutConfig struct {
		DefaultGlyphSize float64 `yaml:"default_glyph_size" validate:"gt=0"`
		DefaultPadding   float64 `yaml:"default_padding" validate:"gte=0"`
	}

	// DiffConfig tunes the scene-diff engine's patch encoding.
	DiffConfig struct {
		// AttrThreshold is the per-element changed-attribute count above
		// which an Update patch carries a full serialization fallback
		// instead of an attribute list.
		AttrThreshold int `yaml:"attr_threshold" validate:"min=1"`
	}

	// CacheConfig bounds the rendered-fragment memoization cache.
	CacheConfig struct {
		MaxEntries int `yaml:"max_entries" validate:"min=1"`
	}

	// HistoryConfig bounds the undo/redo command stacks.
	HistoryConfig struct {
		MaxUndoEntries int `yaml:"max_undo_entries" validate:"min=1"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Lexer     LexerConfig    `yaml:"lexer"`
		Layout    LayoutConfig   `yaml:"layout"`
		Diff      DiffConfig     `yaml:"diff"`
		Cache     CacheConfig    `yaml:"cache"`
		History   HistoryConfig  `yaml:"history"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
