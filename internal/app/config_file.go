package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
// Nested sections map naturally to flags/env.
type FileConfig struct {
	Index string `yaml:"index" json:"index"`
	Src   string `yaml:"src" json:"src"`

	Output struct {
		Dir         string `yaml:"dir" json:"dir"`
		Manifest    string `yaml:"manifest" json:"manifest"`
		StrictPerms bool   `yaml:"strictPerms" json:"strictPerms"`
		Clear       bool   `yaml:"clear" json:"clear"`
	} `yaml:"output" json:"output"`

	Variant struct {
		Marker string `yaml:"marker" json:"marker"`
		Suffix string `yaml:"suffix" json:"suffix"`
	} `yaml:"variant" json:"variant"`

	Gate struct {
		Mode   string `yaml:"mode" json:"mode"`
		Sample int    `yaml:"sample" json:"sample"`
	} `yaml:"gate" json:"gate"`

	Concurrency int  `yaml:"concurrency" json:"concurrency"`
	DryRun      bool `yaml:"dryRun" json:"dryRun"`
	Verbose     bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are still unset. Flags and env should already have been applied; file
// config only supplies what they left open.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.IndexPath == "" && fc.Index != "" {
		cfg.IndexPath = fc.Index
	}
	if cfg.SrcDir == "" && fc.Src != "" {
		cfg.SrcDir = fc.Src
	}
	if cfg.OutDir == "" && fc.Output.Dir != "" {
		cfg.OutDir = fc.Output.Dir
	}
	if cfg.ManifestPath == "" && fc.Output.Manifest != "" {
		cfg.ManifestPath = fc.Output.Manifest
	}
	if !cfg.StrictPerms && fc.Output.StrictPerms {
		cfg.StrictPerms = true
	}
	if !cfg.Clear && fc.Output.Clear {
		cfg.Clear = true
	}
	if cfg.VariantMarker == "" && fc.Variant.Marker != "" {
		cfg.VariantMarker = fc.Variant.Marker
	}
	if cfg.VariantSuffix == "" && fc.Variant.Suffix != "" {
		cfg.VariantSuffix = fc.Variant.Suffix
	}
	if cfg.Mode == "" && fc.Gate.Mode != "" {
		cfg.Mode = Mode(strings.ToLower(strings.TrimSpace(fc.Gate.Mode)))
	}
	if cfg.SampleSize == 0 && fc.Gate.Sample > 0 {
		cfg.SampleSize = fc.Gate.Sample
	}
	if cfg.Concurrency == 0 && fc.Concurrency > 0 {
		cfg.Concurrency = fc.Concurrency
	}
	if !cfg.DryRun && fc.DryRun {
		cfg.DryRun = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if trim(cfg.IndexPath) == "" {
		return errors.New("config: index path is required")
	}
	if trim(cfg.SrcDir) == "" {
		return errors.New("config: source directory is required")
	}
	if trim(cfg.OutDir) == "" {
		return errors.New("config: output directory is required")
	}
	if _, err := ParseMode(string(cfg.Mode)); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.SampleSize < 0 || cfg.Concurrency < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if strings.ContainsAny(cfg.VariantSuffix, `/\`) {
		return errors.New("config: variant suffix must not contain path separators")
	}
	return nil
}

func trim(s string) string { return strings.TrimSpace(s) }
