package app

import (
	"io"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Inputs
	IndexPath string
	SrcDir    string

	// Outputs
	OutDir       string
	ManifestPath string
	StrictPerms  bool
	Clear        bool

	// Selection
	VariantMarker string
	VariantSuffix string

	// Gate policy
	Mode       Mode
	SampleSize int

	// Behavior
	Concurrency int
	DryRun      bool
	Verbose     bool

	// ConfirmIn and ConfirmOut carry the confirm-mode prompt. Nil means
	// os.Stdin and os.Stderr.
	ConfirmIn  io.Reader
	ConfirmOut io.Writer
}

// Defaults filled in by ApplyDefaults.
const (
	DefaultIndexPath     = "kvg-index.json"
	DefaultSrcDir        = "kanji"
	DefaultOutDir        = "output"
	DefaultSampleSize    = 10
	DefaultConcurrency   = 1
	DefaultVariantMarker = "-Kaisho"

	// ManifestDisabled as ManifestPath turns the run manifest off.
	ManifestDisabled = "-"
)

// ApplyDefaults fills every field still unset after flags, env and config
// file have been applied.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.IndexPath == "" {
		cfg.IndexPath = DefaultIndexPath
	}
	if cfg.SrcDir == "" {
		cfg.SrcDir = DefaultSrcDir
	}
	if cfg.OutDir == "" {
		cfg.OutDir = DefaultOutDir
	}
	if cfg.VariantMarker == "" {
		cfg.VariantMarker = DefaultVariantMarker
	}
	if cfg.Mode == "" {
		cfg.Mode = DefaultMode
	}
	if cfg.SampleSize == 0 {
		cfg.SampleSize = DefaultSampleSize
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConcurrency
	}
}
