package app

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables read by ApplyEnvToConfig.
const (
	EnvIndex         = "GOSTROKES_INDEX"
	EnvSrc           = "GOSTROKES_SRC"
	EnvOut           = "GOSTROKES_OUT"
	EnvManifest      = "GOSTROKES_MANIFEST"
	EnvMode          = "GOSTROKES_MODE"
	EnvSample        = "GOSTROKES_SAMPLE"
	EnvConcurrency   = "GOSTROKES_CONCURRENCY"
	EnvVariantMarker = "GOSTROKES_VARIANT_MARKER"
	EnvVariantSuffix = "GOSTROKES_VARIANT_SUFFIX"
	EnvStrictPerms   = "GOSTROKES_STRICT_PERMS"
	EnvClear         = "GOSTROKES_CLEAR"
	EnvDryRun        = "GOSTROKES_DRY_RUN"
	EnvVerbose       = "GOSTROKES_VERBOSE"
	// EnvConfig names a config file; read by the CLI.
	EnvConfig = "GOSTROKES_CONFIG"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, envKey string) {
		if *dst == "" {
			*dst = strings.TrimSpace(os.Getenv(envKey))
		}
	}
	setString(&cfg.IndexPath, EnvIndex)
	setString(&cfg.SrcDir, EnvSrc)
	setString(&cfg.OutDir, EnvOut)
	setString(&cfg.ManifestPath, EnvManifest)
	setString(&cfg.VariantMarker, EnvVariantMarker)
	setString(&cfg.VariantSuffix, EnvVariantSuffix)
	if cfg.Mode == "" {
		cfg.Mode = Mode(strings.ToLower(strings.TrimSpace(os.Getenv(EnvMode))))
	}

	setInt := func(dst *int, envKey string) {
		if *dst != 0 {
			return
		}
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(envKey))); err == nil && n > 0 {
			*dst = n
		}
	}
	setInt(&cfg.SampleSize, EnvSample)
	setInt(&cfg.Concurrency, EnvConcurrency)

	// Booleans
	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			if s == "1" || s == "true" || s == "yes" || s == "on" {
				*dst = true
			}
		}
	}
	setBool(&cfg.StrictPerms, EnvStrictPerms)
	setBool(&cfg.Clear, EnvClear)
	setBool(&cfg.DryRun, EnvDryRun)
	setBool(&cfg.Verbose, EnvVerbose)
}
