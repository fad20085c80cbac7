// Command gostrokes converts KanjiVG-style stroke diagrams into JSON stroke
// records with sampled medians and radical stroke indices.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gostrokes/internal/app"
)

// CLI defines the command-line interface. Unset flags fall back to env,
// then the config file, then the defaults shown in the help.
type CLI struct {
	Index         string   `name:"index" help:"Glyph index JSON (default ${default_index})" type:"path"`
	Src           string   `name:"src" help:"Directory holding the source SVG documents (default ${default_src})" type:"path"`
	Out           string   `name:"out" help:"Output directory for records (default ${default_out})" type:"path"`
	Mode          string   `name:"mode" help:"Run policy: all, sample or confirm (default ${default_mode})"`
	Sample        int      `name:"sample" help:"Number of glyphs in the sample (default ${default_sample})"`
	Concurrency   int      `name:"concurrency" short:"j" help:"Documents converted in parallel (default 1)"`
	VariantMarker string   `name:"variant-marker" help:"Filename substring marking the stylistic variant (default ${default_marker})"`
	VariantSuffix string   `name:"variant-suffix" help:"Output name suffix for variant records (defaults to the marker)"`
	Config        string   `name:"config" help:"YAML or JSON config file" type:"path"`
	EnvFile       []string `name:"env-file" help:"Dotenv files to load (default .env)"`
	Manifest      string   `name:"manifest" help:"Run manifest path; '-' disables (default <out>.manifest.json)"`
	StrictPerms   bool     `name:"strict-perms" help:"Restrict output permissions (0700 dirs, 0600 files)"`
	Clear         bool     `name:"clear" help:"Empty the output directory before the run"`
	DryRun        bool     `name:"dry-run" help:"Plan and log items without writing anything"`
	Verbose       bool     `name:"verbose" short:"v" help:"Verbose logging"`

	Version kong.VersionFlag `name:"version" help:"Print version information"`
}

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cli, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "gostrokes:", err)
		os.Exit(1)
	}
	cfg, err := buildConfig(cli)
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}

	err = run(cfg)
	if err != nil {
		log.Error().Err(err).Msg("run failed")
	}
	os.Exit(exitCode(err))
}

func parseArgs(args []string) (CLI, error) {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("gostrokes"),
		kong.Description("Convert stroke-diagram SVG documents into JSON stroke records."),
		kong.Vars{
			"version":        app.BuildVersion,
			"default_index":  app.DefaultIndexPath,
			"default_src":    app.DefaultSrcDir,
			"default_out":    app.DefaultOutDir,
			"default_mode":   string(app.DefaultMode),
			"default_sample": fmt.Sprint(app.DefaultSampleSize),
			"default_marker": app.DefaultVariantMarker,
		},
	)
	if err != nil {
		return cli, err
	}
	_, err = parser.Parse(args)
	return cli, err
}

// buildConfig layers flags over env (including dotenv files) over the config
// file over defaults, then validates.
func buildConfig(cli CLI) (app.Config, error) {
	cfg := app.Config{
		IndexPath:     cli.Index,
		SrcDir:        cli.Src,
		OutDir:        cli.Out,
		ManifestPath:  cli.Manifest,
		StrictPerms:   cli.StrictPerms,
		Clear:         cli.Clear,
		VariantMarker: cli.VariantMarker,
		VariantSuffix: cli.VariantSuffix,
		Mode:          app.Mode(strings.ToLower(strings.TrimSpace(cli.Mode))),
		SampleSize:    cli.Sample,
		Concurrency:   cli.Concurrency,
		DryRun:        cli.DryRun,
		Verbose:       cli.Verbose,
	}
	envFiles := cli.EnvFile
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := app.LoadEnvFiles(envFiles...); err != nil {
		return cfg, fmt.Errorf("load env files: %w", err)
	}
	app.ApplyEnvToConfig(&cfg)

	cfgPath := strings.TrimSpace(cli.Config)
	if cfgPath == "" {
		cfgPath = strings.TrimSpace(os.Getenv(app.EnvConfig))
	}
	if cfgPath != "" {
		fc, err := app.LoadConfigFile(cfgPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyDefaults(&cfg)
	return cfg, app.ValidateConfig(cfg)
}

func run(cfg app.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	_, err = a.Run(ctx)
	return err
}

// exitCode maps run errors: 2 when items were planned but no record was
// produced, 1 for any other failure.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, app.ErrNoRecords):
		return 2
	default:
		return 1
	}
}
