// Package app wires configuration, the gate policy, the batch runner and the
// run manifest into one conversion run.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gostrokes/internal/batch"
	"github.com/hyperifyio/gostrokes/internal/convert"
	"github.com/hyperifyio/gostrokes/internal/glyphindex"
	"github.com/hyperifyio/gostrokes/internal/output"
)

// ErrIndexUnreadable is returned when the glyph index cannot be loaded. No
// item work has started when it is returned.
var ErrIndexUnreadable = errors.New("glyph index unreadable")

// ErrNoRecords is returned when items were planned but none produced a
// record. The CLI exits 2 on it.
var ErrNoRecords = errors.New("no records produced")

type App struct {
	cfg    Config
	gate   Gate
	writer *output.Writer
}

// New validates cfg and prepares a run.
func New(_ context.Context, cfg Config) (*App, error) {
	mode, err := ParseMode(string(cfg.Mode))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Mode = mode
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	in, out := cfg.ConfirmIn, cfg.ConfirmOut
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	return &App{
		cfg: cfg,
		gate: Gate{
			Mode:       mode,
			SampleSize: cfg.SampleSize,
			Confirmer:  PromptConfirmer{In: in, Out: out},
		},
		writer: &output.Writer{Dir: cfg.OutDir, StrictPerms: cfg.StrictPerms},
	}, nil
}

// Run executes the conversion and returns the folded summary.
func (a *App) Run(ctx context.Context) (batch.Summary, error) {
	start := time.Now()
	ix, err := glyphindex.Load(a.cfg.IndexPath)
	if err != nil {
		return batch.Summary{}, fmt.Errorf("%w: %w", ErrIndexUnreadable, err)
	}
	log.Info().Str("index", a.cfg.IndexPath).Int("glyphs", ix.Len()).Str("mode", string(a.cfg.Mode)).Msg("index loaded")

	opts := batch.Options{SrcDir: a.cfg.SrcDir, Marker: a.cfg.VariantMarker, Suffix: a.cfg.VariantSuffix}
	plan := func(ix *glyphindex.Index) []batch.Item { return batch.Plan(ix, opts) }

	if a.cfg.DryRun {
		return a.dryRun(ix, plan), nil
	}

	if a.cfg.Clear {
		if err := output.ClearDir(a.cfg.OutDir); err != nil {
			return batch.Summary{}, fmt.Errorf("clear output: %w", err)
		}
	}
	if n, err := output.PurgeTemp(a.cfg.OutDir); err != nil {
		log.Warn().Err(err).Str("dir", a.cfg.OutDir).Msg("temp purge failed; continuing")
	} else if n > 0 {
		log.Info().Int("removed", n).Msg("stale temp files removed")
	}

	runner := &batch.Runner{
		Converter:   convert.Converter{},
		Out:         a.writer,
		Concurrency: a.cfg.Concurrency,
	}
	outcomes, gateErr := a.gate.Run(ctx, ix, plan, runner.Run)
	summary := batch.Fold(outcomes)
	log.Info().
		Int("standard", summary.Standard).
		Int("variant", summary.Variant).
		Int("errors", summary.Errors).
		Dur("elapsed", time.Since(start)).
		Msg("conversion finished")
	for _, f := range summary.Failed {
		log.Debug().Str("key", f.Key).Str("kind", string(f.Kind)).Str("status", string(f.Status)).Str("src", f.Src).Msg("failed item")
	}

	if err := a.writeManifest(outcomes, summary); err != nil {
		log.Warn().Err(err).Msg("manifest write failed")
	}
	if gateErr != nil {
		return summary, gateErr
	}
	if summary.Planned > 0 && summary.Produced() == 0 {
		return summary, ErrNoRecords
	}
	return summary, nil
}

func (a *App) dryRun(ix *glyphindex.Index, plan func(*glyphindex.Index) []batch.Item) batch.Summary {
	first, rest := a.gate.Stages(ix)
	items := plan(first)
	for _, it := range items {
		_, err := os.Stat(it.Src)
		log.Info().Str("key", it.Key).Str("kind", string(it.Kind)).Str("src", it.Src).Str("out", a.writer.Path(it.Out)).Bool("exists", err == nil).Msg("planned")
	}
	if n := len(plan(rest)); n > 0 {
		log.Info().Int("items", n).Msg("further items after confirmation")
	}
	return batch.Summary{Planned: len(items), ByStatus: map[batch.Status]int{}, Failed: []batch.Failure{}}
}

func (a *App) writeManifest(outcomes []batch.Outcome, summary batch.Summary) error {
	path := a.cfg.ManifestPath
	if path == ManifestDisabled {
		return nil
	}
	if path == "" {
		path = deriveManifestSidecarPath(a.cfg.OutDir)
	}
	meta := manifestMeta{
		Version:     BuildVersion,
		Commit:      BuildCommit,
		BuildDate:   BuildDate,
		Index:       a.cfg.IndexPath,
		SrcDir:      a.cfg.SrcDir,
		OutDir:      a.cfg.OutDir,
		Mode:        a.cfg.Mode,
		GeneratedAt: time.Now().UTC(),
	}
	data, err := marshalManifestJSON(meta, buildManifestEntries(outcomes), summary)
	if err != nil {
		return err
	}
	p, err := writeManifest(path, data)
	if err != nil {
		return err
	}
	log.Info().Str("path", p).Msg("manifest written")
	return nil
}
