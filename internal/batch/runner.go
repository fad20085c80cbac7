package batch

import (
	"context"
	"errors"
	"io/fs"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/gostrokes/internal/convert"
	"github.com/hyperifyio/gostrokes/internal/extract"
	"github.com/hyperifyio/gostrokes/internal/record"
)

// Converter converts one source document.
type Converter interface {
	ConvertFile(path string) (convert.Result, error)
}

// Sink stores an encoded record under an output name and returns its path.
type Sink interface {
	Write(name string, data []byte) (string, error)
}

// DefaultProgressEvery is the number of records between progress log lines.
const DefaultProgressEvery = 100

// Runner processes items. Distinct items never share an output name, so
// they may run in parallel.
type Runner struct {
	Converter Converter
	Out       Sink
	// Concurrency bounds parallel items; values below 1 mean 1.
	Concurrency int
	// ProgressEvery logs a progress line each time that many records have
	// been written; 0 selects DefaultProgressEvery, negative disables.
	ProgressEvery int

	done atomic.Int64
}

// Run processes items and returns outcomes index-aligned with items. Once
// ctx is done the items not yet started are marked StatusCanceled.
func (r *Runner) Run(ctx context.Context, items []Item) []Outcome {
	outcomes := make([]Outcome, len(items))
	limit := r.Concurrency
	if limit < 1 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, it := range items {
		if gctx.Err() != nil {
			outcomes[i] = Outcome{Item: it, Status: StatusCanceled, Err: gctx.Err()}
			continue
		}
		g.Go(func() error {
			outcomes[i] = r.runOne(gctx, it)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (r *Runner) runOne(ctx context.Context, it Item) Outcome {
	if err := ctx.Err(); err != nil {
		return Outcome{Item: it, Status: StatusCanceled, Err: err}
	}
	res, err := r.Converter.ConvertFile(it.Src)
	if err != nil {
		o := Outcome{Item: it, Status: classify(err), Err: err}
		log.Warn().Err(err).Str("key", it.Key).Str("kind", string(it.Kind)).Str("src", it.Src).Str("status", string(o.Status)).Msg("item skipped")
		return o
	}
	data, err := record.Marshal(res.Record)
	if err != nil {
		log.Warn().Err(err).Str("key", it.Key).Str("kind", string(it.Kind)).Str("src", it.Src).Msg("encode failed")
		return Outcome{Item: it, Status: StatusWriteFailed, Err: err}
	}
	path, err := r.Out.Write(it.Out, data)
	if err != nil {
		log.Warn().Err(err).Str("key", it.Key).Str("kind", string(it.Kind)).Str("out", it.Out).Msg("write failed")
		return Outcome{Item: it, Status: StatusWriteFailed, Err: err}
	}
	log.Debug().Str("key", it.Key).Str("kind", string(it.Kind)).Str("out", path).Msg("converted")
	r.progress()
	return Outcome{
		Item:         it,
		Status:       StatusConverted,
		Path:         path,
		Strokes:      len(res.Record.Strokes),
		RadStrokes:   len(res.Record.RadStrokes),
		Placeholders: res.Placeholders,
		Digest:       DigestOf(data),
	}
}

func (r *Runner) progress() {
	every := r.ProgressEvery
	if every == 0 {
		every = DefaultProgressEvery
	}
	n := r.done.Add(1)
	if every > 0 && n%int64(every) == 0 {
		log.Info().Int64("records", n).Msg("progress")
	}
}

func classify(err error) Status {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return StatusMissing
	case errors.Is(err, extract.ErrNoStrokes):
		return StatusNoStrokes
	default:
		return StatusUnreadable
	}
}
