package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hyperifyio/gostrokes/internal/batch"
	"github.com/hyperifyio/gostrokes/internal/glyphindex"
)

// Mode selects how much of the index a run converts.
type Mode string

const (
	// ModeAll converts every glyph.
	ModeAll Mode = "all"
	// ModeSample converts only the first SampleSize glyphs.
	ModeSample Mode = "sample"
	// ModeConfirm converts the sample, reports it and asks before converting
	// the rest.
	ModeConfirm Mode = "confirm"

	DefaultMode = ModeConfirm
)

// ParseMode validates a mode name. The empty string selects ModeAll.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAll, nil
	case ModeAll, ModeSample, ModeConfirm:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want all, sample or confirm)", s)
	}
}

// Confirmer decides whether to continue after the sample.
type Confirmer interface {
	Confirm(sample batch.Summary, remaining int) (bool, error)
}

// PromptConfirmer asks on Out and reads the answer from In. Only "y" or "yes"
// continues; end of input declines.
type PromptConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func (p PromptConfirmer) Confirm(sample batch.Summary, remaining int) (bool, error) {
	fmt.Fprintf(p.Out, "Sample: %d standard, %d variant, %d errors.\n", sample.Standard, sample.Variant, sample.Errors)
	fmt.Fprintf(p.Out, "Convert the remaining %d items? (y/n): ", remaining)
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Gate applies the run policy around the conversion core.
type Gate struct {
	Mode       Mode
	SampleSize int
	Confirmer  Confirmer
}

// Stages splits the index into the part converted up front and the part
// converted only after confirmation.
func (g Gate) Stages(ix *glyphindex.Index) (first, rest *glyphindex.Index) {
	n := g.SampleSize
	if n <= 0 {
		n = DefaultSampleSize
	}
	switch g.Mode {
	case ModeSample:
		return ix.Head(n), &glyphindex.Index{}
	case ModeConfirm:
		return ix.Head(n), ix.Tail(n)
	default:
		return ix, &glyphindex.Index{}
	}
}

// Run converts according to the policy. plan turns an index into items; run
// converts items. Declining the confirmation is not an error.
func (g Gate) Run(ctx context.Context, ix *glyphindex.Index, plan func(*glyphindex.Index) []batch.Item, run func(context.Context, []batch.Item) []batch.Outcome) ([]batch.Outcome, error) {
	first, rest := g.Stages(ix)
	outcomes := run(ctx, plan(first))
	restItems := plan(rest)
	if len(restItems) == 0 {
		return outcomes, nil
	}
	if g.Confirmer == nil {
		return outcomes, errors.New("confirm mode without a confirmer")
	}
	ok, err := g.Confirmer.Confirm(batch.Fold(outcomes), len(restItems))
	if err != nil {
		return outcomes, fmt.Errorf("confirm: %w", err)
	}
	if !ok {
		return outcomes, nil
	}
	return append(outcomes, run(ctx, restItems)...), nil
}
