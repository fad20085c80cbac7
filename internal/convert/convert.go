// Package convert turns one glyph document into a stroke record.
package convert

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gostrokes/internal/extract"
	"github.com/hyperifyio/gostrokes/internal/median"
	"github.com/hyperifyio/gostrokes/internal/radical"
	"github.com/hyperifyio/gostrokes/internal/record"
	"github.com/hyperifyio/gostrokes/internal/svgdoc"
)

// Converter holds the strategy chains. The zero value uses the default
// chains.
type Converter struct {
	Extract extract.Chain
	Radical radical.Chain
}

// Result is a converted record plus what produced it.
type Result struct {
	Record *record.Record
	// Strategy names the extraction strategy that found the strokes.
	Strategy string
	// Radical names the radical strategy that matched, empty when none did.
	Radical string
	// Placeholders counts strokes whose medians are placeholders.
	Placeholders int
}

// ConvertFile loads the document at path and converts it. Errors wrap
// svgdoc.ErrUnreadable or extract.ErrNoStrokes.
func (c Converter) ConvertFile(path string) (Result, error) {
	doc, err := svgdoc.Load(path)
	if err != nil {
		return Result{}, err
	}
	return c.Convert(doc)
}

// Convert builds the record for doc.
func (c Converter) Convert(doc *svgdoc.Document) (Result, error) {
	ex := c.Extract
	if len(ex) == 0 {
		ex = extract.DefaultChain
	}
	rc := c.Radical
	if len(rc) == 0 {
		rc = radical.DefaultChain
	}

	res, err := ex.Extract(doc)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", doc.Name, err)
	}
	log.Debug().Str("doc", doc.Name).Str("strategy", res.Strategy).Int("strokes", len(res.Strokes)).Msg("strokes extracted")

	out := Result{Strategy: res.Strategy}
	rec := &record.Record{
		Strokes: res.Data(),
		Medians: make([][]median.Point, len(res.Strokes)),
	}
	for i, s := range res.Strokes {
		pts, err := median.SampleErr(s.Data)
		if err != nil {
			out.Placeholders++
			log.Debug().Str("doc", doc.Name).Int("stroke", i).Err(err).Msg("median placeholder")
		}
		rec.Medians[i] = pts
	}
	rec.RadStrokes, out.Radical = rc.Classify(doc, res)
	if out.Radical != "" {
		log.Debug().Str("doc", doc.Name).Str("strategy", out.Radical).Ints("radStrokes", rec.RadStrokes).Msg("radical matched")
	}
	if err := rec.Validate(); err != nil {
		return Result{}, fmt.Errorf("%s: %w", doc.Name, err)
	}
	out.Record = rec
	return out, nil
}
