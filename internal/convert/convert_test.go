package convert

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/gostrokes/internal/extract"
	"github.com/hyperifyio/gostrokes/internal/median"
	"github.com/hyperifyio/gostrokes/internal/record"
	"github.com/hyperifyio/gostrokes/internal/svgdoc"
)

const glyph = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:kvg="http://kanjivg.tagaini.net" width="109" height="109">
<g id="kvg:StrokePaths_04e0b" style="fill:none;stroke:#000000;stroke-width:3">
<g id="kvg:04e0b" kvg:element="下">
	<path id="kvg:04e0b-s1" kvg:type="㇐" d="M13.25,24.25c2.78,0.76,6.47,0.85,9.5,0.6"/>
	<g id="kvg:04e0b-g1" kvg:element="rad-top">
		<path id="kvg:04e0b-s2" kvg:type="㇑" d="M52.5,23.5c1,1,1.5,3,1.5,5c0,10-0.25,50-0.25,60"/>
		<path id="kvg:04e0b-s3" kvg:type="㇔" d="M57.75,42.5c4,2,9.5,6.5,11.5,10"/>
	</g>
</g>
</g>
</svg>`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestConvert_SingleLine(t *testing.T) {
	doc, err := svgdoc.Parse("a.svg", []byte(`<svg><path d="M0 0L10 10"/></svg>`))
	require.NoError(t, err)
	res, err := Converter{}.Convert(doc)
	require.NoError(t, err)
	b, err := record.Marshal(res.Record)
	require.NoError(t, err)
	assert.JSONEq(t, `{"strokes": ["M0 0L10 10"], "medians": [[[0,0],[10,10]]], "radStrokes": []}`, string(b))
	assert.Equal(t, "text-scan", res.Strategy)
	assert.Equal(t, "", res.Radical)
}

func TestConvertFile_RadicalGroup(t *testing.T) {
	p := writeFile(t, "04e0b.svg", glyph)
	res, err := Converter{}.ConvertFile(p)
	require.NoError(t, err)
	rec := res.Record
	require.Len(t, rec.Strokes, 3)
	assert.Len(t, rec.Medians, 3)
	assert.Equal(t, []int{1, 2}, rec.RadStrokes)
	assert.Equal(t, "group-element", res.Radical)
	assert.Equal(t, 0, res.Placeholders)
	for _, m := range rec.Medians {
		assert.GreaterOrEqual(t, len(m), median.MinPoints)
		assert.LessOrEqual(t, len(m), median.MaxPoints)
	}
}

func TestConvertFile_Deterministic(t *testing.T) {
	p := writeFile(t, "04e0b.svg", glyph)
	a, err := Converter{}.ConvertFile(p)
	require.NoError(t, err)
	b, err := Converter{}.ConvertFile(p)
	require.NoError(t, err)
	ab, err := record.Marshal(a.Record)
	require.NoError(t, err)
	bb, err := record.Marshal(b.Record)
	require.NoError(t, err)
	assert.Equal(t, ab, bb)
}

func TestConvert_PlaceholdersKeepAlignment(t *testing.T) {
	doc, err := svgdoc.Parse("p.svg", []byte(`<svg><path d="M0 0L10 10"/><path d="bogus"/><path d="M5 5"/></svg>`))
	require.NoError(t, err)
	res, err := Converter{}.Convert(doc)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Placeholders)
	assert.Equal(t, [][]median.Point{
		{{0, 0}, {10, 10}},
		median.InvalidPlaceholder,
		median.EmptyPlaceholder,
	}, res.Record.Medians)
}

func TestConvert_EncodedPathData(t *testing.T) {
	doc, err := svgdoc.Parse("n.svg", []byte(`<svg><path d="M0 0&#10;L20 20"/></svg>`))
	require.NoError(t, err)
	res, err := Converter{}.Convert(doc)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Placeholders)
	assert.Equal(t, [][]median.Point{{{0, 0}, {20, 20}}}, res.Record.Medians)
}

func TestConvert_NoStrokes(t *testing.T) {
	doc, err := svgdoc.Parse("e.svg", []byte(`<svg><g/></svg>`))
	require.NoError(t, err)
	_, err = Converter{}.Convert(doc)
	assert.True(t, errors.Is(err, extract.ErrNoStrokes))
}

func TestConvertFile_Missing(t *testing.T) {
	_, err := Converter{}.ConvertFile(filepath.Join(t.TempDir(), "missing.svg"))
	assert.True(t, errors.Is(err, svgdoc.ErrUnreadable))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestConvert_CustomChain(t *testing.T) {
	doc, err := svgdoc.Parse("s.svg", []byte(`<svg><path d="M0 0L1 1"/><stroke d="M2 2L3 3"/></svg>`))
	require.NoError(t, err)
	res, err := Converter{Extract: extract.Chain{extract.TreeQuery{}}}.Convert(doc)
	require.NoError(t, err)
	assert.Equal(t, "tree-query", res.Strategy)
	assert.Equal(t, []string{"M0 0L1 1", "M2 2L3 3"}, res.Record.Strokes)
}
