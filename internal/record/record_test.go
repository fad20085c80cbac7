package record

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/gostrokes/internal/median"
)

func TestMarshal_SingleLine(t *testing.T) {
	r := &Record{
		Strokes: []string{"M0 0L10 10"},
		Medians: [][]median.Point{{{0, 0}, {10, 10}}},
	}
	b, err := Marshal(r)
	require.NoError(t, err)
	want := `{
  "strokes": [
    "M0 0L10 10"
  ],
  "medians": [
    [
      [
        0,
        0
      ],
      [
        10,
        10
      ]
    ]
  ],
  "radStrokes": []
}
`
	assert.Equal(t, want, string(b))

	var compact map[string]any
	require.NoError(t, json.Unmarshal(b, &compact))
	assert.Len(t, compact, 3)
}

func TestMarshal_EmptyCollectionsAreArrays(t *testing.T) {
	b, err := Marshal(&Record{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"strokes":[],"medians":[],"radStrokes":[]}`, string(b))
}

func TestMarshal_NoHTMLEscaping(t *testing.T) {
	b, err := Marshal(&Record{Strokes: []string{"M<0>&"}, Medians: [][]median.Point{median.EmptyPlaceholder}})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"M<0>&"`)
}

func TestMarshal_Deterministic(t *testing.T) {
	r := &Record{
		Strokes:    []string{"M0 0L1 1", "M2 2L3 3"},
		Medians:    [][]median.Point{{{0, 0}, {1, 1}}, {{2, 2}, {3, 3}}},
		RadStrokes: []int{1},
	}
	a, err := Marshal(r)
	require.NoError(t, err)
	b, err := Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestValidate(t *testing.T) {
	pts := []median.Point{{0, 0}, {1, 1}}
	var tts = []struct {
		name string
		r    Record
		ok   bool
	}{
		{"valid", Record{Strokes: []string{"a", "b"}, Medians: [][]median.Point{pts, pts}, RadStrokes: []int{0, 1}}, true},
		{"empty", Record{}, true},
		{"misaligned", Record{Strokes: []string{"a"}, Medians: nil}, false},
		{"short median", Record{Strokes: []string{"a"}, Medians: [][]median.Point{{{0, 0}}}}, false},
		{"out of range", Record{Strokes: []string{"a"}, Medians: [][]median.Point{pts}, RadStrokes: []int{1}}, false},
		{"negative", Record{Strokes: []string{"a"}, Medians: [][]median.Point{pts}, RadStrokes: []int{-1}}, false},
		{"repeated", Record{Strokes: []string{"a", "b"}, Medians: [][]median.Point{pts, pts}, RadStrokes: []int{1, 1}}, false},
	}
	for _, tt := range tts {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalid), "got %v", err)
		})
	}
}

func TestUnmarshal_RoundTripsAndValidates(t *testing.T) {
	r, err := Unmarshal([]byte(`{"strokes":["M0 0L1 1"],"medians":[[[0,0],[1,1]]],"radStrokes":[0]}`))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, r.RadStrokes)

	_, err = Unmarshal([]byte(`{"strokes":["M0 0L1 1"],"medians":[],"radStrokes":[]}`))
	assert.ErrorIs(t, err, ErrInvalid)
}
