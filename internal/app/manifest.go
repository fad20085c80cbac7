package app

import (
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/hyperifyio/gostrokes/internal/batch"
	"github.com/hyperifyio/gostrokes/internal/output"
)

// manifestEntry is a compact record of a single written record.
type manifestEntry struct {
	Key          string     `json:"key"`
	Kind         batch.Kind `json:"kind"`
	Src          string     `json:"src"`
	Out          string     `json:"out"`
	Strokes      int        `json:"strokes"`
	RadStrokes   int        `json:"rad_strokes"`
	Placeholders int        `json:"placeholders"`
	Size         int        `json:"size"`
	SHA256       string     `json:"sha256"`
	BLAKE3       string     `json:"blake3"`
}

// manifestMeta captures high-level run details that aid reproducibility.
type manifestMeta struct {
	Version     string    `json:"version"`
	Commit      string    `json:"commit"`
	BuildDate   string    `json:"build_date"`
	Index       string    `json:"index"`
	SrcDir      string    `json:"src_dir"`
	OutDir      string    `json:"out_dir"`
	Mode        Mode      `json:"mode"`
	GeneratedAt time.Time `json:"generated_at"`
}

// buildManifestEntries lists the converted outcomes in run order.
func buildManifestEntries(outcomes []batch.Outcome) []manifestEntry {
	out := make([]manifestEntry, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.OK() {
			continue
		}
		out = append(out, manifestEntry{
			Key:          o.Item.Key,
			Kind:         o.Item.Kind,
			Src:          o.Item.Src,
			Out:          o.Item.Out,
			Strokes:      o.Strokes,
			RadStrokes:   o.RadStrokes,
			Placeholders: o.Placeholders,
			Size:         o.Digest.Size,
			SHA256:       o.Digest.SHA256,
			BLAKE3:       o.Digest.BLAKE3,
		})
	}
	return out
}

// marshalManifestJSON encodes a machine-readable sidecar manifest.
func marshalManifestJSON(meta manifestMeta, entries []manifestEntry, summary batch.Summary) ([]byte, error) {
	payload := struct {
		Meta    manifestMeta    `json:"meta"`
		Records []manifestEntry `json:"records"`
		Summary batch.Summary   `json:"summary"`
	}{Meta: meta, Records: entries, Summary: summary}
	return json.MarshalIndent(payload, "", "  ")
}

// deriveManifestSidecarPath returns a sidecar JSON path next to the output
// directory, so record consumers never see it among the records.
func deriveManifestSidecarPath(outDir string) string {
	return filepath.Clean(outDir) + ".manifest.json"
}

// writeManifest stores the manifest atomically. The parent directory keeps
// its permissions.
func writeManifest(path string, data []byte) (string, error) {
	w := &output.Writer{Dir: filepath.Dir(path)}
	return w.Write(filepath.Base(path), data)
}
