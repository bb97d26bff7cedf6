package batch_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armor-geometry-tools/internal/batch"
	"armor-geometry-tools/internal/geometry"
)

func writeArmorFile(t *testing.T, dir, name, doc string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	return path
}

func TestRunConvertsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeArmorFile(t, dir, "hull.json",
		`{"armor": {"1": [[[0,0,0],[1,0,0],[0,1,0]]]}}`)
	writeArmorFile(t, dir, "turret.json",
		`{"armor": {}}`)
	writeArmorFile(t, dir, "broken.json",
		`{"armor": {"bow": []}}`)

	files, err := batch.ListInputs(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)

	results := batch.Run(batch.Config{Workers: 2, WriteMeta: true}, files)
	require.Len(t, results, 3)

	byInput := map[string]batch.Result{}
	for _, r := range results {
		byInput[filepath.Base(r.Input)] = r
	}

	assert.False(t, byInput["broken.json"].Success)
	assert.NotEmpty(t, byInput["broken.json"].Error)

	hull := byInput["hull.json"]
	require.True(t, hull.Success, hull.Error)
	assert.Equal(t, 1, hull.Pieces)
	assert.Equal(t, 3, hull.Vertices)
	assert.Equal(t, uint32(120), hull.Size)

	// The .geometry file decodes back to the same shape.
	data, err := os.ReadFile(hull.Output)
	require.NoError(t, err)
	rec, meta, err := geometry.Decode(data)
	require.NoError(t, err)
	assert.Len(t, rec.Pieces, 1)
	assert.Equal(t, hull.Hash, meta.HashHex())

	turret := byInput["turret.json"]
	require.True(t, turret.Success, turret.Error)
	assert.Equal(t, uint32(0), turret.Size)
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", turret.Hash)

	// WriteMeta rewrote the inputs with a metadata member.
	var doc struct {
		Metadata *struct {
			Size uint32 `json:"size"`
			Hash string `json:"hash"`
		} `json:"metadata"`
	}
	raw, err := os.ReadFile(filepath.Join(dir, "hull.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.NotNil(t, doc.Metadata)
	assert.Equal(t, hull.Hash, doc.Metadata.Hash)
}

func TestWriteManifestSkipsFailures(t *testing.T) {
	dir := t.TempDir()
	results := []batch.Result{
		{Input: "a.json", Output: "a.geometry", Pieces: 2, Vertices: 12,
			Size: 300, Hash: "ab", Success: true},
		{Input: "b.json", Error: "no armor object"},
	}

	path := filepath.Join(dir, "manifest.json")
	require.NoError(t, batch.WriteManifest(path, results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []batch.ManifestEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "a.json", entries[0].Input)
	assert.Equal(t, uint32(300), entries[0].Size)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("in", "hull.geometry"),
		batch.OutputPath("", filepath.Join("in", "hull.json")))
	assert.Equal(t, filepath.Join("out", "hull.geometry"),
		batch.OutputPath("out", filepath.Join("in", "hull.json")))
}
