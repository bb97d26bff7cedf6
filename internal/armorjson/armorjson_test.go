package armorjson_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armor-geometry-tools/internal/armorjson"
	"armor-geometry-tools/internal/geometry"
)

const sampleDoc = `{
	"armor": {
		"65774": [
			[[12.5, -3.0, 0.75], [13.0, -3.0, 0.75], [12.5, -2.0, 0.75]]
		],
		"3": [
			[[0, 0, 0], [0, 0, 1], [0, 1, 0]],
			[[9, 9, 9], [9, 9, 8], [9, 8, 9]]
		],
		"1": []
	}
}`

func TestParsePreservesKeyOrder(t *testing.T) {
	rec, err := armorjson.Parse([]byte(sampleDoc))
	require.NoError(t, err)

	require.Len(t, rec.Pieces, 3)
	// Key order, not numeric order.
	assert.Equal(t, uint64(65774), rec.Pieces[0].ID)
	assert.Equal(t, uint64(3), rec.Pieces[1].ID)
	assert.Equal(t, uint64(1), rec.Pieces[2].ID)

	assert.Len(t, rec.Pieces[1].Triangles, 2)
	assert.Equal(t, geometry.Vertex{12.5, -3, 0.75}, rec.Pieces[0].Triangles[0][0])
	assert.Empty(t, rec.Pieces[2].Triangles)
}

func TestParseIgnoresMetadata(t *testing.T) {
	doc := `{"metadata": {"size": 99, "hash": "junk"}, "armor": {"7": []}}`
	rec, err := armorjson.Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, rec.Pieces, 1)
	assert.Equal(t, uint64(7), rec.Pieces[0].ID)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"no armor object": `{"metadata": {}}`,
		"non-numeric id":  `{"armor": {"bow": []}}`,
		"negative id":     `{"armor": {"-1": []}}`,
		"short triangle":  `{"armor": {"1": [[[0,0,0],[1,1,1]]]}}`,
		"short vertex":    `{"armor": {"1": [[[0,0],[1,1,1],[2,2,2]]]}}`,
		"not an object":   `[1, 2, 3]`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := armorjson.Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	rec, err := armorjson.Parse([]byte(sampleDoc))
	require.NoError(t, err)

	_, meta, err := geometry.Encode(rec)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ship.json")
	require.NoError(t, armorjson.Save(path, rec, meta))

	again, err := armorjson.Load(path)
	require.NoError(t, err)
	require.Len(t, again.Pieces, len(rec.Pieces))
	for i := range rec.Pieces {
		assert.Equal(t, rec.Pieces[i].ID, again.Pieces[i].ID)
		assert.Equal(t, len(rec.Pieces[i].Triangles), len(again.Pieces[i].Triangles))
	}

	// Metadata member is present and well-formed in the written file.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		Metadata struct {
			Size uint32 `json:"size"`
			Hash string `json:"hash"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, meta.Size, doc.Metadata.Size)
	assert.Equal(t, meta.HashHex(), doc.Metadata.Hash)
}
