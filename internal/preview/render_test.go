package preview_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armor-geometry-tools/internal/geometry"
	"armor-geometry-tools/internal/preview"
)

func boxRecord() geometry.Record {
	// Two pieces forming a flat quad and a raised face.
	return geometry.Record{Pieces: []geometry.Piece{
		{ID: 1, Triangles: []geometry.Triangle{
			{{0, 0, 0}, {10, 0, 0}, {0, 0, 10}},
			{{10, 0, 0}, {10, 0, 10}, {0, 0, 10}},
		}},
		{ID: 2, Triangles: []geometry.Triangle{
			{{0, 0, 0}, {10, 0, 0}, {5, 8, 5}},
		}},
	}}
}

func TestRenderProducesPixels(t *testing.T) {
	img := preview.Render(boxRecord(), 64, 2)

	require.Equal(t, 64, img.Bounds().Dx())
	require.Equal(t, 64, img.Bounds().Dy())

	opaque := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			opaque++
		}
	}
	assert.Greater(t, opaque, 0, "render should cover some pixels")
	assert.Less(t, opaque, 64*64, "background should stay transparent")
}

func TestRenderEmptyRecord(t *testing.T) {
	img := preview.Render(geometry.Record{}, 32, 1)
	require.Equal(t, 32, img.Bounds().Dx())
	for i := 3; i < len(img.Pix); i += 4 {
		require.Zero(t, img.Pix[i], "empty record must render fully transparent")
	}
}

func TestWriteFileFormats(t *testing.T) {
	img := preview.Render(boxRecord(), 16, 1)
	dir := t.TempDir()

	assert.NoError(t, preview.WriteFile(filepath.Join(dir, "a.webp"), img, "webp"))
	assert.NoError(t, preview.WriteFile(filepath.Join(dir, "a.tga"), img, "tga"))
	assert.Error(t, preview.WriteFile(filepath.Join(dir, "a.png"), img, "png"))
}
