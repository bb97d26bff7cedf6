// Package preview renders armor records to images for quick visual checks:
// orthographic flat-shaded rasterization of every piece, one color per
// piece id, on a transparent background.
package preview

import (
	"image"

	"github.com/chewxy/math32"

	"armor-geometry-tools/internal/geometry"
)

// Fixed 3/4 view: yaw then pitch, in radians.
const (
	viewYaw   = -35 * math32.Pi / 180
	viewPitch = 25 * math32.Pi / 180
	margin    = 0.05
)

var lightDir = normalize(vec3{0.3, -0.6, -0.75})

// Render rasterizes rec into a size×size NRGBA image. Work happens at
// size*supersample and is downsampled at the end.
func Render(rec geometry.Record, size, supersample int) *image.NRGBA {
	if supersample < 1 {
		supersample = 1
	}
	dim := size * supersample

	fb := newFrameBuffer(dim, dim)

	verts, pieceSpans := rotateAll(rec)
	if len(verts) > 0 {
		px, py, depth := project(verts, dim)
		for _, span := range pieceSpans {
			r, g, b := pieceColor(span.id)
			for i := span.start; i+2 < span.end; i += 3 {
				fb.triangle(px, py, depth, verts, i, r, g, b)
			}
		}
	}

	img := fb.toNRGBA()
	if supersample > 1 {
		img = downsample(img, size)
	}
	return img
}

// span marks one piece's vertex range in the flattened rotated stream.
type span struct {
	id         uint64
	start, end int
}

// rotateAll flattens every piece into one rotated vertex stream and
// remembers which range belongs to which piece.
func rotateAll(rec geometry.Record) ([]vec3, []span) {
	total := rec.VertexCount()
	verts := make([]vec3, 0, total)
	spans := make([]span, 0, len(rec.Pieces))

	sy, cy := math32.Sincos(viewYaw)
	sp, cp := math32.Sincos(viewPitch)

	for _, p := range rec.Pieces {
		s := span{id: p.ID, start: len(verts)}
		for _, tri := range p.Triangles {
			for _, v := range tri {
				// Yaw about Y, then pitch about X.
				x := cy*v[0] + sy*v[2]
				z := -sy*v[0] + cy*v[2]
				y := cp*v[1] - sp*z
				z = sp*v[1] + cp*z
				verts = append(verts, vec3{x, y, z})
			}
		}
		s.end = len(verts)
		spans = append(spans, s)
	}
	return verts, spans
}

// project maps rotated vertices into pixel coordinates, centered and
// scaled to fit with a margin. Z stays as depth.
func project(verts []vec3, dim int) (px, py, depth []float32) {
	minX, maxX := math32.Inf(1), math32.Inf(-1)
	minY, maxY := math32.Inf(1), math32.Inf(-1)
	for _, v := range verts {
		minX = math32.Min(minX, v[0])
		maxX = math32.Max(maxX, v[0])
		minY = math32.Min(minY, v[1])
		maxY = math32.Max(maxY, v[1])
	}

	extent := math32.Max(maxX-minX, maxY-minY)
	if extent <= 0 || math32.IsInf(extent, 0) || math32.IsNaN(extent) {
		extent = 1
	}
	scale := float32(dim) * (1 - 2*margin) / extent
	cx := (minX + maxX) / 2
	cy := (minY + maxY) / 2
	half := float32(dim) / 2

	px = make([]float32, len(verts))
	py = make([]float32, len(verts))
	depth = make([]float32, len(verts))
	for i, v := range verts {
		px[i] = (v[0]-cx)*scale + half
		// Image Y grows downward.
		py[i] = half - (v[1]-cy)*scale
		depth[i] = v[2]
	}
	return px, py, depth
}

type vec3 [3]float32

func sub(a, b vec3) vec3 {
	return vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross(a, b vec3) vec3 {
	return vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b vec3) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func normalize(v vec3) vec3 {
	l := math32.Sqrt(dot(v, v))
	if l < 1e-12 {
		return vec3{}
	}
	return vec3{v[0] / l, v[1] / l, v[2] / l}
}
