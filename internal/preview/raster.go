package preview

import (
	"image"

	"github.com/chewxy/math32"
)

// frameBuffer holds the render target as flat slices for cache locality.
type frameBuffer struct {
	w, h  int
	color []uint8   // RGBA interleaved, len = w*h*4
	zbuf  []float32 // depth per pixel, initialized to -inf
}

func newFrameBuffer(w, h int) *frameBuffer {
	n := w * h
	zbuf := make([]float32, n)
	for i := range zbuf {
		zbuf[i] = math32.Inf(-1)
	}
	return &frameBuffer{
		w:     w,
		h:     h,
		color: make([]uint8, n*4),
		zbuf:  zbuf,
	}
}

// triangle rasterizes the flat-shaded triangle at verts[i..i+2] using the
// projected coordinates. Armor plates are double-sided, so shading uses
// the absolute normal-light angle and either winding is accepted.
func (fb *frameBuffer) triangle(px, py, depth []float32, verts []vec3, i int, r, g, b uint8) {
	x0, y0, z0 := px[i], py[i], depth[i]
	x1, y1, z1 := px[i+1], py[i+1], depth[i+1]
	x2, y2, z2 := px[i+2], py[i+2], depth[i+2]

	area := (x1-x0)*(y2-y0) - (x2-x0)*(y1-y0)
	if area == 0 || math32.IsNaN(area) {
		return
	}

	n := normalize(cross(sub(verts[i+1], verts[i]), sub(verts[i+2], verts[i])))
	shade := 0.45 + 0.55*math32.Abs(dot(n, lightDir))
	sr := uint8(float32(r) * shade)
	sg := uint8(float32(g) * shade)
	sb := uint8(float32(b) * shade)

	minX := int(math32.Floor(math32.Min(x0, math32.Min(x1, x2))))
	maxX := int(math32.Ceil(math32.Max(x0, math32.Max(x1, x2))))
	minY := int(math32.Floor(math32.Min(y0, math32.Min(y1, y2))))
	maxY := int(math32.Ceil(math32.Max(y0, math32.Max(y1, y2))))
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > fb.w-1 {
		maxX = fb.w - 1
	}
	if maxY > fb.h-1 {
		maxY = fb.h - 1
	}

	inv := 1 / area
	for y := minY; y <= maxY; y++ {
		fy := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			fx := float32(x) + 0.5
			w0 := ((x1-fx)*(y2-fy) - (x2-fx)*(y1-fy)) * inv
			w1 := ((x2-fx)*(y0-fy) - (x0-fx)*(y2-fy)) * inv
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			idx := y*fb.w + x
			if z <= fb.zbuf[idx] {
				continue
			}
			fb.zbuf[idx] = z

			c := idx * 4
			fb.color[c] = sr
			fb.color[c+1] = sg
			fb.color[c+2] = sb
			fb.color[c+3] = 0xFF
		}
	}
}

func (fb *frameBuffer) toNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.w, fb.h))
	copy(img.Pix, fb.color)
	return img
}

// palette assigns stable colors by piece id so the same plate keeps its
// color across files and revisions.
var palette = [][3]uint8{
	{0xE6, 0x59, 0x4B}, // red
	{0x4B, 0x8B, 0xE6}, // blue
	{0x58, 0xC2, 0x6B}, // green
	{0xE6, 0xB8, 0x4B}, // amber
	{0x9B, 0x6B, 0xE0}, // violet
	{0x4B, 0xC9, 0xC1}, // teal
	{0xE0, 0x7B, 0xB5}, // pink
	{0xA8, 0xB3, 0x52}, // olive
	{0xE0, 0x8A, 0x4B}, // orange
	{0x6B, 0x7B, 0xE0}, // indigo
	{0x7F, 0xD1, 0x95}, // mint
	{0xC9, 0x5E, 0x5E}, // brick
}

func pieceColor(id uint64) (uint8, uint8, uint8) {
	c := palette[id%uint64(len(palette))]
	return c[0], c[1], c[2]
}
