package render

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Canvas is a premultiplied RGBA pixel buffer the size of the bar.
type Canvas struct {
	img *image.RGBA
}

func NewCanvas(width, height int) *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (c *Canvas) Width() int  { return c.img.Rect.Dx() }
func (c *Canvas) Height() int { return c.img.Rect.Dy() }

// Len is the byte size of the canvas, 4 bytes per pixel.
func (c *Canvas) Len() int { return len(c.img.Pix) }

func (c *Canvas) Image() *image.RGBA { return c.img }

// Composite blends a coverage mask over the canvas with its left edge shifted
// by dx, using col as the source. It returns the column just past the
// right-most composited pixel, and false when nothing landed on the canvas.
func (c *Canvas) Composite(mask *image.Alpha, dx int, col color.NRGBA) (int, bool) {
	offset := image.Pt(dx, 0)
	r := mask.Bounds().Add(offset).Intersect(c.img.Rect)
	if r.Empty() {
		return 0, false
	}

	draw.DrawMask(c.img, r, image.NewUniform(col), image.Point{}, mask, r.Min.Sub(offset), draw.Over)
	return r.Max.X, true
}

// EncodeARGB8888 writes the canvas as wl_shm ARGB8888, which is stored little
// endian as B, G, R, A. dst must be exactly Len bytes.
func (c *Canvas) EncodeARGB8888(dst []byte) error {
	src := c.img.Pix
	if len(dst) != len(src) {
		return fmt.Errorf("encode canvas: destination is %d bytes, want %d", len(dst), len(src))
	}
	for i := 0; i < len(src); i += 4 {
		dst[i+0] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i+0]
		dst[i+3] = src[i+3]
	}
	return nil
}
