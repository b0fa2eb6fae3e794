// seehuhn.de/go/pdfspan - text selection rectangles for PDF annotations
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package preview draws span rectangles onto a raster image.
//
// The output is meant for checking selections by eye.  It shows the
// highlighted areas on a blank page and nothing else.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfspan"
)

// DefaultColor is used when no highlight colour is given.
var DefaultColor = color.RGBA{R: 255, G: 221, B: 0, A: 255}

// Alpha is the opacity of the highlight fill.
const Alpha = 0x60

// Page describes the area shown in the image.
type Page struct {
	// Top is the y coordinate of the page's top edge in the coordinate
	// system of the rectangles.  It is non-zero for later pages of a
	// multi-page layer.
	Top float64

	// Width and Height give the page size in PDF units.
	Width, Height float64

	// DPI is the output resolution.  If zero, 72 is used.
	DPI float64
}

// Renderer draws rectangles given in top-left layer coordinates.
type Renderer struct {
	Image  *image.RGBA
	Raster *vector.Rasterizer

	// CTM maps layer coordinates to pixels.
	CTM matrix.Matrix

	page rect.Rect
}

// NewRenderer allocates a white image for the given page.
func NewRenderer(p Page) (*Renderer, error) {
	if !(p.Width > 0) || !(p.Height > 0) || math.IsInf(p.Width, 0) || math.IsInf(p.Height, 0) {
		return nil, fmt.Errorf("invalid page size %gx%g", p.Width, p.Height)
	}
	if math.IsNaN(p.Top) || math.IsInf(p.Top, 0) {
		return nil, fmt.Errorf("invalid page position %g", p.Top)
	}
	dpi := p.DPI
	if dpi == 0 {
		dpi = 72
	} else if !(dpi > 0) || dpi > 2400 {
		return nil, fmt.Errorf("invalid resolution %g", dpi)
	}
	s := dpi / 72

	width := int(math.Ceil(p.Width * s))
	height := int(math.Ceil(p.Height * s))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	return &Renderer{
		Image:  img,
		Raster: vector.NewRasterizer(width, height),
		CTM:    matrix.Translate(0, -p.Top).Mul(matrix.Scale(s, s)),
		page:   rect.Rect{LLx: 0, LLy: p.Top, URx: p.Width, URy: p.Top + p.Height},
	}, nil
}

func (r *Renderer) device(x, y float64) (float32, float32) {
	x, y = r.CTM.Apply(x, y)
	return float32(x), float32(y)
}

// Fill paints the given rectangles with a translucent version of col.
// Parts outside the page are not drawn.  The return value is the number
// of rectangles which were at least partially visible.
func (r *Renderer) Fill(rects []pdfspan.Rect, col color.Color) int {
	cr, cg, cb, _ := col.RGBA()
	src := image.NewUniform(color.NRGBA{
		R: uint8(cr >> 8),
		G: uint8(cg >> 8),
		B: uint8(cb >> 8),
		A: Alpha,
	})

	b := r.Image.Bounds()
	count := 0
	for _, rr := range rects {
		box, ok := clip(rr.Box(), r.page)
		if !ok {
			continue
		}
		count++

		r.Raster.Reset(b.Dx(), b.Dy())
		r.Raster.MoveTo(r.device(box.LLx, box.LLy))
		r.Raster.LineTo(r.device(box.URx, box.LLy))
		r.Raster.LineTo(r.device(box.URx, box.URy))
		r.Raster.LineTo(r.device(box.LLx, box.URy))
		r.Raster.ClosePath()
		r.Raster.Draw(r.Image, b, src, image.Point{})
	}
	return count
}

// clip returns the intersection of a and b.  The second return value is
// false if the intersection has zero area.
func clip(a, b rect.Rect) (rect.Rect, bool) {
	res := rect.Rect{
		LLx: max(a.LLx, b.LLx),
		LLy: max(a.LLy, b.LLy),
		URx: min(a.URx, b.URx),
		URy: min(a.URy, b.URy),
	}
	return res, res.LLx < res.URx && res.LLy < res.URy
}

// WritePNG renders the rectangles and writes the image to w.
func WritePNG(w io.Writer, p Page, rects []pdfspan.Rect, col color.Color) error {
	r, err := NewRenderer(p)
	if err != nil {
		return err
	}
	n := r.Fill(rects, col)
	pdfspan.Logger().Debug("preview", "rects", len(rects), "visible", n)
	return png.Encode(w, r.Image)
}

var errColor = errors.New("invalid colour")

// ParseColor understands SVG colour names as well as the hexadecimal forms
// "#rgb" and "#rrggbb".  The empty string gives DefaultColor.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultColor, nil
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}

	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.RGBA{}, fmt.Errorf("%w %q", errColor, s)
	}
	switch len(hex) {
	case 3:
		var expanded [6]byte
		for i := range 3 {
			expanded[2*i] = hex[i]
			expanded[2*i+1] = hex[i]
		}
		hex = string(expanded[:])
	case 6:
		// pass
	default:
		return color.RGBA{}, fmt.Errorf("%w %q", errColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w %q", errColor, s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
