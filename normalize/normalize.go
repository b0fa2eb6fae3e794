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

// Package normalize maps line rectangles from viewport coordinates into the
// coordinate system of the annotation layer at zoom level 1.
//
// Viewport coordinates change whenever the user scrolls or zooms.  After
// subtracting the origin of the annotation layer and dividing by the zoom
// factor, the rectangles describe a fixed region of the page and can be
// stored with an annotation.
package normalize

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfspan"
)

// Rects normalizes a list of line rectangles.
//
// Rectangles which have no positive area after the transformation, or which
// start more than one unit to the left of or above the annotation layer, are
// dropped (see [Valid]).  The order of the remaining rectangles is
// preserved.  The result is nil if no rectangle remains.
func Rects(rects []pdfspan.Rect, origin pdfspan.Origin, scale float64) []pdfspan.Rect {
	var res []pdfspan.Rect
	for _, r := range rects {
		n := Rect(r, origin, scale)
		if !Valid(n) {
			continue
		}
		res = append(res, n)
	}
	return res
}

// Rect normalizes a single rectangle, without any filtering.
func Rect(r pdfspan.Rect, origin pdfspan.Origin, scale float64) pdfspan.Rect {
	return Apply(Transform(origin, scale), r)
}

// Valid reports whether a normalized rectangle may be stored with an
// annotation.
func Valid(r pdfspan.Rect) bool {
	return r.Width > 0 && r.Height > 0 && r.X > -1 && r.Y > -1
}

// Transform returns the affine map from viewport coordinates to normalized
// coordinates.  Its inverse, M.Inv(), maps stored rectangles back onto the
// screen.
func Transform(origin pdfspan.Origin, scale float64) matrix.Matrix {
	return matrix.Translate(-origin.Left, -origin.Top).Mul(matrix.Scale(1/scale, 1/scale))
}

// Apply returns the bounding box of the image of r under M.
func Apply(M matrix.Matrix, r pdfspan.Rect) pdfspan.Rect {
	x, y := M.Apply(r.Left, r.Top)
	box := rect.Rect{LLx: x, LLy: y, URx: x, URy: y}
	box.Add(M.Apply(r.Right, r.Top))
	box.Add(M.Apply(r.Right, r.Bottom))
	box.Add(M.Apply(r.Left, r.Bottom))
	return pdfspan.FromEdges(box.LLx, box.LLy, box.URx, box.URy)
}
