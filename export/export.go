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

// Package export converts span annotations into PDF text markup annotations.
//
// Span rectangles use top-left coordinates in PDF units, with y growing
// downwards.  When a viewer shows several pages, they are stacked
// vertically in one annotation layer, so rectangles on later pages are
// offset by the pages above them.  PDF annotations use the default user
// space of their page, with y growing upwards from the bottom edge.
package export

import (
	"errors"
	"math"

	"golang.org/x/text/language"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/annotation"

	"seehuhn.de/go/pdfspan"
	"seehuhn.de/go/pdfspan/span"
)

var (
	errNoRectangles = errors.New("annotation has no rectangles")
	errPageHeight   = errors.New("page height must be positive")
	errQuadPoints   = errors.New("number of quad points is not a multiple of 4")
)

// Page locates a PDF page inside the annotation layer.
type Page struct {
	// Top is the y coordinate of the page's top edge, in the coordinate
	// system of the span rectangles.
	Top float64

	// Height is the page height in PDF units.
	Height float64
}

func (p Page) check() error {
	if !(p.Height > 0) || math.IsInf(p.Height, 0) {
		return errPageHeight
	}
	return nil
}

// Transform returns the matrix which maps span coordinates to the user
// space of the page.
func (p Page) Transform() matrix.Matrix {
	return matrix.Matrix{1, 0, 0, -1, 0, p.Top + p.Height}
}

// Highlight returns a Highlight annotation covering the rectangles of a.
// The annotation label becomes the Contents entry, written in the given
// language, and the UUID is used as the annotation name.  Use
// [language.Und] if the language of the label is not known.
//
// No colour is set.  Callers which want a visible markup should fill in
// the Color field of the result.
func Highlight(a *span.Annotation, p Page, lang language.Tag) (*annotation.TextMarkup, error) {
	if len(a.Rectangles) == 0 {
		return nil, errNoRectangles
	}
	if err := p.check(); err != nil {
		return nil, err
	}

	M := p.Transform()
	quads := make([]vec.Vec2, 0, 4*len(a.Rectangles))
	var bbox rect.Rect
	for _, r := range a.Rectangles {
		q := quad(M, r)
		quads = append(quads, q[:]...)
		bbox.Extend(quadBox(q))
	}

	res := &annotation.TextMarkup{
		Common: annotation.Common{
			Rect: pdf.Rectangle{
				LLx: bbox.LLx,
				LLy: bbox.LLy,
				URx: bbox.URx,
				URy: bbox.URy,
			},
			Contents: a.Text,
			Lang:     lang,
			Name:     a.UUID,
		},
		Type:       annotation.TextMarkupTypeHighlight,
		QuadPoints: quads,
	}
	return res, nil
}

// quad returns the corners of r in PDF user space, counter-clockwise
// starting at the bottom-left.
func quad(M matrix.Matrix, r pdfspan.Rect) [4]vec.Vec2 {
	var q [4]vec.Vec2
	q[0].X, q[0].Y = M.Apply(r.Left, r.Bottom)
	q[1].X, q[1].Y = M.Apply(r.Right, r.Bottom)
	q[2].X, q[2].Y = M.Apply(r.Right, r.Top)
	q[3].X, q[3].Y = M.Apply(r.Left, r.Top)
	return q
}

// quadBox returns the bounding box of a quadrilateral.
func quadBox(q [4]vec.Vec2) rect.Rect {
	bbox := pdf.Rectangle{
		LLx: q[0].X,
		LLy: q[0].Y,
		URx: q[0].X,
		URy: q[0].Y,
	}
	for _, p := range q[1:] {
		bbox.ExtendVec(p)
	}
	return rect.Rect{LLx: bbox.LLx, LLy: bbox.LLy, URx: bbox.URx, URy: bbox.URy}
}

// Rects converts the quad points of a text markup annotation back into
// span coordinates.  Each quadrilateral is replaced by its bounding box.
func Rects(t *annotation.TextMarkup, p Page) ([]pdfspan.Rect, error) {
	if len(t.QuadPoints)%4 != 0 {
		return nil, errQuadPoints
	}
	if err := p.check(); err != nil {
		return nil, err
	}

	M := p.Transform().Inv()
	var res []pdfspan.Rect
	for i := 0; i+4 <= len(t.QuadPoints); i += 4 {
		var q [4]vec.Vec2
		for j, v := range t.QuadPoints[i : i+4] {
			q[j].X, q[j].Y = M.Apply(v.X, v.Y)
		}
		box := quadBox(q)
		res = append(res, pdfspan.FromEdges(box.LLx, box.LLy, box.URx, box.URy))
	}
	return res, nil
}
