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

// Package span turns the current text selection into a text-span
// annotation.
//
// A [Selector] reads the selection through a [selection.Collector], merges
// the rectangles into line rectangles and normalizes them using the zoom
// factor and layer position supplied by its host.  [Selector.Create] then
// stores the result as an [Annotation].
//
// Reading the selection never returns an error.  If nothing usable is
// selected, the results are nil and no annotation is created.
package span

import (
	"fmt"
	"math"

	"seehuhn.de/go/pdfspan"
	"seehuhn.de/go/pdfspan/normalize"
	"seehuhn.de/go/pdfspan/reduce"
	"seehuhn.de/go/pdfspan/selection"
)

// ScaleProvider gives the current zoom factor of the viewer.
type ScaleProvider interface {
	Scale() float64
}

// LayerProvider gives the position of the annotation layer, in the same
// coordinate system as the selection rectangles.
type LayerProvider interface {
	LayerOrigin() pdfspan.Origin
}

// TextResolver looks up the text between two character indices on a page.
// The returned textRange is stored with the annotation as it is.
type TextResolver interface {
	ResolveText(page, start, end int) (text string, textRange any, err error)
}

// Result is a selection after merging.
// All fields are nil if nothing is selected.
type Result struct {
	// Rects holds one rectangle per selected line, in viewport coordinates.
	Rects []pdfspan.Rect

	// SelectedText and TextRange are passed through unchanged from the
	// [TextResolver].
	SelectedText *string
	TextRange    any
}

// Selector extracts text-span geometry from the current selection.
// The providers are queried on every call; no state is kept between calls.
type Selector struct {
	Collector *selection.Collector
	Scale     ScaleProvider
	Layer     LayerProvider
	Text      TextResolver
}

// Selection returns the merged line rectangles of the current selection,
// together with the selected text.
func (s *Selector) Selection() Result {
	res, _ := s.selection()
	return res
}

// selection also returns the zoom factor used, so that the same value can
// be used for normalization.
func (s *Selector) selection() (Result, float64) {
	if s.Collector == nil {
		return Result{}, 0
	}
	sel := s.Collector.Collect()
	if sel == nil {
		return Result{}, 0
	}

	var (
		scale     float64
		text      string
		textRange any
	)
	err := selection.Guard(func() error {
		var err error
		text, textRange, err = s.Text.ResolveText(sel.Page, sel.Start, sel.End)
		if err != nil {
			return fmt.Errorf("resolve text: %w", err)
		}
		scale = s.Scale.Scale()
		return nil
	})
	if err != nil {
		pdfspan.Logger().Debug("selection ignored", "err", err)
		return Result{}, 0
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		pdfspan.Logger().Debug("selection ignored", "scale", scale)
		return Result{}, 0
	}

	res := Result{
		Rects:        reduce.Rects(sel.Rects, scale),
		SelectedText: &text,
		TextRange:    textRange,
	}
	return res, scale
}

// GetRectangles returns the normalized rectangles of the current selection,
// or nil if nothing is selected.  The selection is left unchanged.
func (s *Selector) GetRectangles() []pdfspan.Rect {
	res, scale := s.selection()
	if res.Rects == nil {
		return nil
	}
	origin, ok := s.origin()
	if !ok {
		return nil
	}
	return normalize.Rects(res.Rects, origin, scale)
}

func (s *Selector) origin() (pdfspan.Origin, bool) {
	var origin pdfspan.Origin
	err := selection.Guard(func() error {
		origin = s.Layer.LayerOrigin()
		return nil
	})
	if err != nil {
		pdfspan.Logger().Debug("cannot read layer position", "err", err)
		return pdfspan.Origin{}, false
	}
	return origin, true
}
