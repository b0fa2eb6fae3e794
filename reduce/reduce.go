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

// Package reduce merges the fragmented rectangles of a text selection into
// one rectangle per text line.
//
// Selection APIs report one rectangle per visual text run, and frequently
// several nearly identical rectangles for the same run.  [Rects] first drops
// such duplicates and then sweeps once over the remaining rectangles,
// merging every rectangle whose top edge is close to the top edge of the
// current line.  Both tolerances are proportional to the zoom factor, so
// the result does not depend on how far the page is zoomed in.
//
// All functions expect the rectangles in reading order, the way the
// selection API reports them, and never modify their input.
package reduce

import (
	"math"

	"seehuhn.de/go/pdfspan"
)

const (
	// DuplicateTolerance is the horizontal distance, in units of the zoom
	// factor, below which two consecutive rectangles are considered to
	// describe the same text run.
	DuplicateTolerance = 1.5

	// LineTolerance is the vertical distance, in units of the zoom factor,
	// within which a rectangle is merged into the current line.
	LineTolerance = 5
)

// Rects reduces a selection to one rectangle per text line.
// This is Lines applied to the output of Trim.
// If rects is empty, nil is returned.
func Rects(rects []pdfspan.Rect, scale float64) []pdfspan.Rect {
	if len(rects) == 0 {
		return nil
	}
	return Lines(Trim(rects, scale), scale)
}

// Trim removes rectangles which duplicate their predecessor.
//
// A rectangle is dropped if its left edge is less than
// DuplicateTolerance*scale away from the left edge of the last rectangle
// which was kept.  The first rectangle is always kept.
func Trim(rects []pdfspan.Rect, scale float64) []pdfspan.Rect {
	if len(rects) == 0 {
		return nil
	}

	tol := DuplicateTolerance * scale

	res := make([]pdfspan.Rect, 1, len(rects))
	res[0] = rects[0]
	for _, r := range rects[1:] {
		if math.Abs(r.Left-res[len(res)-1].Left) < tol {
			continue
		}
		res = append(res, r)
	}
	return res
}

// Lines merges rectangles into line rectangles.
//
// The first rectangle starts a line.  Each following rectangle is compared
// to the current line only: if its top edge is within LineTolerance*scale
// of the line's top edge, the line is grown to cover the rectangle.
// Otherwise the line is finished and the rectangle starts a new one.
// Horizontal gaps never split a line.
func Lines(rects []pdfspan.Rect, scale float64) []pdfspan.Rect {
	if len(rects) == 0 {
		return nil
	}

	tol := LineTolerance * scale

	var res []pdfspan.Rect
	line := rects[0] // a single rectangle is returned unchanged
	for _, r := range rects[1:] {
		if withinMargin(r.Top, line.Top, tol) {
			line = line.Union(r)
			continue
		}
		res = append(res, line)
		line = r
	}
	res = append(res, line)

	return res
}

// withinMargin reports whether x lies in the closed interval
// [base-margin, base+margin].
func withinMargin(x, base, margin float64) bool {
	return base-margin <= x && x <= base+margin
}
