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

package pdfspan

import (
	"fmt"
	"math"

	"seehuhn.de/go/geom/rect"
)

// Rect is an axis-aligned rectangle in a top-left coordinate system.
//
// X and Y duplicate Left and Top.  Use [NewRect] or [FromEdges] to
// construct values where all fields agree.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect returns the rectangle with the given top-left corner and size.
func NewRect(left, top, width, height float64) Rect {
	return Rect{
		Top:    top,
		Left:   left,
		Right:  left + width,
		Bottom: top + height,
		X:      left,
		Y:      top,
		Width:  width,
		Height: height,
	}
}

// FromEdges returns the rectangle with the given edges.
func FromEdges(left, top, right, bottom float64) Rect {
	return Rect{
		Top:    top,
		Left:   left,
		Right:  right,
		Bottom: bottom,
		X:      left,
		Y:      top,
		Width:  right - left,
		Height: bottom - top,
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%.2f %.2f %.2f %.2f]", r.Left, r.Top, r.Right, r.Bottom)
}

// Consistent reports whether the redundant fields of r agree with each
// other, up to rounding errors, and whether the size is non-negative.
func (r Rect) Consistent() bool {
	const eps = 1e-9
	near := func(a, b float64) bool {
		return math.Abs(a-b) <= eps*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	}
	return near(r.Right, r.Left+r.Width) &&
		near(r.Bottom, r.Top+r.Height) &&
		r.X == r.Left && r.Y == r.Top &&
		r.Width >= 0 && r.Height >= 0
}

// IsEmpty reports whether r has no positive area.
func (r Rect) IsEmpty() bool {
	return !(r.Width > 0 && r.Height > 0)
}

// Union returns the smallest rectangle which contains both r and other.
func (r Rect) Union(other Rect) Rect {
	return FromEdges(
		math.Min(r.Left, other.Left),
		math.Min(r.Top, other.Top),
		math.Max(r.Right, other.Right),
		math.Max(r.Bottom, other.Bottom),
	)
}

// Box converts r into a [rect.Rect].  Since r uses a top-left origin, LLy
// holds the top edge and URy holds the bottom edge.
func (r Rect) Box() rect.Rect {
	return rect.Rect{
		LLx: r.Left,
		LLy: r.Top,
		URx: r.Right,
		URy: r.Bottom,
	}
}

// Origin is the position of the annotation layer's top-left corner,
// in the same coordinate system as the selection rectangles.
type Origin struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}
