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

package textlayer

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"seehuhn.de/go/pdfspan"
	"seehuhn.de/go/pdfspan/selection"
)

// Layer is the text layer of a multi-page document, as currently shown in
// a viewer window.
//
// Pages are stacked vertically, separated by PageGap.  The top-left corner
// of the first page is the origin of the annotation layer.
type Layer struct {
	Pages []*Page

	// Zoom is the current zoom factor.
	Zoom float64

	// Origin is the position of the annotation layer in viewport
	// coordinates.  Scrolling down moves Origin.Top upwards.
	Origin pdfspan.Origin

	// PageGap is the vertical space between two pages, at zoom level 1.
	PageGap float64

	sel   *Range
	nodes map[nodeKey]*Element
}

// Range is a selection of consecutive fragments on one page.
type Range struct {
	Page int `json:"page"`

	// Start and End are the fragment indices of the anchor and the focus.
	// End is smaller than Start for selections made backwards.
	Start int `json:"start"`
	End   int `json:"end"`

	// Placeholder anchors the selection on the page's loading indicator
	// instead of on text.
	Placeholder bool `json:"placeholder,omitempty"`
}

// TextRange identifies the fragments which make up a selected text.
type TextRange struct {
	Page  int `json:"page"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// RangeError is returned when a page or a fragment does not exist.
type RangeError struct {
	Page  int
	Index int // -1 if the page itself is missing
}

func (err *RangeError) Error() string {
	if err.Index < 0 {
		return "textlayer: no page " + strconv.Itoa(err.Page)
	}
	return "textlayer: page " + strconv.Itoa(err.Page) +
		" has no fragment " + strconv.Itoa(err.Index)
}

// NewLayer returns a layer showing the given pages at zoom level 1.
func NewLayer(pages ...*Page) *Layer {
	return &Layer{
		Pages: pages,
		Zoom:  1,
	}
}

// Page returns the page with the given page number, or nil.
func (l *Layer) Page(pageNum int) *Page {
	for _, p := range l.Pages {
		if p.PageNum == pageNum {
			return p
		}
	}
	return nil
}

// pageTop returns the top edge of the page in layer coordinates at zoom
// level 1.
func (l *Layer) pageTop(pageNum int) float64 {
	var y float64
	for _, p := range l.Pages {
		if p.PageNum == pageNum {
			break
		}
		y += p.Height + l.PageGap
	}
	return y
}

// PageOffset returns the y coordinate of the top edge of the given page,
// in normalized layer coordinates.  Subtracting it from a normalized
// rectangle gives coordinates relative to the page.  The second return
// value is false if the layer has no such page.
func (l *Layer) PageOffset(pageNum int) (float64, bool) {
	if l.Page(pageNum) == nil {
		return 0, false
	}
	return l.pageTop(pageNum), true
}

// Select selects the fragments from start to end on the given page.
func (l *Layer) Select(pageNum, start, end int) error {
	p := l.Page(pageNum)
	if p == nil {
		return &RangeError{Page: pageNum, Index: -1}
	}
	for _, idx := range []int{start, end} {
		if p.Fragment(idx) == nil {
			return &RangeError{Page: pageNum, Index: idx}
		}
	}
	l.sel = &Range{Page: pageNum, Start: start, End: end}
	return nil
}

// SelectPlaceholder anchors the selection on the loading indicator of the
// given page.  This happens when the user drags across a page which has not
// been rendered yet.
func (l *Layer) SelectPlaceholder(pageNum int) error {
	if l.Page(pageNum) == nil {
		return &RangeError{Page: pageNum, Index: -1}
	}
	l.sel = &Range{Page: pageNum, Placeholder: true}
	return nil
}

// Selection returns the current selection, or nil.
func (l *Layer) Selection() *Range {
	if l.sel == nil {
		return nil
	}
	r := *l.sel
	return &r
}

// RangeCount implements the [selection.Source] interface.
func (l *Layer) RangeCount() int {
	if l.sel == nil {
		return 0
	}
	return 1
}

var errNoRange = errors.New("textlayer: no such range")

// ClientRects implements the [selection.Source] interface.
// It returns one rectangle per selected fragment, in index order.
func (l *Layer) ClientRects(i int) ([]pdfspan.Rect, error) {
	if l.sel == nil || i != 0 {
		return nil, errNoRange
	}
	p := l.Page(l.sel.Page)
	if p == nil {
		return nil, &RangeError{Page: l.sel.Page, Index: -1}
	}
	top := l.pageTop(p.PageNum)

	if l.sel.Placeholder {
		return []pdfspan.Rect{l.toViewport(pdfspan.NewRect(0, top, p.Width, p.Height))}, nil
	}

	lo, hi := order(l.sel.Start, l.sel.End)
	var res []pdfspan.Rect
	for _, f := range p.Fragments {
		if f.Index < lo || f.Index > hi {
			continue
		}
		b := f.Box()
		res = append(res, l.toViewport(pdfspan.FromEdges(b.Left, top+b.Top, b.Right, top+b.Bottom)))
	}
	return res, nil
}

// toViewport maps a rectangle from layer coordinates at zoom level 1 to
// viewport coordinates.
func (l *Layer) toViewport(r pdfspan.Rect) pdfspan.Rect {
	z := l.Zoom
	return pdfspan.FromEdges(
		l.Origin.Left+r.Left*z,
		l.Origin.Top+r.Top*z,
		l.Origin.Left+r.Right*z,
		l.Origin.Top+r.Bottom*z,
	)
}

// Anchor implements the [selection.Source] interface.
func (l *Layer) Anchor() selection.Node {
	if l.sel == nil {
		return nil
	}
	if l.sel.Placeholder {
		return l.node(nodeKey{page: l.sel.Page, kind: kindLoading})
	}
	return l.node(nodeKey{page: l.sel.Page, index: l.sel.Start, kind: kindText})
}

// Focus implements the [selection.Source] interface.
func (l *Layer) Focus() selection.Node {
	if l.sel == nil {
		return nil
	}
	if l.sel.Placeholder {
		return l.node(nodeKey{page: l.sel.Page, kind: kindLoading})
	}
	return l.node(nodeKey{page: l.sel.Page, index: l.sel.End, kind: kindText})
}

// Clear implements the [selection.Source] interface.
func (l *Layer) Clear() {
	l.sel = nil
}

// Scale returns the current zoom factor.
func (l *Layer) Scale() float64 {
	return l.Zoom
}

// LayerOrigin returns the position of the annotation layer in viewport
// coordinates.
func (l *Layer) LayerOrigin() pdfspan.Origin {
	return l.Origin
}

// ResolveText returns the text of the fragments from start to end on the
// given page, together with the corresponding [TextRange].  Fragments on
// different lines are separated by a newline.
func (l *Layer) ResolveText(pageNum, start, end int) (string, any, error) {
	p := l.Page(pageNum)
	if p == nil {
		return "", nil, &RangeError{Page: pageNum, Index: -1}
	}
	lo, hi := order(start, end)
	for _, idx := range []int{lo, hi} {
		if p.Fragment(idx) == nil {
			return "", nil, &RangeError{Page: pageNum, Index: idx}
		}
	}

	var sb strings.Builder
	var prev *Fragment
	for _, f := range p.Fragments {
		if f.Index < lo || f.Index > hi {
			continue
		}
		if prev != nil && !sameLine(prev, f) {
			sb.WriteByte('\n')
		}
		sb.WriteString(f.FullText())
		prev = f
	}

	return sb.String(), TextRange{Page: pageNum, Start: lo, End: hi}, nil
}

// sameLine reports whether the vertical centres of two fragments are less
// than half a line height apart.
func sameLine(a, b *Fragment) bool {
	h := math.Max(a.YMax-a.YMin, b.YMax-b.YMin)
	ya := (a.YMin + a.YMax) / 2
	yb := (b.YMin + b.YMax) / 2
	return math.Abs(ya-yb) < 0.5*h
}

func order(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
