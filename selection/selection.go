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

// Package selection reads the raw rectangles of the user's current text
// selection from the host environment.
//
// The host exposes its selection primitive through the [Source] interface.
// Reading the selection never fails from the caller's point of view: every
// problem, including errors and panics inside the Source, is reported as
// "nothing selected".
package selection

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"seehuhn.de/go/pdfspan"
)

// Attribute names which carry the page number and the character index of
// a text node.
const (
	PageAttr  = "data-page"
	IndexAttr = "data-index"
)

// Node is an element of the host's document tree.
type Node interface {
	// Attr returns the value of the named attribute.
	Attr(name string) (string, bool)

	// Parent returns the parent node, or nil for the root.
	Parent() Node
}

// Source is the host's text selection primitive.
type Source interface {
	// RangeCount returns the number of selected ranges.
	// A value of zero means that nothing is selected.
	RangeCount() int

	// ClientRects returns the bounding rectangles of the i-th range, in
	// viewport coordinates and in reading order.
	ClientRects(i int) ([]pdfspan.Rect, error)

	// Anchor returns the node where the selection starts.
	Anchor() Node

	// Focus returns the node where the selection ends.
	Focus() Node

	// Clear removes the selection.
	Clear()
}

// Selected describes a text selection on one page.
type Selected struct {
	// Rects are the bounding rectangles of the first selected range, in
	// viewport coordinates.
	Rects []pdfspan.Rect

	// Page is the page number of the anchor node.
	Page int

	// Start and End are the character indices of the anchor and the focus
	// node.
	Start, End int
}

// Collector reads selections from a Source.
type Collector struct {
	Source Source

	// IsText reports whether a node holds text content.  Selections which
	// are anchored on other nodes, for example loading placeholders, are
	// ignored.  If IsText is nil, all nodes are accepted.
	IsText func(Node) bool
}

// Collect returns the current selection, or nil if nothing usable is
// selected.
func (c *Collector) Collect() *Selected {
	var res *Selected
	err := Guard(func() error {
		var err error
		res, err = c.collect()
		return err
	})
	if err != nil {
		pdfspan.Logger().Debug("cannot read selection", "err", err)
		return nil
	}
	return res
}

func (c *Collector) collect() (*Selected, error) {
	src := c.Source
	if src == nil || src.RangeCount() == 0 {
		return nil, nil
	}

	rects, err := src.ClientRects(0)
	if err != nil {
		return nil, err
	}

	anchor, focus := src.Anchor(), src.Focus()
	page, ok1 := intAttr(anchor, PageAttr)
	start, ok2 := intAttr(anchor, IndexAttr)
	end, ok3 := intAttr(focus, IndexAttr)
	if !(ok1 && ok2 && ok3) {
		return nil, nil
	}

	if c.IsText != nil && !c.IsText(anchor) {
		return nil, nil
	}

	if len(rects) == 0 || rects[0].IsEmpty() {
		return nil, nil
	}

	res := &Selected{
		Rects: rects,
		Page:  page,
		Start: start,
		End:   end,
	}
	return res, nil
}

// Clear removes the host's selection.  Problems in the Source are logged
// and otherwise ignored.
func (c *Collector) Clear() {
	if c.Source == nil {
		return
	}
	err := Guard(func() error {
		c.Source.Clear()
		return nil
	})
	if err != nil {
		pdfspan.Logger().Debug("cannot clear selection", "err", err)
	}
}

// intAttr reads an integer attribute from the node, or from its parent if
// the parent has the attribute.  Only the leading integer of the value
// is used, so " 12px" gives 12.
func intAttr(n Node, name string) (int, bool) {
	if n == nil {
		return 0, false
	}

	s, ok := "", false
	if p := n.Parent(); p != nil {
		s, ok = p.Attr(name)
	}
	if !ok {
		s, ok = n.Attr(name)
	}
	if !ok {
		return 0, false
	}

	return leadingInt(s)
}

// leadingInt parses the optionally signed decimal integer at the start of
// s, after leading white space.  The rest of s is ignored.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && '0' <= s[end] && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}

// ErrPanic is wrapped around values recovered by Guard.
var ErrPanic = errors.New("panic in host environment")

// Guard runs fn and converts a panic into an error.
func Guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn()
}
