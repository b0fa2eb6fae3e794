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
	"strconv"

	"seehuhn.de/go/pdfspan/selection"
)

type nodeKind uint8

const (
	kindRoot nodeKind = iota
	kindPage
	kindLoading
	kindSpan
	kindText
)

type nodeKey struct {
	page  int
	index int
	kind  nodeKind
}

// Element is a node of the text layer's document tree.
//
// The tree has the same shape as the DOM of a browser-based viewer: a
// root, one DIV per page holding a loading indicator DIV and one SPAN per
// fragment, and a text node inside each SPAN.  Each SPAN carries the
// attributes [selection.PageAttr] and [selection.IndexAttr].
type Element struct {
	Tag    string
	attrs  map[string]string
	parent *Element
}

// Attr implements the [selection.Node] interface.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// Parent implements the [selection.Node] interface.
func (e *Element) Parent() selection.Node {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

// IsText reports whether n holds text content.  Loading indicators and
// other structural DIV elements are not text.
func IsText(n selection.Node) bool {
	e, ok := n.(*Element)
	return ok && e.Tag != "DIV"
}

// node returns the element for the given key, creating it and its
// ancestors on first use.
func (l *Layer) node(key nodeKey) *Element {
	if e, ok := l.nodes[key]; ok {
		return e
	}
	if l.nodes == nil {
		l.nodes = make(map[nodeKey]*Element)
	}

	var e *Element
	switch key.kind {
	case kindRoot:
		e = &Element{Tag: "DIV", attrs: map[string]string{"class": "textLayer"}}
	case kindPage:
		e = &Element{
			Tag:    "DIV",
			attrs:  map[string]string{"class": "page"},
			parent: l.node(nodeKey{kind: kindRoot}),
		}
	case kindLoading:
		// The loading indicator carries the page attributes of the
		// first fragment it replaces.
		e = &Element{
			Tag: "DIV",
			attrs: map[string]string{
				"class":             "loadingIcon",
				selection.PageAttr:  strconv.Itoa(key.page),
				selection.IndexAttr: "0",
			},
			parent: l.node(nodeKey{page: key.page, kind: kindPage}),
		}
	case kindSpan:
		e = &Element{
			Tag: "SPAN",
			attrs: map[string]string{
				selection.PageAttr:  strconv.Itoa(key.page),
				selection.IndexAttr: strconv.Itoa(key.index),
			},
			parent: l.node(nodeKey{page: key.page, kind: kindPage}),
		}
	case kindText:
		e = &Element{
			Tag:    "#text",
			parent: l.node(nodeKey{page: key.page, index: key.index, kind: kindSpan}),
		}
	}
	l.nodes[key] = e
	return e
}
