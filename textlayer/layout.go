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

// Package textlayer models the text layer of a rendered document: the
// positioned text fragments which a viewer places over the page image so
// that the user can select text.
//
// A [Layer] implements everything the span pipeline needs from its host:
// the selection primitive, the zoom factor, the position of the annotation
// layer and the lookup of the selected text.
package textlayer

import (
	"strings"

	"seehuhn.de/go/pdfspan"
)

// TextRun represents a sequence of characters with the same style.
type TextRun struct {
	Text   string `json:"text"`
	FontID int    `json:"font,omitempty"`
}

// Fragment is one positioned text item on a page.
//
// The box is given in page coordinates at zoom level 1, with the origin at
// the top-left corner of the page.
type Fragment struct {
	// Index is the position of the fragment within its page.  Selections
	// refer to fragments by this index.
	Index int `json:"index"`

	Runs []TextRun `json:"runs"`

	XMin float64 `json:"xMin"`
	XMax float64 `json:"xMax"`
	YMin float64 `json:"yMin"`
	YMax float64 `json:"yMax"`
}

// AddRun adds a text run to the fragment.
func (f *Fragment) AddRun(text string, fontID int) {
	if len(f.Runs) > 0 && f.Runs[len(f.Runs)-1].FontID == fontID {
		f.Runs[len(f.Runs)-1].Text += text
		return
	}
	f.Runs = append(f.Runs, TextRun{Text: text, FontID: fontID})
}

// FullText returns the combined text of all runs.
func (f *Fragment) FullText() string {
	var sb strings.Builder
	for _, r := range f.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Box returns the fragment's box in page coordinates.
func (f *Fragment) Box() pdfspan.Rect {
	return pdfspan.FromEdges(f.XMin, f.YMin, f.XMax, f.YMax)
}

// Page represents a single page of text fragments.
type Page struct {
	PageNum   int         `json:"page"`
	Width     float64     `json:"width"`
	Height    float64     `json:"height"`
	Fragments []*Fragment `json:"fragments"`
}

// NewPage creates a new Page.
func NewPage(pageNum int, width, height float64) *Page {
	return &Page{
		PageNum: pageNum,
		Width:   width,
		Height:  height,
	}
}

// AddFragment appends a text fragment to the page and assigns the next
// free index to it.
func (p *Page) AddFragment(f *Fragment) {
	f.Index = len(p.Fragments)
	p.Fragments = append(p.Fragments, f)
}

// Fragment returns the fragment with the given index, or nil.
func (p *Page) Fragment(index int) *Fragment {
	for _, f := range p.Fragments {
		if f.Index == index {
			return f
		}
	}
	return nil
}
