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

package span

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"slices"
	"sync"

	"seehuhn.de/go/pdfspan"
	"seehuhn.de/go/pdfspan/normalize"
)

// DefaultZIndex is the stacking order of new annotations, if no other value
// is given.
const DefaultZIndex = 10

// Annotation is a text-span annotation.
//
// Rectangles are normalized: relative to the annotation layer and divided
// by the zoom factor in effect when the annotation was made.  The
// rectangles of a stored annotation are never changed.
type Annotation struct {
	UUID         string         `json:"uuid"`
	Rectangles   []pdfspan.Rect `json:"rectangles"`
	SelectedText string         `json:"selectedText"`
	Text         string         `json:"text,omitempty"`
	TextRange    any            `json:"textRange,omitempty"`
	ZIndex       int            `json:"zIndex"`
	Color        string         `json:"color,omitempty"`
}

// Store persists annotations.
type Store interface {
	Save(a *Annotation) error
}

// Host performs the user interface updates after an annotation has been
// saved.
type Host interface {
	// Render draws the annotation.
	Render(a *Annotation)

	// Select marks the annotation as the current one.
	Select(a *Annotation)

	// EnableLabelInput opens the label editor for the annotation.
	EnableLabelInput(uuid string, autoFocus bool, text string)
}

// CreateOptions describes a new annotation.
type CreateOptions struct {
	// Text is the label of the annotation.
	Text string

	// ZIndex is the stacking order.  If zero, DefaultZIndex is used.
	ZIndex int

	// Color is the highlight colour, for example "#ff0000".
	Color string
}

// Create makes a text-span annotation from the current selection.
//
// The selection is read, then cleared.  If nothing usable was selected,
// or if no rectangle is left after normalization, Create returns nil and
// no error.  Otherwise the annotation is saved in store, and then the
// host is asked to render and select the annotation, and to open the
// label editor.  A nil store or host is skipped.
func (s *Selector) Create(store Store, host Host, opt CreateOptions) (*Annotation, error) {
	res, scale := s.selection()
	if s.Collector != nil {
		s.Collector.Clear()
	}
	if res.Rects == nil {
		return nil, nil
	}

	origin, ok := s.origin()
	if !ok {
		return nil, nil
	}
	rects := normalize.Rects(res.Rects, origin, scale)
	if len(rects) == 0 {
		return nil, nil
	}

	uuid, err := newUUID()
	if err != nil {
		return nil, err
	}
	zIndex := opt.ZIndex
	if zIndex == 0 {
		zIndex = DefaultZIndex
	}
	a := &Annotation{
		UUID:         uuid,
		Rectangles:   rects,
		SelectedText: *res.SelectedText,
		Text:         opt.Text,
		TextRange:    res.TextRange,
		ZIndex:       zIndex,
		Color:        opt.Color,
	}

	if store != nil {
		if err := store.Save(a); err != nil {
			return nil, fmt.Errorf("save annotation %s: %w", a.UUID, err)
		}
	}

	if host != nil {
		host.Render(a)
		host.Select(a)
		host.EnableLabelInput(a.UUID, true, opt.Text)
	}

	return a, nil
}

// newUUID returns a random (version 4) UUID.
func newUUID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	b[6] = b[6]&0x0f | 0x40
	b[8] = b[8]&0x3f | 0x80

	var buf [36]byte
	hex.Encode(buf[0:8], b[0:4])
	buf[8] = '-'
	hex.Encode(buf[9:13], b[4:6])
	buf[13] = '-'
	hex.Encode(buf[14:18], b[6:8])
	buf[18] = '-'
	hex.Encode(buf[19:23], b[8:10])
	buf[23] = '-'
	hex.Encode(buf[24:], b[10:])
	return string(buf[:]), nil
}

// MemoryStore keeps annotations in memory.
// It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.Mutex
	list []*Annotation
}

// Save implements the [Store] interface.  The rectangles are copied, so
// that later changes to the caller's slice do not affect the stored
// annotation.
func (m *MemoryStore) Save(a *Annotation) error {
	a2 := *a
	a2.Rectangles = slices.Clone(a.Rectangles)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append(m.list, &a2)
	return nil
}

// All returns copies of the stored annotations, in the order they were
// saved.
func (m *MemoryStore) All() []Annotation {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]Annotation, len(m.list))
	for i, a := range m.list {
		res[i] = *a
		res[i].Rectangles = slices.Clone(a.Rectangles)
	}
	return res
}

// Get returns a copy of the annotation with the given UUID.
func (m *MemoryStore) Get(uuid string) (Annotation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.list {
		if a.UUID == uuid {
			res := *a
			res.Rectangles = slices.Clone(a.Rectangles)
			return res, true
		}
	}
	return Annotation{}, false
}
