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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"seehuhn.de/go/pdfspan"
)

// Snapshot is the serialized state of a viewer window: the text layer, the
// view parameters and the current selection.
type Snapshot struct {
	Scale     float64        `json:"scale"`
	Origin    pdfspan.Origin `json:"origin"`
	PageGap   float64        `json:"pageGap,omitempty"`
	Pages     []*Page        `json:"pages"`
	Selection *Range         `json:"selection,omitempty"`
}

// Validate checks the view parameters and the page list.
func (s *Snapshot) Validate() error {
	if !(s.Scale > 0) || math.IsInf(s.Scale, 0) {
		return fmt.Errorf("snapshot: invalid scale %g", s.Scale)
	}
	if s.PageGap < 0 {
		return fmt.Errorf("snapshot: negative page gap %g", s.PageGap)
	}
	if len(s.Pages) == 0 {
		return errors.New("snapshot: no pages")
	}
	seen := make(map[int]bool)
	for _, p := range s.Pages {
		if p == nil {
			return errors.New("snapshot: missing page")
		}
		if seen[p.PageNum] {
			return fmt.Errorf("snapshot: duplicate page %d", p.PageNum)
		}
		seen[p.PageNum] = true
		if !(p.Width > 0 && p.Height > 0) {
			return fmt.Errorf("snapshot: page %d has invalid size %gx%g", p.PageNum, p.Width, p.Height)
		}
		for _, f := range p.Fragments {
			if f == nil || f.XMax < f.XMin || f.YMax < f.YMin {
				return fmt.Errorf("snapshot: page %d has an invalid fragment", p.PageNum)
			}
		}
	}
	return nil
}

// Load reads a JSON snapshot and returns the corresponding layer, with the
// snapshot's selection applied.
func Load(r io.Reader) (*Layer, error) {
	var s Snapshot
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return s.Layer()
}

// Layer validates the snapshot and converts it into a layer.
func (s *Snapshot) Layer() (*Layer, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	l := NewLayer(s.Pages...)
	l.Zoom = s.Scale
	l.Origin = s.Origin
	l.PageGap = s.PageGap

	if sel := s.Selection; sel != nil {
		var err error
		if sel.Placeholder {
			err = l.SelectPlaceholder(sel.Page)
		} else {
			err = l.Select(sel.Page, sel.Start, sel.End)
		}
		if err != nil {
			return nil, fmt.Errorf("snapshot: invalid selection: %w", err)
		}
	}
	return l, nil
}
