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
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/rect"
)

func TestConstructors(t *testing.T) {
	a := NewRect(10, 20, 30, 40)
	b := FromEdges(10, 20, 40, 60)
	if d := cmp.Diff(a, b); d != "" {
		t.Errorf("NewRect and FromEdges disagree (-new +edges):\n%s", d)
	}
	if !a.Consistent() {
		t.Errorf("%v is not consistent", a)
	}
}

func TestConsistent(t *testing.T) {
	cases := []struct {
		r    Rect
		want bool
	}{
		{NewRect(0, 0, 0, 0), true},
		{NewRect(0.1, 0.2, 0.3, 0.4), true},
		{FromEdges(5, 5, 4, 6), false}, // negative width
		{Rect{Left: 1, Right: 2, Width: 1, Top: 1, Bottom: 2, Height: 1}, false}, // X, Y unset
		{Rect{Left: 1, X: 1, Right: 5, Width: 1, Top: 0, Y: 0, Bottom: 1, Height: 1}, false},
	}
	for i, c := range cases {
		if got := c.r.Consistent(); got != c.want {
			t.Errorf("%d: Consistent(%v) = %t, want %t", i, c.r, got, c.want)
		}
	}
}

func TestUnion(t *testing.T) {
	a := FromEdges(0, 10, 50, 20)
	b := FromEdges(55, 11, 90, 21)
	got := a.Union(b)
	want := FromEdges(0, 10, 90, 21)
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("Union (-want +got):\n%s", d)
	}
	if got.Width != 90 || got.Height != 11 {
		t.Errorf("size = %gx%g, want 90x11", got.Width, got.Height)
	}
}

func TestIsEmpty(t *testing.T) {
	if !NewRect(1, 1, 0, 5).IsEmpty() {
		t.Error("zero width rectangle is not empty")
	}
	if !NewRect(1, 1, 5, -1).IsEmpty() {
		t.Error("negative height rectangle is not empty")
	}
	if NewRect(1, 1, 0.01, 0.01).IsEmpty() {
		t.Error("small rectangle is empty")
	}
}

func TestBox(t *testing.T) {
	got := NewRect(1, 2, 3, 4).Box()
	want := rect.Rect{LLx: 1, LLy: 2, URx: 4, URy: 6}
	if got != want {
		t.Errorf("Box() = %v, want %v", got, want)
	}
}

func TestJSONNames(t *testing.T) {
	data, err := json.Marshal(NewRect(1, 2, 3, 4))
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	want := map[string]float64{
		"top": 2, "left": 1, "right": 4, "bottom": 6,
		"x": 1, "y": 2, "width": 3, "height": 4,
	}
	if d := cmp.Diff(want, m); d != "" {
		t.Errorf("JSON fields (-want +got):\n%s", d)
	}
}
