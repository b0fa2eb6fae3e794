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
	"errors"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"seehuhn.de/go/pdfspan"
	"seehuhn.de/go/pdfspan/selection"
	"seehuhn.de/go/pdfspan/textlayer"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// newLayer returns a page with two lines of text, shown at zoom 1.5 and
// scrolled down by 100 units, with everything selected.
func newLayer(t *testing.T) *textlayer.Layer {
	t.Helper()

	p := textlayer.NewPage(1, 612, 792)
	add := func(text string, xMin, yMin, xMax, yMax float64) {
		f := &textlayer.Fragment{XMin: xMin, YMin: yMin, XMax: xMax, YMax: yMax}
		f.AddRun(text, 0)
		p.AddFragment(f)
	}
	add("Hello ", 72, 100, 110, 112)
	add("world,", 110, 100.5, 150, 112.5)
	add("this is ", 72, 116, 120, 128)
	add("a test.", 122, 116, 170, 128)

	l := textlayer.NewLayer(p)
	l.Zoom = 1.5
	l.Origin = pdfspan.Origin{Left: 20, Top: -100}
	if err := l.Select(1, 0, 3); err != nil {
		t.Fatal(err)
	}
	return l
}

func newSelector(l *textlayer.Layer) *Selector {
	return &Selector{
		Collector: &selection.Collector{Source: l, IsText: textlayer.IsText},
		Scale:     l,
		Layer:     l,
		Text:      l,
	}
}

var wantRects = []pdfspan.Rect{
	pdfspan.NewRect(72, 100, 78, 12.5),
	pdfspan.NewRect(72, 116, 98, 12),
}

func TestSelection(t *testing.T) {
	l := newLayer(t)
	res := newSelector(l).Selection()

	wantLines := []pdfspan.Rect{
		pdfspan.FromEdges(128, 50, 245, 68.75),
		pdfspan.FromEdges(128, 74, 275, 92),
	}
	if d := cmp.Diff(wantLines, res.Rects, approx); d != "" {
		t.Errorf("Rects (-want +got):\n%s", d)
	}
	if res.SelectedText == nil || *res.SelectedText != "Hello world,\nthis is a test." {
		t.Errorf("unexpected text %v", res.SelectedText)
	}
	if want := (textlayer.TextRange{Page: 1, Start: 0, End: 3}); res.TextRange != want {
		t.Errorf("TextRange = %v, want %v", res.TextRange, want)
	}
	if l.Selection() == nil {
		t.Error("Selection cleared the selection")
	}
}

func TestGetRectangles(t *testing.T) {
	l := newLayer(t)
	got := newSelector(l).GetRectangles()
	if d := cmp.Diff(wantRects, got, approx); d != "" {
		t.Errorf("GetRectangles (-want +got):\n%s", d)
	}
}

func TestZoomAndScroll(t *testing.T) {
	l := newLayer(t)
	s := newSelector(l)

	for _, view := range []struct {
		zoom   float64
		origin pdfspan.Origin
	}{
		{1, pdfspan.Origin{}},
		{2, pdfspan.Origin{Left: 0, Top: -500}},
		{0.75, pdfspan.Origin{Left: 300, Top: 12}},
	} {
		l.Zoom = view.zoom
		l.Origin = view.origin
		got := s.GetRectangles()
		if d := cmp.Diff(wantRects, got, approx); d != "" {
			t.Errorf("zoom %g (-want +got):\n%s", view.zoom, d)
		}
	}
}

// countingHost records its calls.
type countingHost struct {
	calls []string
	uuid  string
	text  string
	focus bool
}

func (h *countingHost) Render(a *Annotation) { h.calls = append(h.calls, "render") }
func (h *countingHost) Select(a *Annotation) { h.calls = append(h.calls, "select") }
func (h *countingHost) EnableLabelInput(uuid string, autoFocus bool, text string) {
	h.calls = append(h.calls, "label")
	h.uuid, h.focus, h.text = uuid, autoFocus, text
}

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestCreate(t *testing.T) {
	l := newLayer(t)
	store := &MemoryStore{}
	host := &countingHost{}

	a, err := newSelector(l).Create(store, host, CreateOptions{Text: "greeting", Color: "#ff0"})
	if err != nil {
		t.Fatal(err)
	}
	if a == nil {
		t.Fatal("no annotation created")
	}

	if !uuidPattern.MatchString(a.UUID) {
		t.Errorf("malformed uuid %q", a.UUID)
	}
	want := &Annotation{
		UUID:         a.UUID,
		Rectangles:   wantRects,
		SelectedText: "Hello world,\nthis is a test.",
		Text:         "greeting",
		TextRange:    textlayer.TextRange{Page: 1, Start: 0, End: 3},
		ZIndex:       DefaultZIndex,
		Color:        "#ff0",
	}
	if d := cmp.Diff(want, a, approx); d != "" {
		t.Errorf("annotation (-want +got):\n%s", d)
	}

	if l.Selection() != nil {
		t.Error("selection not cleared")
	}
	if stored, ok := store.Get(a.UUID); !ok || stored.UUID != a.UUID {
		t.Error("annotation not stored")
	}
	if d := cmp.Diff([]string{"render", "select", "label"}, host.calls); d != "" {
		t.Errorf("host calls (-want +got):\n%s", d)
	}
	if host.uuid != a.UUID || !host.focus || host.text != "greeting" {
		t.Errorf("label input enabled with %q %t %q", host.uuid, host.focus, host.text)
	}
}

func TestCreateZIndex(t *testing.T) {
	l := newLayer(t)
	a, err := newSelector(l).Create(&MemoryStore{}, nil, CreateOptions{ZIndex: 3})
	if err != nil {
		t.Fatal(err)
	}
	if a.ZIndex != 3 {
		t.Errorf("ZIndex = %d, want 3", a.ZIndex)
	}
}

func TestCreateWithoutStore(t *testing.T) {
	l := newLayer(t)
	host := &countingHost{}
	a, err := newSelector(l).Create(nil, host, CreateOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if a == nil {
		t.Fatal("no annotation created")
	}
	if d := cmp.Diff(wantRects, a.Rectangles, approx); d != "" {
		t.Errorf("Rectangles (-want +got):\n%s", d)
	}
	if len(host.calls) != 3 {
		t.Errorf("host calls %v", host.calls)
	}
}

func TestCreateOutsideLayer(t *testing.T) {
	l := newLayer(t)
	s := newSelector(l)
	s.Layer = fixedOrigin{Left: 1000, Top: 1000}
	store := &MemoryStore{}
	host := &countingHost{}

	a, err := s.Create(store, host, CreateOptions{})
	if a != nil || err != nil {
		t.Errorf("Create() = %v, %v", a, err)
	}
	if len(store.All()) != 0 || len(host.calls) != 0 {
		t.Error("side effects for an empty selection")
	}
	if l.Selection() != nil {
		t.Error("selection not cleared")
	}
}

type fixedOrigin pdfspan.Origin

func (o fixedOrigin) LayerOrigin() pdfspan.Origin { return pdfspan.Origin(o) }

type failingStore struct{}

var errDisk = errors.New("disk full")

func (failingStore) Save(*Annotation) error { return errDisk }

func TestCreateStoreError(t *testing.T) {
	l := newLayer(t)
	host := &countingHost{}
	a, err := newSelector(l).Create(failingStore{}, host, CreateOptions{})
	if !errors.Is(err, errDisk) || a != nil {
		t.Errorf("Create() = %v, %v", a, err)
	}
	if len(host.calls) != 0 {
		t.Error("host called after failed save")
	}
}

// spyProviders fails the test if the pipeline queries it.
type spyProviders struct {
	t *testing.T
}

func (s spyProviders) Scale() float64 {
	s.t.Error("scale queried")
	return 1
}

func (s spyProviders) LayerOrigin() pdfspan.Origin {
	s.t.Error("layer queried")
	return pdfspan.Origin{}
}

func (s spyProviders) ResolveText(page, start, end int) (string, any, error) {
	s.t.Error("text queried")
	return "", nil, nil
}

func TestNoSelection(t *testing.T) {
	l := newLayer(t)
	l.Clear()
	spy := spyProviders{t}
	s := &Selector{
		Collector: &selection.Collector{Source: l},
		Scale:     spy,
		Layer:     spy,
		Text:      spy,
	}

	res := s.Selection()
	if res.Rects != nil || res.SelectedText != nil || res.TextRange != nil {
		t.Errorf("Selection() = %v", res)
	}
	if got := s.GetRectangles(); got != nil {
		t.Errorf("GetRectangles() = %v", got)
	}
	a, err := s.Create(&MemoryStore{}, nil, CreateOptions{})
	if a != nil || err != nil {
		t.Errorf("Create() = %v, %v", a, err)
	}
}

type badScale float64

func (b badScale) Scale() float64 { return float64(b) }

type brokenResolver struct{ panics bool }

func (b brokenResolver) ResolveText(page, start, end int) (string, any, error) {
	if b.panics {
		panic("parent frame is gone")
	}
	return "", nil, errors.New("no such page")
}

func TestProviderFailures(t *testing.T) {
	cases := []struct {
		name   string
		modify func(s *Selector)
	}{
		{"zero scale", func(s *Selector) { s.Scale = badScale(0) }},
		{"negative scale", func(s *Selector) { s.Scale = badScale(-1) }},
		{"resolver error", func(s *Selector) { s.Text = brokenResolver{} }},
		{"resolver panic", func(s *Selector) { s.Text = brokenResolver{panics: true} }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := newSelector(newLayer(t))
			c.modify(s)
			if res := s.Selection(); res.Rects != nil || res.SelectedText != nil {
				t.Errorf("Selection() = %v", res)
			}
			if got := s.GetRectangles(); got != nil {
				t.Errorf("GetRectangles() = %v", got)
			}
		})
	}
}

// fixedText returns text in decomposed form together with an opaque range.
type fixedText struct{}

type offsets struct {
	From, To int
}

func (fixedText) ResolveText(page, start, end int) (string, any, error) {
	return "Cafe\u0301 au lait", offsets{3, 17}, nil
}

func TestTextPassedThrough(t *testing.T) {
	const want = "Cafe\u0301 au lait"

	l := newLayer(t)
	s := newSelector(l)
	s.Text = fixedText{}

	res := s.Selection()
	if res.SelectedText == nil {
		t.Fatal("no text")
	}
	if got := *res.SelectedText; got != want {
		t.Errorf("SelectedText = %q, want %q", got, want)
	}
	if res.TextRange != (offsets{3, 17}) {
		t.Errorf("TextRange = %v", res.TextRange)
	}

	a, err := s.Create(&MemoryStore{}, nil, CreateOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if a.SelectedText != want {
		t.Errorf("stored text %q, want %q", a.SelectedText, want)
	}
	if a.TextRange != (offsets{3, 17}) {
		t.Errorf("stored range %v", a.TextRange)
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	store := &MemoryStore{}
	rects := []pdfspan.Rect{pdfspan.NewRect(1, 2, 3, 4)}
	a := &Annotation{UUID: "u", Rectangles: rects}
	if err := store.Save(a); err != nil {
		t.Fatal(err)
	}
	rects[0] = pdfspan.NewRect(9, 9, 9, 9)

	got, ok := store.Get("u")
	if !ok {
		t.Fatal("annotation not found")
	}
	if d := cmp.Diff(pdfspan.NewRect(1, 2, 3, 4), got.Rectangles[0]); d != "" {
		t.Errorf("stored rectangle changed:\n%s", d)
	}
	if _, ok := store.Get("v"); ok {
		t.Error("found a missing annotation")
	}
}
