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

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
	"golang.org/x/text/language"

	"seehuhn.de/go/pdfspan"
	"seehuhn.de/go/pdfspan/export"
	"seehuhn.de/go/pdfspan/internal/buildinfo"
	"seehuhn.de/go/pdfspan/internal/profile"
	"seehuhn.de/go/pdfspan/preview"
	"seehuhn.de/go/pdfspan/selection"
	"seehuhn.de/go/pdfspan/span"
	"seehuhn.de/go/pdfspan/textlayer"
)

// config holds all command-line flag values.
type config struct {
	label      string
	lang       string
	color      string
	zIndex     int
	rectsOnly  bool
	pageHeight float64
	pngFile    string
	output     string
	force      bool
	verbose    bool
}

// record is the JSON output for a new annotation.
type record struct {
	*span.Annotation

	// PDF gives the Highlight annotation geometry in PDF user space.
	PDF *highlight `json:"pdf,omitempty"`
}

type highlight struct {
	Rect       [4]float64 `json:"rect"`
	QuadPoints []float64  `json:"quadPoints"`
	Lang       string     `json:"lang,omitempty"`
}

func main() {
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")

	var cfg config
	flag.StringVar(&cfg.label, "label", "", "annotation label")
	flag.StringVar(&cfg.lang, "lang", "", "language of the label, as a BCP 47 `tag`")
	flag.StringVar(&cfg.color, "color", "", "highlight colour, as a name or #rrggbb")
	flag.IntVar(&cfg.zIndex, "z", span.DefaultZIndex, "stacking order of the annotation")
	flag.BoolVar(&cfg.rectsOnly, "rects", false, "only print the normalized rectangles")
	flag.Float64Var(&cfg.pageHeight, "page-height", 0, "if positive, add PDF highlight geometry for a page of this `height`")
	flag.StringVar(&cfg.pngFile, "png", "", "write a preview image to `file`")
	flag.StringVar(&cfg.output, "o", "-", "output `file`, or - for stdout")
	flag.BoolVar(&cfg.force, "f", false, "overwrite output files if they exist")
	flag.BoolVar(&cfg.verbose, "v", false, "log diagnostics to stderr")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pdf-span - turn a text selection into a span annotation\n")
		fmt.Fprintf(os.Stderr, "%s\n\n", buildinfo.Short("pdf-span"))
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  pdf-span [options] <snapshot.json>\n\n")
		fmt.Fprintf(os.Stderr, "The snapshot describes the text layer of the viewer, the zoom level,\n")
		fmt.Fprintf(os.Stderr, "the position of the annotation layer and the current selection.\n")
		fmt.Fprintf(os.Stderr, "Nothing is printed if no text is selected.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pdf-span -label \"see also\" view.json\n")
		fmt.Fprintf(os.Stderr, "  pdf-span -rects view.json\n")
		fmt.Fprintf(os.Stderr, "  pdf-span -page-height 792 -png sel.png -o span.json view.json\n")
		fmt.Fprintf(os.Stderr, "  pdf-span -label \"siehe oben\" -lang de -page-height 842 view.json\n")
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(cfg, flag.Arg(0), *cpuprofile, *memprofile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg config, fname, cpuprofile, memprofile string) (err error) {
	stop, err := profile.Start(cpuprofile, memprofile)
	if err != nil {
		return err
	}
	defer func() {
		if err2 := stop(); err == nil {
			err = err2
		}
	}()

	if cfg.verbose {
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		pdfspan.SetLogger(slog.New(h))
		defer pdfspan.SetLogger(nil)
	}

	col, err := preview.ParseColor(cfg.color)
	if err != nil {
		return err
	}
	lang := language.Und
	if cfg.lang != "" {
		lang, err = language.Parse(cfg.lang)
		if err != nil {
			return fmt.Errorf("invalid language %q: %w", cfg.lang, err)
		}
	}

	layer, err := loadSnapshot(fname)
	if err != nil {
		return err
	}
	// Normalized rectangles are relative to the whole layer, where the
	// pages are stacked vertically.
	var page *textlayer.Page
	var pageTop float64
	if r := layer.Selection(); r != nil {
		page = layer.Page(r.Page)
		pageTop, _ = layer.PageOffset(r.Page)
	}

	s := &span.Selector{
		Collector: &selection.Collector{Source: layer, IsText: textlayer.IsText},
		Scale:     layer,
		Layer:     layer,
		Text:      layer,
	}

	var out any
	var rects []pdfspan.Rect
	if cfg.rectsOnly {
		rects = s.GetRectangles()
		out = rects
	} else {
		opt := span.CreateOptions{
			Text:   cfg.label,
			ZIndex: cfg.zIndex,
			Color:  cfg.color,
		}
		a, err := s.Create(&span.MemoryStore{}, nil, opt)
		if err != nil {
			return err
		}
		if a != nil {
			rects = a.Rectangles
			pdfPage := export.Page{Top: pageTop, Height: cfg.pageHeight}
			rec, err := newRecord(a, pdfPage, lang)
			if err != nil {
				return err
			}
			out = rec
		}
	}
	if rects == nil {
		pdfspan.Logger().Debug("no selection", "file", fname)
		return nil
	}

	if cfg.pngFile != "" && page != nil {
		p := preview.Page{Top: pageTop, Width: page.Width, Height: page.Height}
		err := writeFile(cfg.pngFile, cfg.force, func(w io.Writer) error {
			return preview.WritePNG(w, p, rects, col)
		})
		if err != nil {
			return err
		}
	}

	pretty := cfg.output == "-" && term.IsTerminal(int(os.Stdout.Fd()))
	return writeFile(cfg.output, cfg.force, func(w io.Writer) error {
		return writeJSON(w, out, pretty)
	})
}

func loadSnapshot(fname string) (*textlayer.Layer, error) {
	fd, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	layer, err := textlayer.Load(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return layer, nil
}

// newRecord prepares the output for a.  PDF geometry is included if the
// page height is positive.
func newRecord(a *span.Annotation, p export.Page, lang language.Tag) (*record, error) {
	rec := &record{Annotation: a}
	if p.Height <= 0 {
		return rec, nil
	}

	m, err := export.Highlight(a, p, lang)
	if err != nil {
		return nil, err
	}
	h := &highlight{
		Rect:       [4]float64{m.Rect.LLx, m.Rect.LLy, m.Rect.URx, m.Rect.URy},
		QuadPoints: make([]float64, 0, 2*len(m.QuadPoints)),
	}
	for _, v := range m.QuadPoints {
		h.QuadPoints = append(h.QuadPoints, v.X, v.Y)
	}
	if !m.Lang.IsRoot() {
		h.Lang = m.Lang.String()
	}
	rec.PDF = h
	return rec, nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// writeFile opens the output file, calls write and closes the file again.
// If writing fails, the partial output file is removed.
func writeFile(fname string, force bool, write func(io.Writer) error) error {
	w, closer, err := openOutputFile(fname, force)
	if err != nil {
		return err
	}

	err = write(w)
	if closer == nil {
		return err
	}
	if err != nil {
		closer.Close()
		os.Remove(fname)
		return err
	}
	return closer.Close()
}

// openOutputFile opens the output file for writing. If outputFile is "-",
// os.Stdout is returned. Otherwise, the file is opened with overwrite
// protection unless forceOverwrite is set.
func openOutputFile(outputFile string, forceOverwrite bool) (io.Writer, io.Closer, error) {
	if outputFile == "-" {
		return os.Stdout, nil, nil
	}

	flags := os.O_WRONLY | os.O_CREATE
	if forceOverwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(outputFile, flags, 0666)
	if err != nil {
		if os.IsExist(err) {
			return nil, nil, fmt.Errorf("file %s already exists (use -f to overwrite)", outputFile)
		}
		return nil, nil, err
	}

	return file, file, nil
}
