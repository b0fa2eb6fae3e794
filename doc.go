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

// Package pdfspan turns a text selection on a rendered PDF page into the
// rectangles of a text-span annotation.
//
// A selection usually reports one bounding box per visual text run, often
// with duplicates and sub-pixel jitter.  The sub-packages reduce these boxes
// to one rectangle per text line and map them into a coordinate system which
// does not depend on the current zoom level or scroll position:
//
//   - [seehuhn.de/go/pdfspan/selection] reads the raw boxes from the
//     host's selection primitive,
//   - [seehuhn.de/go/pdfspan/reduce] removes duplicates and merges the
//     boxes into line rectangles,
//   - [seehuhn.de/go/pdfspan/normalize] rebases the line rectangles to
//     the annotation layer and divides by the zoom factor,
//   - [seehuhn.de/go/pdfspan/span] ties the stages together and builds
//     the annotation record.
//
// Package [seehuhn.de/go/pdfspan/textlayer] provides an in-memory text
// layer which can stand in for a viewer.  Packages
// [seehuhn.de/go/pdfspan/export] and [seehuhn.de/go/pdfspan/preview] turn
// finished annotations into PDF highlights and preview images.
//
// This package holds the shared data model.  All rectangles use a top-left
// origin with y growing downwards, the way a browser reports client
// rectangles.
package pdfspan
