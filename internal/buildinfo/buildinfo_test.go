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

package buildinfo

import (
	"runtime/debug"
	"testing"
)

func TestFormat(t *testing.T) {
	const path = "seehuhn.de/go/pdfspan"
	cases := []struct {
		version  string
		settings []debug.BuildSetting
		want     string
	}{
		{"v0.2.0", nil, "pdf-span (seehuhn.de/go/pdfspan v0.2.0)"},
		{"(devel)", nil, "pdf-span"},
		{"", nil, "pdf-span"},
		{
			"(devel)",
			[]debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef"}},
			"pdf-span (seehuhn.de/go/pdfspan 01234567)",
		},
		{
			"(devel)",
			[]debug.BuildSetting{
				{Key: "vcs.modified", Value: "true"},
				{Key: "vcs.revision", Value: "abc"},
			},
			"pdf-span (seehuhn.de/go/pdfspan abc+dirty)",
		},
	}
	for _, c := range cases {
		info := &debug.BuildInfo{
			Main:     debug.Module{Path: path, Version: c.version},
			Settings: c.settings,
		}
		if got := format("pdf-span", info); got != c.want {
			t.Errorf("format(%q) = %q, want %q", c.version, got, c.want)
		}
	}
}
