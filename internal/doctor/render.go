// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package doctor

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
)

// ColorStatus colors ok/warn/fail labels.
func ColorStatus(val string) string {
	switch Status(val) {
	case StatusFail:
		return colorRed.Sprint(val)
	case StatusWarn:
		return colorYellow.Sprint(val)
	case StatusOK:
		return colorGreen.Sprint(val)
	default:
		return val
	}
}

// Render writes the report as a table followed by a one-line verdict.
func Render(w io.Writer, r *Report) error {
	tbl := NewTable(
		Column{Header: "CHECK"},
		Column{Header: "STATUS", Color: ColorStatus},
		Column{Header: "DETAIL"},
	)
	for _, c := range r.Checks {
		tbl.AddRow(c.Name, string(c.Status), c.Detail)
	}
	if err := tbl.Render(w); err != nil {
		return err
	}

	counts := r.Counts()
	verdict := colorGreen.Sprint("passed")
	if !r.Passed() {
		verdict = colorRed.Sprint("failed")
	}
	_, err := fmt.Fprintf(w, "\ndoctor %s: %d ok, %d warn, %d fail\n",
		verdict, counts[StatusOK], counts[StatusWarn], counts[StatusFail])
	return err
}
