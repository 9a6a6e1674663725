package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/opendata-univ/barometre/views"
)

// ============================================================================
// CSV OUTPUT: one block per panel, separated by a blank row
// ============================================================================

func writePageCSV(w io.Writer, page *views.Page) error {
	cw := csv.NewWriter(w)

	for i, p := range page.Panels {
		if i > 0 {
			cw.Write([]string{})
		}
		cw.Write([]string{"# " + p.Title})

		switch {
		case p.Error != "":
			cw.Write([]string{"Error", p.Error})
		case p.Notice != "":
			cw.Write([]string{"Notice", p.Notice})
		case p.Table != nil && len(p.Table.Rows) > 0:
			headers := make([]string, len(p.Table.Columns))
			for j, c := range p.Table.Columns {
				headers[j] = c.Label
			}
			cw.Write(headers)
			for _, row := range p.Table.Rows {
				cw.Write(row)
			}
		case p.Text != "":
			cw.Write([]string{p.Text})
		}
	}

	cw.Flush()
	return cw.Error()
}

// ============================================================================
// JSON OUTPUT
// ============================================================================

func writeJSON(w io.Writer, v interface{}, format string) error {
	var out []byte
	var err error

	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
