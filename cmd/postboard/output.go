package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/postboard/internal/records"
)

const titleWidth = 60

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// writeRecords prints records as JSON or as a bordered table.
func writeRecords(w io.Writer, asJSON bool, list []records.Record) error {
	if asJSON {
		return writeJSON(w, list)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "OWNER", "TITLE").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range list {
		t.Row(strconv.FormatInt(r.ID, 10), strconv.FormatInt(r.OwnerID, 10), clip(r.Title, titleWidth))
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// writeRecord prints one record with its body.
func writeRecord(w io.Writer, asJSON bool, r records.Record) error {
	if asJSON {
		return writeJSON(w, r)
	}
	_, err := fmt.Fprintf(w, "#%d  owner %d\n%s\n\n%s\n", r.ID, r.OwnerID, r.Title, r.Body)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func clip(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
