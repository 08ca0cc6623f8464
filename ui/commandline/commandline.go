// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

// Package commandline contains the terminal helpers shared by the conversion commands.
package commandline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/ml-data-kit/mldatakit/pkg/ingest"
	"github.com/ml-data-kit/mldatakit/pkg/support/xslices"
)

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)

	oddRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999")).
			PaddingLeft(1).PaddingRight(1)

	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)
)

func newTable(headers ...string) *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		Headers(headers...).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if row == lgtable.HeaderRow {
				return headerRowStyle
			}
			if row%2 == 0 {
				s = oddRowStyle
			} else {
				s = evenRowStyle
			}
			if col == 0 {
				s = s.Align(lipgloss.Left)
			} else {
				s = s.Align(lipgloss.Right)
			}
			return
		})
}

// shapeString formats an image shape as "64x64x3".
func shapeString(shape []int) string {
	if len(shape) == 0 {
		return "-"
	}
	return strings.Join(xslices.Map(shape, strconv.Itoa), "x")
}

// SummaryTable renders a table with one row per written split, plus a total row.
func SummaryTable(summaries []ingest.SplitSummary) string {
	table := newTable("Split", "File", "Rows", "Image", "Categories", "Size", "Time")
	var totalRows int
	var totalBytes int64
	for _, s := range summaries {
		table.Row(s.Split, s.Path, humanize.Comma(int64(s.Rows)), shapeString(s.ImageShape),
			humanize.Comma(int64(s.Categories)), humanize.IBytes(uint64(s.Bytes)), FormatDuration(s.Elapsed))
		totalRows += s.Rows
		totalBytes += s.Bytes
	}
	if len(summaries) > 1 {
		table.Row("total", "", humanize.Comma(int64(totalRows)), "", "", humanize.IBytes(uint64(totalBytes)), "")
	}
	return table.Render()
}

// ReportSplits prints a title and the SummaryTable of the written splits to w.
func ReportSplits(w io.Writer, title string, summaries []ingest.SplitSummary) {
	_, _ = fmt.Fprintln(w, titleStyle.Render(title))
	_, _ = fmt.Fprintln(w, SummaryTable(summaries))
}

// ParseList splits a comma-separated flag value, dropping empty and blank entries.
func ParseList(value string) []string {
	var list []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			list = append(list, part)
		}
	}
	return list
}
