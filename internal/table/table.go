package table

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// IndexHeader labels the row-number column of numbered tables.
const IndexHeader = "####"

const columnGap = "  "

// Table is a set of rows rendered as aligned columns.
type Table struct {
	Headers []string
	Rows    [][]Cell

	// Numbered prepends a 1-based row-number column.
	Numbered bool
}

// Write renders the table. Column widths use display width, so wide
// characters and combining marks stay aligned. Trailing padding is trimmed.
func (t *Table) Write(w io.Writer) error {
	headers := t.Headers
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		texts := make([]string, 0, len(headers)+1)
		if t.Numbered {
			texts = append(texts, strconv.Itoa(i+1))
		}
		for j := range t.Headers {
			if j < len(row) {
				texts = append(texts, sanitize(row[j].Text))
			} else {
				texts = append(texts, "")
			}
		}
		rows[i] = texts
	}
	if t.Numbered {
		headers = append([]string{IndexHeader}, headers...)
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, text := range row {
			if n := runewidth.StringWidth(text); n > widths[i] {
				widths[i] = n
			}
		}
	}

	bw := bufio.NewWriter(w)
	writeLine(bw, headers, widths)
	for _, row := range rows {
		writeLine(bw, row, widths)
	}
	return bw.Flush()
}

func writeLine(w *bufio.Writer, fields []string, widths []int) {
	var sb strings.Builder
	for i, f := range fields {
		if i > 0 {
			sb.WriteString(columnGap)
		}
		sb.WriteString(runewidth.FillRight(f, widths[i]))
	}
	_, _ = w.WriteString(strings.TrimRight(sb.String(), " "))
	_ = w.WriteByte('\n')
}

// sanitize keeps multi-line values such as annotations on one row.
func sanitize(s string) string {
	if !strings.ContainsAny(s, "\r\n\t") {
		return s
	}
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(s)
}
