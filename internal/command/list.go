package command

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"k8s.io/apimachinery/pkg/api/meta"

	"github.com/giantswarm/kshell/internal/env"
	"github.com/giantswarm/kshell/internal/instrumentation"
	"github.com/giantswarm/kshell/internal/kobj"
	"github.com/giantswarm/kshell/internal/table"
)

// Column labels with built-in extraction from object metadata.
const (
	ColumnName      = "Name"
	ColumnNamespace = "Namespace"
	ColumnAge       = "Age"
)

// ListOutcome is the result of a list request: either the items, or a
// failure that was already reported. A failure is never an empty list.
type ListOutcome[T any] struct {
	items  []T
	failed bool
}

// Listed wraps a successful list response.
func Listed[T any](items []T) ListOutcome[T] {
	return ListOutcome[T]{items: items}
}

// Failed is the outcome of a list request that did not succeed.
func Failed[T any]() ListOutcome[T] {
	return ListOutcome[T]{failed: true}
}

// OK reports whether the request succeeded.
func (o ListOutcome[T]) OK() bool { return !o.failed }

// Items returns the listed items.
func (o ListOutcome[T]) Items() []T { return o.items }

// ListSpec describes how to turn listed items into table rows.
type ListSpec[T any] struct {
	Headers    []string
	Extractors map[string]table.Extractor[T]
	Filter     *regexp.Regexp
	SortColumn string
	Reverse    bool
	ToHandle   func(item *T) kobj.Handle
}

// CompileFilter validates a name filter. An empty pattern matches everything
// and yields nil. The filter is an unanchored, case-sensitive search; use
// ^...$ to anchor or (?i) to ignore case.
func CompileFilter(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", pattern, err)
	}
	return re, nil
}

// normalizeColumn folds case and drops separators so "Access Modes",
// "access-modes" and "accessmodes" name the same column.
func normalizeColumn(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(s))
}

// columnFlagValue renders a header as a completion-friendly flag value.
func columnFlagValue(header string) string {
	return strings.ReplaceAll(strings.ToLower(header), " ", "-")
}

// ResolveColumn maps a user-supplied column name onto one of headers.
func ResolveColumn(headers []string, name string) (string, error) {
	want := normalizeColumn(name)
	for _, h := range headers {
		if normalizeColumn(h) == want {
			return h, nil
		}
	}
	values := make([]string, len(headers))
	for i, h := range headers {
		values[i] = columnFlagValue(h)
	}
	return "", fmt.Errorf("unknown column %q, expected one of: %s", name, strings.Join(values, ", "))
}

type listRow struct {
	handle kobj.Handle
	cells  []table.Cell
}

// RenderList renders a listing and makes its rows addressable by index.
//
// A failed outcome, or a context cancelled before rendering, writes nothing
// and leaves the previous rows in place. Otherwise the rows are filtered by
// name, stably sorted by the sort column, optionally reversed, written as a
// numbered table, and installed as the Environment's rows in displayed order.
func RenderList[T any](ctx context.Context, inv *Invocation, spec ListSpec[T], outcome ListOutcome[T]) error {
	if !outcome.OK() {
		return ErrReported
	}
	if err := ctx.Err(); err != nil {
		inv.Env.Reportf("%s", env.DescribeError(err))
		return ErrReported
	}

	now := inv.Env.Now()
	items := outcome.Items()
	rows := make([]listRow, 0, len(items))
	for i := range items {
		item := &items[i]
		h := spec.ToHandle(item)
		if spec.Filter != nil && !spec.Filter.MatchString(h.Name) {
			continue
		}

		cells := make([]table.Cell, len(spec.Headers))
		for j, header := range spec.Headers {
			if extract, ok := spec.Extractors[header]; ok {
				if c, ok := extract(item); ok {
					cells[j] = c
				}
				continue
			}
			if c, ok := metadataCell(header, h, item, now); ok {
				cells[j] = c
			}
		}
		rows = append(rows, listRow{handle: h, cells: cells})
	}

	if spec.SortColumn != "" {
		col := -1
		for j, header := range spec.Headers {
			if header == spec.SortColumn {
				col = j
				break
			}
		}
		if col >= 0 {
			sort.SliceStable(rows, func(a, b int) bool {
				return table.Less(rows[a].cells[col], rows[b].cells[col])
			})
		}
	}
	if spec.Reverse {
		for a, b := 0, len(rows)-1; a < b; a, b = a+1, b-1 {
			rows[a], rows[b] = rows[b], rows[a]
		}
	}

	tbl := &table.Table{Headers: spec.Headers, Numbered: true, Rows: make([][]table.Cell, len(rows))}
	handles := make([]kobj.Handle, len(rows))
	for i, r := range rows {
		tbl.Rows[i] = r.cells
		handles[i] = r.handle
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int(instrumentation.SpanAttrRows, len(rows)))

	err := tbl.Write(inv.Out)
	inv.Env.ReplaceRows(handles)
	return err
}

func metadataCell(header string, h kobj.Handle, item any, now time.Time) (table.Cell, bool) {
	switch header {
	case ColumnName:
		return table.Text(h.Name), true
	case ColumnNamespace:
		return table.Text(h.Namespace), true
	case ColumnAge:
		obj, err := meta.Accessor(item)
		if err != nil {
			return table.Cell{}, false
		}
		created := obj.GetCreationTimestamp()
		if created.IsZero() {
			return table.Cell{}, false
		}
		return table.Age(created.Time, now), true
	}
	return table.Cell{}, false
}
