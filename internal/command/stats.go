package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	dto "github.com/prometheus/client_model/go"

	"github.com/giantswarm/kshell/internal/table"
)

// statsPrefix selects the shell's own metric families.
const statsPrefix = "kshell_"

var statsCommand = &Command{
	Name:  "stats",
	About: "Show command and cluster call statistics for this session",
	Args:  NoArgs,
	Run:   runStats,
}

func runStats(_ context.Context, inv *Invocation) error {
	if inv.Stats == nil {
		inv.Printf("Statistics are not available.\n")
		return nil
	}
	families, err := inv.Stats.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather statistics: %w", err)
	}

	tbl := &table.Table{Headers: []string{"Metric", "Labels", "Count", "Value"}}
	for _, mf := range families {
		name := mf.GetName()
		if !strings.HasPrefix(name, statsPrefix) {
			continue
		}
		for _, m := range mf.GetMetric() {
			tbl.Rows = append(tbl.Rows, statsRow(strings.TrimPrefix(name, statsPrefix), mf.GetType(), m))
		}
	}
	sort.SliceStable(tbl.Rows, func(i, j int) bool {
		if a, b := tbl.Rows[i][0].Text, tbl.Rows[j][0].Text; a != b {
			return a < b
		}
		return tbl.Rows[i][1].Text < tbl.Rows[j][1].Text
	})
	return tbl.Write(inv.Out)
}

func statsRow(name string, typ dto.MetricType, m *dto.Metric) []table.Cell {
	labels := make([]string, 0, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		if strings.HasPrefix(lp.GetName(), "otel_") {
			continue
		}
		labels = append(labels, lp.GetName()+"="+lp.GetValue())
	}
	sort.Strings(labels)

	row := []table.Cell{table.Text(name), table.Text(strings.Join(labels, ","))}
	switch typ {
	case dto.MetricType_COUNTER:
		v := m.GetCounter().GetValue()
		row = append(row, table.Int(int64(v)), table.Text(""))
	case dto.MetricType_HISTOGRAM:
		h := m.GetHistogram()
		mean := 0.0
		if h.GetSampleCount() > 0 {
			mean = h.GetSampleSum() / float64(h.GetSampleCount())
		}
		row = append(row, table.Int(int64(h.GetSampleCount())), table.Text(fmt.Sprintf("avg %.3fs", mean)))
	case dto.MetricType_GAUGE:
		row = append(row, table.Text(""), table.Text(fmt.Sprintf("%g", m.GetGauge().GetValue())))
	default:
		row = append(row, table.Text(""), table.Text(""))
	}
	return row
}
