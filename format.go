package indexbot

import (
	"fmt"
	"strings"
	"time"

	m "indexbot/internal/model"
)

type Layout string

const (
	LayoutGrouped Layout = "grouped"
	LayoutFlat    Layout = "flat"
)

const (
	unavailable = "N/A"
	stampLayout = "2006-01-02 15:04:05"
)

// Format renders one tick. It never fails on missing prices; a null or zero
// price is written as N/A.
func Format(layout Layout, quotes []m.Quote, at time.Time) string {

	ts := at.Format(stampLayout)

	if layout == LayoutFlat {
		lines := make([]string, 0, len(quotes))
		for _, q := range quotes {
			lines = append(lines, fmt.Sprintf("%s | %s: %s", ts, q.Name, price(q)))
		}
		return strings.Join(lines, "\n")
	}

	var sb strings.Builder
	sb.WriteString(ts)

	kinds := []m.Kind{m.Index, m.Stock, 0}
	for _, k := range kinds {
		section := make([]m.Quote, 0)
		for _, q := range quotes {
			if q.Kind == k || (k == 0 && q.Kind != m.Index && q.Kind != m.Stock) {
				section = append(section, q)
			}
		}
		if len(section) == 0 {
			continue
		}

		sb.WriteString("\n\n")
		sb.WriteString(k.Title())
		for _, q := range section {
			sb.WriteString(fmt.Sprintf("\n%s: %s", q.Name, price(q)))
		}
	}
	return sb.String()
}

func price(q m.Quote) string {
	if !q.Available() {
		return unavailable
	}
	return q.Price.Decimal.StringFixed(2)
}
