// Package aggregate re-buckets monthly snapshots into monthly, quarterly or
// yearly records that line up across scenarios on a calendar timeline.
package aggregate

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fincast-dev/fincast/internal/model"
	"github.com/fincast-dev/fincast/internal/month"
)

// Resolution is the aggregation granularity.
type Resolution string

const (
	Monthly   Resolution = "M"
	Quarterly Resolution = "Q"
	Yearly    Resolution = "Y"
)

// Resolutions lists every resolution, finest first.
var Resolutions = []Resolution{Monthly, Quarterly, Yearly}

// ParseResolution accepts M, Q, Y or monthly, quarterly, yearly in any case.
func ParseResolution(s string) (Resolution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "monthly", "month":
		return Monthly, nil
	case "q", "quarterly", "quarter":
		return Quarterly, nil
	case "y", "yearly", "year", "annual":
		return Yearly, nil
	}
	return "", fmt.Errorf("unknown resolution %q: want M, Q or Y", s)
}

// Label returns a human name for the resolution.
func (r Resolution) Label() string {
	switch r {
	case Quarterly:
		return "Quarterly"
	case Yearly:
		return "Yearly"
	default:
		return "Monthly"
	}
}

// Period returns the sortable period value and the label of the period that
// contains m.
func (r Resolution) Period(m month.Month) (int, string) {
	switch r {
	case Quarterly:
		q := m.Quarter()
		return m.Year*4 + q - 1, fmt.Sprintf("%04d-Q%d", m.Year, q)
	case Yearly:
		return m.Year, fmt.Sprintf("%04d", m.Year)
	default:
		return m.Ordinal(), m.String()
	}
}

// Source supplies stored scenarios by name.
type Source interface {
	All(ctx context.Context) (map[string][]model.Snapshot, error)
}

// FromStore aggregates every scenario held by src.
func FromStore(ctx context.Context, src Source, res Resolution) ([]model.Record, error) {
	byScenario, err := src.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading scenarios: %w", err)
	}
	return Aggregate(byScenario, res), nil
}

// Aggregate groups each scenario's snapshots into periods of res and takes
// the values of the last month of each period. Records are sorted by period
// value, then by scenario name. Periods a scenario does not cover produce no
// record.
func Aggregate(byScenario map[string][]model.Snapshot, res Resolution) []model.Record {
	names := make([]string, 0, len(byScenario))
	for name := range byScenario {
		names = append(names, name)
	}
	sort.Strings(names)

	var records []model.Record
	for _, name := range names {
		records = append(records, aggregateScenario(name, byScenario[name], res)...)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].PeriodValue != records[j].PeriodValue {
			return records[i].PeriodValue < records[j].PeriodValue
		}
		return records[i].Scenario < records[j].Scenario
	})
	return records
}

func aggregateScenario(name string, snaps []model.Snapshot, res Resolution) []model.Record {
	type bucket struct {
		record  model.Record
		ordinal int
	}
	var order []int
	buckets := make(map[int]*bucket)

	for _, s := range snaps {
		m, err := month.Parse(s.Month)
		if err != nil {
			continue
		}
		value, label := res.Period(m)
		b, ok := buckets[value]
		if !ok {
			b = &bucket{ordinal: math.MinInt}
			buckets[value] = b
			order = append(order, value)
		}
		if m.Ordinal() < b.ordinal {
			continue
		}
		b.ordinal = m.Ordinal()
		b.record = model.Record{
			Scenario:    name,
			Period:      label,
			PeriodValue: value,
			Month:       s.Month,
			NetWorth:    Money(s.NetWorth),
			Liquid:      Money(s.Liquid),
		}
	}

	records := make([]model.Record, 0, len(order))
	for _, value := range order {
		records = append(records, buckets[value].record)
	}
	return records
}

// Money rounds a simulated amount to cents. Non-finite values become zero.
func Money(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Round(2)
}
