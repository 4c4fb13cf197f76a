package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fincast-dev/fincast/internal/model"
)

// Table lays records out with one row per period and one column per scenario.
type Table struct {
	Scenarios []string
	Rows      []Row
}

// Row is one period of a Table. NetWorth and Liquid are indexed like
// Table.Scenarios; scenarios without a record for the period are invalid.
type Row struct {
	Period      string
	PeriodValue int
	NetWorth    []decimal.NullDecimal
	Liquid      []decimal.NullDecimal
}

// Pivot builds a Table from aggregated records.
func Pivot(records []model.Record) Table {
	col := make(map[string]int)
	var scenarios []string
	for _, r := range records {
		if _, ok := col[r.Scenario]; !ok {
			col[r.Scenario] = 0
			scenarios = append(scenarios, r.Scenario)
		}
	}
	sort.Strings(scenarios)
	for i, name := range scenarios {
		col[name] = i
	}

	rowIdx := make(map[int]int)
	var rows []Row
	for _, r := range records {
		i, ok := rowIdx[r.PeriodValue]
		if !ok {
			i = len(rows)
			rowIdx[r.PeriodValue] = i
			rows = append(rows, Row{
				Period:      r.Period,
				PeriodValue: r.PeriodValue,
				NetWorth:    make([]decimal.NullDecimal, len(scenarios)),
				Liquid:      make([]decimal.NullDecimal, len(scenarios)),
			})
		}
		c := col[r.Scenario]
		rows[i].NetWorth[c] = decimal.NewNullDecimal(r.NetWorth)
		rows[i].Liquid[c] = decimal.NewNullDecimal(r.Liquid)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].PeriodValue < rows[j].PeriodValue
	})
	return Table{Scenarios: scenarios, Rows: rows}
}
