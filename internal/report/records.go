package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fincast-dev/fincast/internal/aggregate"
	"github.com/fincast-dev/fincast/internal/model"
)

// RecordHeader is the CSV header for aggregated records.
const RecordHeader = "scenario,period,period_value,month,net_worth,liquid"

const (
	numRecordFields = 6
	colScenario     = 0
	colPeriod       = 1
	colPeriodValue  = 2
	colMonth        = 3
	colNetWorth     = 4
	colLiquid       = 5
)

// MarshalRecord converts a Record to a CSV row.
func MarshalRecord(r model.Record) []string {
	row := make([]string, numRecordFields)
	row[colScenario] = r.Scenario
	row[colPeriod] = r.Period
	row[colPeriodValue] = strconv.Itoa(r.PeriodValue)
	row[colMonth] = r.Month
	row[colNetWorth] = r.NetWorth.StringFixed(2)
	row[colLiquid] = r.Liquid.StringFixed(2)
	return row
}

// WriteRecords renders records in the given format.
func WriteRecords(w io.Writer, records []model.Record, format Format) error {
	switch format {
	case FormatCSV:
		return writeRecordsCSV(w, records)
	case FormatJSON:
		if records == nil {
			records = []model.Record{}
		}
		return writeJSON(w, records)
	default:
		return writeRecordsTable(w, records)
	}
}

func writeRecordsCSV(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(RecordHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(MarshalRecord(r)); err != nil {
			return fmt.Errorf("writing record %s/%s: %w", r.Scenario, r.Period, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeRecordsTable(w io.Writer, records []model.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Period\tScenario\tNet worth\tLiquid\t")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", r.Period, r.Scenario, r.NetWorth.StringFixed(2), r.Liquid.StringFixed(2))
	}
	return tw.Flush()
}

// WritePivot renders a pivot table with one row per period and a net worth
// and liquid column per scenario. JSON output falls back to the pivot's
// rows.
func WritePivot(w io.Writer, table aggregate.Table, format Format) error {
	switch format {
	case FormatCSV:
		return writePivotCSV(w, table)
	case FormatJSON:
		return writeJSON(w, pivotJSON(table))
	default:
		return writePivotTable(w, table)
	}
}

func pivotHeader(table aggregate.Table, sep string) []string {
	header := []string{"period"}
	for _, name := range table.Scenarios {
		header = append(header, name+sep+"net_worth", name+sep+"liquid")
	}
	return header
}

func pivotCells(row aggregate.Row) []string {
	cells := []string{row.Period}
	for i := range row.NetWorth {
		cells = append(cells, nullMoney(row.NetWorth[i].Valid, row.NetWorth[i].Decimal.StringFixed(2)))
		cells = append(cells, nullMoney(row.Liquid[i].Valid, row.Liquid[i].Decimal.StringFixed(2)))
	}
	return cells
}

func nullMoney(valid bool, s string) string {
	if !valid {
		return ""
	}
	return s
}

func writePivotCSV(w io.Writer, table aggregate.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(pivotHeader(table, ":")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range table.Rows {
		if err := cw.Write(pivotCells(row)); err != nil {
			return fmt.Errorf("writing period %s: %w", row.Period, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writePivotTable(w io.Writer, table aggregate.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(pivotHeader(table, " "), "\t")+"\t")
	for _, row := range table.Rows {
		cells := pivotCells(row)
		for i, c := range cells {
			if c == "" {
				cells[i] = "-"
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	return tw.Flush()
}

type pivotEntry struct {
	Period   string             `json:"period"`
	NetWorth map[string]*string `json:"net_worth"`
	Liquid   map[string]*string `json:"liquid"`
}

func pivotJSON(table aggregate.Table) []pivotEntry {
	out := make([]pivotEntry, 0, len(table.Rows))
	for _, row := range table.Rows {
		e := pivotEntry{Period: row.Period, NetWorth: map[string]*string{}, Liquid: map[string]*string{}}
		for i, name := range table.Scenarios {
			e.NetWorth[name] = nullString(row.NetWorth[i].Valid, row.NetWorth[i].Decimal.StringFixed(2))
			e.Liquid[name] = nullString(row.Liquid[i].Valid, row.Liquid[i].Decimal.StringFixed(2))
		}
		out = append(out, e)
	}
	return out
}

func nullString(valid bool, s string) *string {
	if !valid {
		return nil
	}
	return &s
}
