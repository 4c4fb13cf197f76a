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

// SnapshotHeader is the fixed prefix of the snapshot CSV header. One column
// per account follows, named after the account.
const SnapshotHeader = "index,month,net_worth,liquid,undistributed,income,tax,spending,interest_cost,net_cashflow"

// accountColumns lists account names in first-seen order across snaps.
func accountColumns(snaps []model.Snapshot) []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range snaps {
		for _, b := range s.Balances {
			if !seen[b.Name] {
				seen[b.Name] = true
				names = append(names, b.Name)
			}
		}
	}
	return names
}

func money(v float64) string {
	return aggregate.Money(v).StringFixed(2)
}

// MarshalSnapshot converts a Snapshot to a CSV row with one balance column
// per entry of accounts.
func MarshalSnapshot(s model.Snapshot, accounts []string) []string {
	row := []string{
		strconv.Itoa(s.Index),
		s.Month,
		money(s.NetWorth),
		money(s.Liquid),
		money(s.Undistributed),
		money(s.Income),
		money(s.Tax),
		money(s.Spending),
		money(s.InterestCost),
		money(s.NetCashflow),
	}
	for _, name := range accounts {
		v, _ := s.Balance(name)
		row = append(row, money(v))
	}
	return row
}

// WriteSnapshots renders a scenario's monthly snapshots in the given format.
func WriteSnapshots(w io.Writer, snaps []model.Snapshot, format Format) error {
	switch format {
	case FormatCSV:
		return writeSnapshotsCSV(w, snaps)
	case FormatJSON:
		if snaps == nil {
			snaps = []model.Snapshot{}
		}
		return writeJSON(w, snaps)
	default:
		return writeSnapshotsTable(w, snaps)
	}
}

func writeSnapshotsCSV(w io.Writer, snaps []model.Snapshot) error {
	accounts := accountColumns(snaps)
	cw := csv.NewWriter(w)
	if err := cw.Write(append(strings.Split(SnapshotHeader, ","), accounts...)); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, s := range snaps {
		if err := cw.Write(MarshalSnapshot(s, accounts)); err != nil {
			return fmt.Errorf("writing snapshot %s: %w", s.Month, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeSnapshotsTable(w io.Writer, snaps []model.Snapshot) error {
	accounts := accountColumns(snaps)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	header := []string{"Month", "Net worth", "Liquid", "Income", "Tax", "Spending", "Net"}
	header = append(header, accounts...)
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for _, s := range snaps {
		cells := []string{
			s.Month,
			money(s.NetWorth),
			money(s.Liquid),
			money(s.Income),
			money(s.Tax),
			money(s.Spending),
			money(s.NetCashflow),
		}
		for _, name := range accounts {
			v, _ := s.Balance(name)
			cells = append(cells, money(v))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	return tw.Flush()
}

