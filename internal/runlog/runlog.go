// Package runlog keeps an append-only CSV history of scenario runs and
// deletions in a project directory.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Actions recorded in the log.
const (
	ActionSimulate = "simulate"
	ActionDelete   = "delete"
	ActionClear    = "clear"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp time.Time
	Action    string
	Scenario  string
	Months    int
	NetWorth  decimal.Decimal // final month; zero for deletions
	Details   string
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,action,scenario,months,net_worth,details"

const (
	numFields   = 6
	logDir      = "logs"
	logFile     = "logs/run-log.csv"
	colTime     = 0
	colAction   = 1
	colScenario = 2
	colMonths   = 3
	colNetWorth = 4
	colDetails  = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colAction] = e.Action
	row[colScenario] = e.Scenario
	row[colMonths] = strconv.Itoa(e.Months)
	row[colNetWorth] = e.NetWorth.StringFixed(2)
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}
	months, err := strconv.Atoi(record[colMonths])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing months %q: %w", record[colMonths], err)
	}
	netWorth, err := decimal.NewFromString(record[colNetWorth])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing net worth %q: %w", record[colNetWorth], err)
	}

	return Entry{
		Timestamp: ts,
		Action:    record[colAction],
		Scenario:  record[colScenario],
		Months:    months,
		NetWorth:  netWorth,
		Details:   record[colDetails],
	}, nil
}

// Log appends to the run log of one project directory. It is safe for
// concurrent use.
type Log struct {
	mu   sync.Mutex
	root string
}

// New returns the run log rooted at dir.
func New(dir string) *Log {
	return &Log{root: dir}
}

// Append writes entries to the log.
func (l *Log) Append(entries []Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Append(l.root, entries)
}

// Append writes entries to <root>/logs/run-log.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/run-log.csv.
// Returns an empty slice if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
