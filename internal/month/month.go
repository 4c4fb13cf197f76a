package month

import (
	"fmt"
	"strconv"
	"strings"
)

// Month is a calendar month. The zero value means "unset".
type Month struct {
	Year  int
	Month int // 1..12
}

// New returns the month for year and month-of-year.
func New(year, month int) Month {
	return Month{Year: year, Month: month}
}

// FromOrdinal is the inverse of Ordinal.
func FromOrdinal(ord int) Month {
	return Month{Year: floorDiv(ord, 12), Month: floorMod(ord, 12) + 1}
}

// Format returns a label like "2026-01".
func Format(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// Parse parses a "YYYY-MM" label. Surrounding whitespace is ignored.
func Parse(label string) (Month, error) {
	s := strings.TrimSpace(label)
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return Month{}, fmt.Errorf("invalid month %q: want YYYY-MM", label)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Month{}, fmt.Errorf("invalid year in month %q: %w", label, err)
	}
	mon, err := strconv.Atoi(parts[1])
	if err != nil {
		return Month{}, fmt.Errorf("invalid month in month %q: %w", label, err)
	}
	if year < 1000 || mon < 1 || mon > 12 {
		return Month{}, fmt.Errorf("invalid month %q: out of range", label)
	}
	return Month{Year: year, Month: mon}, nil
}

// ParseOptional is Parse, except that an empty label yields the zero Month.
func ParseOptional(label string) (Month, error) {
	if strings.TrimSpace(label) == "" {
		return Month{}, nil
	}
	return Parse(label)
}

// IsZero reports whether m is unset.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// String returns the "YYYY-MM" label, or "" for the zero Month.
func (m Month) String() string {
	if m.IsZero() {
		return ""
	}
	return Format(m.Year, m.Month)
}

// Ordinal returns an absolute month number that orders months across years.
func (m Month) Ordinal() int {
	return m.Year*12 + m.Month - 1
}

// Index returns the 0-based offset of m from January of startYear.
// Months before the start are negative.
func (m Month) Index(startYear int) int {
	return m.Ordinal() - startYear*12
}

// Quarter returns the calendar quarter (1..4).
func (m Month) Quarter() int {
	return (m.Month-1)/3 + 1
}

// Before reports whether m is strictly earlier than o.
func (m Month) Before(o Month) bool {
	return m.Ordinal() < o.Ordinal()
}

// AtIndex returns the month idx months after January of startYear.
func AtIndex(startYear, idx int) Month {
	return FromOrdinal(startYear*12 + idx)
}

// Range lists every month label of a horizon starting in January of startYear.
func Range(startYear, years int) []string {
	if startYear <= 0 || years <= 0 {
		return nil
	}
	labels := make([]string, 0, years*12)
	for i := 0; i < years*12; i++ {
		labels = append(labels, AtIndex(startYear, i).String())
	}
	return labels
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
