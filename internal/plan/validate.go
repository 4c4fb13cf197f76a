package plan

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fincast-dev/fincast/internal/model"
	"github.com/fincast-dev/fincast/internal/month"
)

const (
	// MaxYears bounds the simulation horizon.
	MaxYears = 100

	defaultName = "Scenario"

	minInflation = -100.0
	maxInflation = 100.0

	// Account rates and amounts outside these bounds overflow within MaxYears.
	maxRate   = 100.0
	maxAmount = 1e12
)

// ValidationError names a payload field that could not be normalized.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is every problem found in one payload.
type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return "invalid plan: " + strings.Join(msgs, "; ")
}

// Options carries caller context used to fill missing plan-level fields.
type Options struct {
	DefaultStartYear int
	DefaultYears     int
	DefaultTaxRate   float64
}

type validator struct {
	errs ValidationErrors
}

func (v *validator) fail(field, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Normalize validates a raw payload, fills defaults and returns the plan.
// It has no side effects; the same input always yields the same plan.
func Normalize(raw RawPlan, opts Options) (model.Plan, error) {
	v := &validator{}

	p := model.Plan{
		Name:        strings.TrimSpace(raw.Name),
		CashAccount: strings.TrimSpace(raw.CashAccount),
	}
	if p.Name == "" {
		p.Name = defaultName
	}

	p.StartYear = v.startYear(raw.StartYear, opts.DefaultStartYear)
	p.Years = v.years(raw.Years, opts.DefaultYears)
	p.TaxRate = clamp(v.number("taxRate", raw.TaxRate, opts.DefaultTaxRate), 0, 100)
	p.LivingInflationRate = clamp(v.number("livingInflationRate", raw.LivingInflationRate, 0), minInflation, maxInflation)

	seen := make(map[string]bool)
	for i, row := range raw.Accounts {
		acct, ok := v.account(fmt.Sprintf("accounts[%d]", i), row)
		if !ok {
			continue
		}
		if seen[acct.Name] {
			v.fail(fmt.Sprintf("accounts[%d].name", i), "duplicate account %q", acct.Name)
			continue
		}
		seen[acct.Name] = true
		p.Accounts = append(p.Accounts, acct)
	}
	for i, row := range raw.Incomes {
		if cf, ok := v.cashflow(fmt.Sprintf("incomes[%d]", i), row, model.FlowIncome); ok {
			p.Incomes = append(p.Incomes, cf)
		}
	}
	for i, row := range raw.Spendings {
		if cf, ok := v.cashflow(fmt.Sprintf("spendings[%d]", i), row, model.FlowSpending); ok {
			p.Spendings = append(p.Spendings, cf)
		}
	}

	if p.CashAccount != "" && !seen[p.CashAccount] {
		v.fail("cashAccount", "unknown account %q", p.CashAccount)
	}

	if len(v.errs) > 0 {
		return model.Plan{}, v.errs
	}
	return p, nil
}

func (v *validator) startYear(f Field, fallback int) int {
	if blank(f) {
		if fallback == 0 {
			v.fail("startYear", "required")
			return 0
		}
		f = Num(float64(fallback))
	}
	year, ok := v.integer("startYear", f)
	if !ok {
		return 0
	}
	if year < 1000 || year > 9999 {
		v.fail("startYear", "%d is not a 4-digit year", year)
		return 0
	}
	return year
}

func (v *validator) years(f Field, fallback int) int {
	if blank(f) {
		if fallback <= 0 {
			return 1
		}
		return fallback
	}
	years, ok := v.integer("years", f)
	if !ok {
		return 0
	}
	if years < 1 || years > MaxYears {
		v.fail("years", "must be between 1 and %d, got %d", MaxYears, years)
		return 0
	}
	return years
}

func (v *validator) integer(field string, f Field) (int, bool) {
	n, err := parseNumber(f)
	if err != nil {
		v.fail(field, "%v", err)
		return 0, false
	}
	if n != math.Trunc(n) {
		v.fail(field, "must be a whole number, got %s", strings.TrimSpace(string(f)))
		return 0, false
	}
	return int(n), true
}

func (v *validator) number(field string, f Field, fallback float64) float64 {
	if blank(f) {
		return fallback
	}
	n, err := parseNumber(f)
	if err != nil {
		v.fail(field, "%v", err)
		return fallback
	}
	return n
}

// bounded parses a number that must lie within [-limit, limit].
func (v *validator) bounded(field string, f Field, limit float64) float64 {
	n := v.number(field, f, 0)
	if math.Abs(n) > limit {
		v.fail(field, "must be between %g and %g, got %g", -limit, limit, n)
		return 0
	}
	return n
}

func (v *validator) months(prefix, startLabel, endLabel string) (month.Month, month.Month) {
	start, err := month.ParseOptional(startLabel)
	if err != nil {
		v.fail(prefix+".startMonth", "%v", err)
	}
	end, err := month.ParseOptional(endLabel)
	if err != nil {
		v.fail(prefix+".endMonth", "%v", err)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		v.fail(prefix+".endMonth", "%s is before start %s", end, start)
	}
	return start, end
}

func (v *validator) account(prefix string, row RawAccount) (model.Account, bool) {
	name := strings.TrimSpace(row.Name)
	row = fillAccount(row)
	before := len(v.errs)

	principal := v.bounded(prefix+".principal", row.Principal, maxAmount)
	if name == "" {
		if principal == 0 {
			return model.Account{}, false
		}
		v.fail(prefix+".name", "required")
	}

	category := model.AccountCategory(strings.ToLower(strings.TrimSpace(row.Category)))
	if !category.Valid() {
		v.fail(prefix+".category", "unknown category %q", row.Category)
	}
	action := model.EndAction(strings.ToLower(strings.TrimSpace(row.ActionAtEnd)))
	if !action.Valid() {
		v.fail(prefix+".actionAtEnd", "unknown action %q", row.ActionAtEnd)
	}

	acct := model.Account{
		Name:         name,
		Category:     category,
		Principal:    principal,
		APR:          v.bounded(prefix+".apr", row.APR, maxRate),
		InterestRate: v.bounded(prefix+".interestRate", row.InterestRate, maxRate),
		ActionAtEnd:  action,
	}
	acct.Start, acct.End = v.months(prefix, row.StartMonth, row.EndMonth)
	return acct, len(v.errs) == before
}

func (v *validator) cashflow(prefix string, row RawCashflow, flow model.FlowType) (model.Cashflow, bool) {
	name := strings.TrimSpace(row.Name)
	row = fillCashflow(row, flow)
	before := len(v.errs)

	amount := v.bounded(prefix+".annualAmount", row.AnnualAmount, maxAmount)
	if name == "" {
		if amount == 0 {
			return model.Cashflow{}, false
		}
		v.fail(prefix+".name", "required")
	}
	if amount < 0 {
		v.fail(prefix+".annualAmount", "must not be negative, got %v", amount)
	}

	category := model.CashflowCategory(strings.ToLower(strings.TrimSpace(row.Category)))
	if !flow.Allows(category) {
		v.fail(prefix+".category", "unknown %s category %q", flow, row.Category)
	}

	cf := model.Cashflow{
		Name:         name,
		Flow:         flow,
		Category:     category,
		AnnualAmount: amount,
	}
	cf.Start, cf.End = v.months(prefix, row.StartMonth, row.EndMonth)
	return cf, len(v.errs) == before
}

func blank(f Field) bool {
	return strings.TrimSpace(string(f)) == ""
}

func parseNumber(f Field) (float64, error) {
	s := strings.TrimSpace(string(f))
	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", string(f))
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%q is not a finite number", string(f))
	}
	return n, nil
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
