package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincast-dev/fincast/internal/model"
	"github.com/fincast-dev/fincast/internal/month"
)

var defaultOpts = Options{DefaultStartYear: 2025}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %v", err)
	out := make(map[string]string, len(verrs))
	for _, e := range verrs {
		out[e.Field] = e.Message
	}
	return out
}

func TestNormalize_Defaults(t *testing.T) {
	p, err := Normalize(RawPlan{}, defaultOpts)
	require.NoError(t, err)

	assert.Equal(t, "Scenario", p.Name)
	assert.Equal(t, 2025, p.StartYear)
	assert.Equal(t, 1, p.Years, "missing years falls back to 1, never 0")
	assert.InDelta(t, 0.0, p.TaxRate, 1e-9)
	assert.InDelta(t, 0.0, p.LivingInflationRate, 1e-9)
	assert.Empty(t, p.Accounts)
}

func TestNormalize_DefaultYearsFromOptions(t *testing.T) {
	p, err := Normalize(RawPlan{}, Options{DefaultStartYear: 2030, DefaultYears: 10})
	require.NoError(t, err)
	assert.Equal(t, 2030, p.StartYear)
	assert.Equal(t, 10, p.Years)
}

func TestNormalize_DefaultTaxRateFromOptions(t *testing.T) {
	p, err := Normalize(RawPlan{}, Options{DefaultStartYear: 2030, DefaultTaxRate: 30})
	require.NoError(t, err)
	assert.InDelta(t, 30.0, p.TaxRate, 1e-9)

	p, err = Normalize(RawPlan{TaxRate: "10"}, Options{DefaultStartYear: 2030, DefaultTaxRate: 30})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, p.TaxRate, 1e-9)
}

func TestNormalize_DefaultPlan(t *testing.T) {
	p, err := Normalize(DefaultRaw(2026), Options{})
	require.NoError(t, err)

	assert.Equal(t, "MyPlan", p.Name)
	assert.Equal(t, 2026, p.StartYear)
	assert.Equal(t, 5, p.Years)
	assert.InDelta(t, 25.0, p.TaxRate, 1e-9)
	require.Len(t, p.Accounts, 7)
	assert.Equal(t, "Cash Reserve", p.Accounts[0].Name)
	assert.Equal(t, model.CategoryCash, p.Accounts[0].Category)
	assert.InDelta(t, -12.0, p.Accounts[6].APR, 1e-9)
	require.Len(t, p.Incomes, 2)
	require.Len(t, p.Spendings, 2)
	assert.Equal(t, model.SpendingLiving, p.Spendings[0].Category)
}

func TestNormalize_Deterministic(t *testing.T) {
	a, err := Normalize(DefaultRaw(2026), Options{})
	require.NoError(t, err)
	b, err := Normalize(DefaultRaw(2026), Options{})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNormalize_StartYearRequired(t *testing.T) {
	_, err := Normalize(RawPlan{}, Options{})
	errs := fieldErrors(t, err)
	assert.Contains(t, errs, "startYear")
}

func TestNormalize_PlanFields(t *testing.T) {
	tests := []struct {
		name  string
		raw   RawPlan
		field string
	}{
		{"zero years", RawPlan{Years: "0"}, "years"},
		{"negative years", RawPlan{Years: "-3"}, "years"},
		{"too many years", RawPlan{Years: "500"}, "years"},
		{"fractional years", RawPlan{Years: "2.5"}, "years"},
		{"text years", RawPlan{Years: "five"}, "years"},
		{"short start year", RawPlan{StartYear: "25"}, "startYear"},
		{"text tax", RawPlan{TaxRate: "lots"}, "taxRate"},
		{"nan inflation", RawPlan{LivingInflationRate: "NaN"}, "livingInflationRate"},
		{"inf tax", RawPlan{TaxRate: "Inf"}, "taxRate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw, defaultOpts)
			require.Error(t, err)
			assert.Contains(t, fieldErrors(t, err), tt.field)
		})
	}
}

func TestNormalize_Clamping(t *testing.T) {
	p, err := Normalize(RawPlan{TaxRate: "140", LivingInflationRate: "-250"}, defaultOpts)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, p.TaxRate, 1e-9)
	assert.InDelta(t, -100.0, p.LivingInflationRate, 1e-9)

	p, err = Normalize(RawPlan{TaxRate: "-5", LivingInflationRate: "-2.5"}, defaultOpts)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, p.TaxRate, 1e-9)
	assert.InDelta(t, -2.5, p.LivingInflationRate, 1e-9, "deflation is valid")
}

func TestNormalize_NumericText(t *testing.T) {
	p, err := Normalize(RawPlan{
		Years: " 3 ",
		Accounts: []RawAccount{
			{Name: "Savings", Category: "cash", Principal: "12,500.50"},
		},
	}, defaultOpts)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Years)
	assert.InDelta(t, 12500.50, p.Accounts[0].Principal, 1e-9)
}

func TestNormalize_BlankFieldsTakeDefaults(t *testing.T) {
	p, err := Normalize(RawPlan{StartYear: " ", Years: "  ", TaxRate: "\t"}, Options{DefaultStartYear: 2030, DefaultYears: 4})
	require.NoError(t, err)
	assert.Equal(t, 2030, p.StartYear)
	assert.Equal(t, 4, p.Years)
	assert.InDelta(t, 0.0, p.TaxRate, 1e-9)
}

func TestNormalize_AccountBounds(t *testing.T) {
	raw := RawPlan{
		Accounts: []RawAccount{
			{Name: "Rocket", Category: "investment", Principal: "1000", APR: "1e6"},
			{Name: "Shark", Category: "debt", Principal: "1000", InterestRate: "-500"},
			{Name: "Vault", Category: "cash", Principal: "1e15"},
			{Name: "Edge", Category: "investment", Principal: "1e12", APR: "-100", InterestRate: "100"},
		},
		Incomes: []RawCashflow{
			{Name: "Lottery", AnnualAmount: "5e13"},
		},
	}
	_, err := Normalize(raw, defaultOpts)
	errs := fieldErrors(t, err)

	assert.Contains(t, errs, "accounts[0].apr")
	assert.Contains(t, errs, "accounts[1].interestRate")
	assert.Contains(t, errs, "accounts[2].principal")
	assert.Contains(t, errs, "incomes[0].annualAmount")
	for field := range errs {
		assert.NotContains(t, field, "accounts[3]", "bounds are inclusive")
	}
}

func TestNormalize_AccountDefaults(t *testing.T) {
	p, err := Normalize(RawPlan{
		Accounts: []RawAccount{{Name: "House", Principal: "300000"}},
	}, defaultOpts)
	require.NoError(t, err)
	require.Len(t, p.Accounts, 1)

	acct := p.Accounts[0]
	assert.Equal(t, model.CategoryAsset, acct.Category)
	assert.Equal(t, model.ActionKeep, acct.ActionAtEnd)
	assert.InDelta(t, 0.0, acct.APR, 1e-9)
	assert.InDelta(t, 0.0, acct.InterestRate, 1e-9)
	assert.True(t, acct.Start.IsZero())
	assert.True(t, acct.End.IsZero())
}

func TestNormalize_CashflowDefaults(t *testing.T) {
	p, err := Normalize(RawPlan{
		Incomes:   []RawCashflow{{Name: "Job", AnnualAmount: "60000"}},
		Spendings: []RawCashflow{{Name: "Rent", AnnualAmount: "24000"}},
	}, defaultOpts)
	require.NoError(t, err)

	assert.Equal(t, model.IncomeSalary, p.Incomes[0].Category)
	assert.Equal(t, model.FlowIncome, p.Incomes[0].Flow)
	assert.Equal(t, model.SpendingLiving, p.Spendings[0].Category)
	assert.Equal(t, model.FlowSpending, p.Spendings[0].Flow)
}

func TestNormalize_DropsBlankRows(t *testing.T) {
	p, err := Normalize(RawPlan{
		Accounts:  []RawAccount{{}, {Name: "  ", Principal: "0"}, {Name: "Checking", Category: "cash"}},
		Incomes:   []RawCashflow{{Category: "bonus"}},
		Spendings: []RawCashflow{{AnnualAmount: "0"}},
	}, defaultOpts)
	require.NoError(t, err)
	require.Len(t, p.Accounts, 1)
	assert.Equal(t, "Checking", p.Accounts[0].Name, "named zero-principal accounts are kept")
	assert.Empty(t, p.Incomes)
	assert.Empty(t, p.Spendings)
}

func TestNormalize_RowErrors(t *testing.T) {
	raw := RawPlan{
		CashAccount: "Nowhere",
		Accounts: []RawAccount{
			{Principal: "100"},
			{Name: "A", Category: "crypto"},
			{Name: "B", ActionAtEnd: "sell"},
			{Name: "C", APR: "fast"},
			{Name: "D", StartMonth: "2025-13"},
			{Name: "E", StartMonth: "2026-06", EndMonth: "2026-01"},
			{Name: "F"},
			{Name: "F"},
		},
		Incomes: []RawCashflow{
			{Name: "Gig", Category: "living", AnnualAmount: "10"},
		},
		Spendings: []RawCashflow{
			{Name: "Refund", AnnualAmount: "-5"},
			{Name: "Trip", EndMonth: "soon", AnnualAmount: "1"},
		},
	}
	_, err := Normalize(raw, defaultOpts)
	errs := fieldErrors(t, err)

	for _, field := range []string{
		"accounts[0].name",
		"accounts[1].category",
		"accounts[2].actionAtEnd",
		"accounts[3].apr",
		"accounts[4].startMonth",
		"accounts[5].endMonth",
		"accounts[7].name",
		"incomes[0].category",
		"spendings[0].annualAmount",
		"spendings[1].endMonth",
		"cashAccount",
	} {
		assert.Contains(t, errs, field)
	}
	assert.NotContains(t, errs, "accounts[6].name")
}

func TestNormalize_Months(t *testing.T) {
	p, err := Normalize(RawPlan{
		Accounts: []RawAccount{
			{Name: "Loan", Category: "debt", Principal: "5000", StartMonth: "2025-03", EndMonth: "2026-02", ActionAtEnd: "DROP"},
		},
	}, defaultOpts)
	require.NoError(t, err)

	acct := p.Accounts[0]
	assert.Equal(t, month.New(2025, 3), acct.Start)
	assert.Equal(t, month.New(2026, 2), acct.End)
	assert.Equal(t, model.ActionDrop, acct.ActionAtEnd, "actions are case-insensitive")
}

func TestNormalize_CashAccount(t *testing.T) {
	p, err := Normalize(RawPlan{
		CashAccount: "Brokerage",
		Accounts: []RawAccount{
			{Name: "Checking", Category: "cash"},
			{Name: "Brokerage", Category: "investment"},
		},
	}, defaultOpts)
	require.NoError(t, err)
	assert.Equal(t, "Brokerage", p.CashAccount)
}

func TestValidationErrorsMessage(t *testing.T) {
	err := ValidationErrors{
		{Field: "years", Message: "required"},
		{Field: "taxRate", Message: "bad"},
	}
	assert.Equal(t, "invalid plan: years: required; taxRate: bad", err.Error())
}
