package plan

import "github.com/fincast-dev/fincast/internal/model"

// Field defaults applied to rows that leave a field out.
var (
	accountDefaults = RawAccount{
		Category:     string(model.CategoryAsset),
		Principal:    "0",
		APR:          "0",
		InterestRate: "0",
		ActionAtEnd:  string(model.ActionKeep),
	}
	incomeDefaults = RawCashflow{
		Category:     string(model.IncomeSalary),
		AnnualAmount: "0",
	}
	spendingDefaults = RawCashflow{
		Category:     string(model.SpendingLiving),
		AnnualAmount: "0",
	}
)

// DefaultRaw returns the starter plan written by "fincast init".
func DefaultRaw(startYear int) RawPlan {
	return RawPlan{
		Name:                "MyPlan",
		StartYear:           Num(float64(startYear)),
		Years:               "5",
		TaxRate:             "25",
		LivingInflationRate: "0",
		Accounts:            DefaultAccounts(),
		Incomes: []RawCashflow{
			{Name: "Household Salary", Category: "salary", AnnualAmount: "75000"},
			{Name: "Other Income", Category: "other", AnnualAmount: "6000"},
		},
		Spendings: []RawCashflow{
			{Name: "Household Expenses", Category: "living", AnnualAmount: "36000"},
			{Name: "Debt Payments", Category: "debt", AnnualAmount: "6000"},
		},
	}
}

// DefaultAccounts returns the starter account table.
func DefaultAccounts() []RawAccount {
	return []RawAccount{
		{Name: "Cash Reserve", Category: "cash", Principal: "20000", APR: "1", ActionAtEnd: "keep"},
		{Name: "Certificate of Deposit", Category: "investment", Principal: "10000", APR: "3", ActionAtEnd: "keep"},
		{Name: "Index Fund", Category: "investment", Principal: "15000", APR: "5", ActionAtEnd: "keep"},
		{Name: "HSA", Category: "investment", Principal: "6000", APR: "4", ActionAtEnd: "keep"},
		{Name: "Taxable Brokerage", Category: "investment", Principal: "20000", APR: "6", ActionAtEnd: "keep"},
		{Name: "401k", Category: "investment", Principal: "30000", APR: "6", ActionAtEnd: "keep"},
		{Name: "Car", Category: "asset", Principal: "18000", APR: "-12", ActionAtEnd: "keep"},
	}
}

func fillAccount(r RawAccount) RawAccount {
	if r.Category == "" {
		r.Category = accountDefaults.Category
	}
	if r.Principal == "" {
		r.Principal = accountDefaults.Principal
	}
	if r.APR == "" {
		r.APR = accountDefaults.APR
	}
	if r.InterestRate == "" {
		r.InterestRate = accountDefaults.InterestRate
	}
	if r.ActionAtEnd == "" {
		r.ActionAtEnd = accountDefaults.ActionAtEnd
	}
	return r
}

func fillCashflow(r RawCashflow, flow model.FlowType) RawCashflow {
	defaults := incomeDefaults
	if flow == model.FlowSpending {
		defaults = spendingDefaults
	}
	if r.Category == "" {
		r.Category = defaults.Category
	}
	if r.AnnualAmount == "" {
		r.AnnualAmount = defaults.AnnualAmount
	}
	return r
}
