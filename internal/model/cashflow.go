package model

import "github.com/fincast-dev/fincast/internal/month"

// FlowType tells income rows from spending rows.
type FlowType string

const (
	FlowIncome   FlowType = "income"
	FlowSpending FlowType = "spending"
)

// CashflowCategory classifies income and spending rows.
type CashflowCategory string

const (
	IncomeSalary   CashflowCategory = "salary"
	IncomeBonus    CashflowCategory = "bonus"
	IncomeRental   CashflowCategory = "rental"
	IncomeBusiness CashflowCategory = "business"

	SpendingLiving  CashflowCategory = "living"
	SpendingParents CashflowCategory = "parents"
	SpendingDebt    CashflowCategory = "debt"
	SpendingHealth  CashflowCategory = "health"

	CategoryOther CashflowCategory = "other"
)

// IncomeCategories lists the categories allowed on income rows.
var IncomeCategories = []CashflowCategory{IncomeSalary, IncomeBonus, IncomeRental, IncomeBusiness, CategoryOther}

// SpendingCategories lists the categories allowed on spending rows.
var SpendingCategories = []CashflowCategory{SpendingLiving, SpendingParents, SpendingDebt, SpendingHealth, CategoryOther}

// Categories returns the categories allowed for the flow type.
func (f FlowType) Categories() []CashflowCategory {
	if f == FlowSpending {
		return SpendingCategories
	}
	return IncomeCategories
}

// Allows reports whether c is a valid category for the flow type.
func (f FlowType) Allows(c CashflowCategory) bool {
	for _, k := range f.Categories() {
		if c == k {
			return true
		}
	}
	return false
}

// Cashflow is one income or spending row.
type Cashflow struct {
	Name         string
	Flow         FlowType
	Category     CashflowCategory
	AnnualAmount float64
	Start        month.Month
	End          month.Month
}

// Monthly returns the nominal monthly amount.
func (c Cashflow) Monthly() float64 {
	return c.AnnualAmount / 12
}

// Escalates reports whether living-cost inflation applies to the row.
func (c Cashflow) Escalates() bool {
	return c.Flow == FlowSpending && c.Category == SpendingLiving
}
