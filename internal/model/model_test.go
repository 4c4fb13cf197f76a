package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountCategory(t *testing.T) {
	tests := []struct {
		category AccountCategory
		liquid   bool
		owed     bool
	}{
		{CategoryCash, true, false},
		{CategoryInvestment, true, false},
		{CategoryAsset, false, false},
		{CategoryDebt, false, true},
		{CategoryLiability, false, true},
	}
	for _, tt := range tests {
		assert.True(t, tt.category.Valid(), "%s should be valid", tt.category)
		assert.Equal(t, tt.liquid, tt.category.Liquid(), "Liquid(%s)", tt.category)
		assert.Equal(t, tt.owed, tt.category.Owed(), "Owed(%s)", tt.category)
	}
	assert.False(t, AccountCategory("crypto").Valid())
}

func TestEndAction(t *testing.T) {
	for _, a := range EndActions {
		assert.True(t, a.Valid())
	}
	assert.False(t, EndAction("sell").Valid())
}

func TestFlowAllows(t *testing.T) {
	assert.True(t, FlowIncome.Allows(IncomeSalary))
	assert.True(t, FlowIncome.Allows(CategoryOther))
	assert.False(t, FlowIncome.Allows(SpendingLiving))

	assert.True(t, FlowSpending.Allows(SpendingLiving))
	assert.True(t, FlowSpending.Allows(CategoryOther))
	assert.False(t, FlowSpending.Allows(IncomeBonus))
}

func TestCashflow(t *testing.T) {
	c := Cashflow{Flow: FlowSpending, Category: SpendingLiving, AnnualAmount: 1200}
	assert.InDelta(t, 100.0, c.Monthly(), 1e-9)
	assert.True(t, c.Escalates())

	c.Category = SpendingHealth
	assert.False(t, c.Escalates())

	c = Cashflow{Flow: FlowIncome, Category: SpendingLiving}
	assert.False(t, c.Escalates(), "income is never escalated")
}

func TestSnapshotBalance(t *testing.T) {
	s := Snapshot{Balances: []Balance{{Name: "Checking", Value: 10}, {Name: "Car", Value: 5}}}
	v, ok := s.Balance("Car")
	assert.True(t, ok)
	assert.InDelta(t, 5.0, v, 1e-9)

	_, ok = s.Balance("Boat")
	assert.False(t, ok)
}

func TestPlanMonths(t *testing.T) {
	assert.Equal(t, 36, Plan{Years: 3}.Months())
}
