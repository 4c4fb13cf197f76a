package model

import "github.com/fincast-dev/fincast/internal/month"

// AccountCategory classifies balance-bearing accounts.
type AccountCategory string

const (
	CategoryCash       AccountCategory = "cash"
	CategoryAsset      AccountCategory = "asset"
	CategoryInvestment AccountCategory = "investment"
	CategoryDebt       AccountCategory = "debt"
	CategoryLiability  AccountCategory = "liability"
)

// AccountCategories lists every account category in display order.
var AccountCategories = []AccountCategory{
	CategoryCash,
	CategoryAsset,
	CategoryInvestment,
	CategoryDebt,
	CategoryLiability,
}

// Valid reports whether c is a known category.
func (c AccountCategory) Valid() bool {
	for _, k := range AccountCategories {
		if c == k {
			return true
		}
	}
	return false
}

// Liquid reports whether balances in c count toward liquid assets.
func (c AccountCategory) Liquid() bool {
	return c == CategoryCash || c == CategoryInvestment
}

// Owed reports whether balances in c are amounts owed (positive = owed).
func (c AccountCategory) Owed() bool {
	return c == CategoryDebt || c == CategoryLiability
}

// EndAction is what happens to an account in its end month.
type EndAction string

const (
	ActionKeep            EndAction = "keep"
	ActionLiquidateToCash EndAction = "liquidate_to_cash"
	ActionDrop            EndAction = "drop"
)

// EndActions lists every end action.
var EndActions = []EndAction{ActionKeep, ActionLiquidateToCash, ActionDrop}

// Valid reports whether a is a known end action.
func (a EndAction) Valid() bool {
	return a == ActionKeep || a == ActionLiquidateToCash || a == ActionDrop
}

// Account is one row of a plan's account table.
type Account struct {
	Name         string
	Category     AccountCategory
	Principal    float64
	APR          float64 // percent, asset growth
	InterestRate float64 // percent, debt-service cost
	Start        month.Month
	End          month.Month
	ActionAtEnd  EndAction
}
