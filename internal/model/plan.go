package model

// Plan is a normalized simulation input.
type Plan struct {
	Name                string
	StartYear           int
	Years               int
	TaxRate             float64 // percent
	LivingInflationRate float64 // percent per year, may be negative
	CashAccount         string  // primary liquidity sink; empty = first cash account
	Accounts            []Account
	Incomes             []Cashflow
	Spendings           []Cashflow
}

// Months returns the number of simulated months.
func (p Plan) Months() int {
	return p.Years * 12
}
