package model

import "github.com/shopspring/decimal"

// Balance is one account's balance at the end of a simulated month.
type Balance struct {
	Name     string          `json:"name"`
	Category AccountCategory `json:"category"`
	Value    float64         `json:"value"`
}

// Snapshot is the simulated state at the end of one month.
type Snapshot struct {
	Index         int       `json:"index"` // 0-based month within the plan
	Month         string    `json:"month"` // "YYYY-MM"
	Balances      []Balance `json:"balances"`
	Undistributed float64   `json:"undistributed"`
	NetWorth      float64   `json:"net_worth"`
	Liquid        float64   `json:"liquid"`
	Income        float64   `json:"income"` // gross
	Tax           float64   `json:"tax"`
	Spending      float64   `json:"spending"`
	InterestCost  float64   `json:"interest_cost"`
	NetCashflow   float64   `json:"net_cashflow"`
}

// Balance returns the named account's balance.
func (s Snapshot) Balance(name string) (float64, bool) {
	for _, b := range s.Balances {
		if b.Name == name {
			return b.Value, true
		}
	}
	return 0, false
}

// Record is one (scenario, period) row of an aggregated series.
type Record struct {
	Scenario    string          `json:"scenario"`
	Period      string          `json:"period"`
	PeriodValue int             `json:"period_value"`
	Month       string          `json:"month"` // end-of-period month the values come from
	NetWorth    decimal.Decimal `json:"net_worth"`
	Liquid      decimal.Decimal `json:"liquid"`
}
