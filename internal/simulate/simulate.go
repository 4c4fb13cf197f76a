// Package simulate advances a plan month by month and records the balances,
// net worth and liquidity of every simulated month.
package simulate

import (
	"math"

	"github.com/fincast-dev/fincast/internal/model"
	"github.com/fincast-dev/fincast/internal/month"
)

// SyntheticCashName names the zero-balance cash account added to plans that
// have no account able to receive income and spending.
const SyntheticCashName = "Cash Reserve"

type accountState struct {
	acct      model.Account
	start     int // first active month index
	end       int // last active month index; math.MaxInt when open ended
	value     float64
	started   bool
	closed    bool // liquidated or dropped
	dropping  bool // dropped this month; zeroed at the next step
	synthetic bool
}

func (s *accountState) active(m int) bool {
	return m >= s.start && m <= s.end
}

// accepting reports whether the account can take deposits in its current
// state. Accounts kept past their end month still accept them.
func (s *accountState) accepting() bool {
	return s.started && !s.closed
}

type cashflowState struct {
	flow  model.Cashflow
	start int
	end   int
}

func (s cashflowState) active(m int) bool {
	return m >= s.start && m <= s.end
}

type run struct {
	plan          model.Plan
	accounts      []*accountState
	incomes       []cashflowState
	spendings     []cashflowState
	sink          *accountState
	undistributed float64
}

// Simulate runs the plan and returns one snapshot per month, starting in
// January of the plan's start year. It never fails: values that are not
// finite are treated as zero.
func Simulate(p model.Plan) []model.Snapshot {
	months := p.Months()
	if months <= 0 {
		return nil
	}

	r := newRun(p)
	snaps := make([]model.Snapshot, 0, months)
	for m := 0; m < months; m++ {
		snaps = append(snaps, r.step(m))
	}
	return snaps
}

func newRun(p model.Plan) *run {
	r := &run{plan: p}
	for _, a := range p.Accounts {
		start, end := window(a.Start, a.End, p.StartYear)
		r.accounts = append(r.accounts, &accountState{acct: a, start: start, end: end})
	}
	for _, c := range p.Incomes {
		start, end := window(c.Start, c.End, p.StartYear)
		r.incomes = append(r.incomes, cashflowState{flow: c, start: start, end: end})
	}
	for _, c := range p.Spendings {
		start, end := window(c.Start, c.End, p.StartYear)
		r.spendings = append(r.spendings, cashflowState{flow: c, start: start, end: end})
	}

	idx := sinkIndex(p)
	if idx < 0 {
		r.sink = &accountState{
			acct: model.Account{
				Name:        syntheticName(p),
				Category:    model.CategoryCash,
				ActionAtEnd: model.ActionKeep,
			},
			start:     0,
			end:       math.MaxInt,
			synthetic: true,
		}
		r.accounts = append(r.accounts, r.sink)
	} else {
		r.sink = r.accounts[idx]
	}
	return r
}

// window converts optional start/end months to month indexes of the plan.
func window(start, end month.Month, startYear int) (int, int) {
	first, last := 0, math.MaxInt
	if !start.IsZero() {
		first = max(0, start.Index(startYear))
	}
	if !end.IsZero() {
		last = end.Index(startYear)
	}
	return first, last
}

func (r *run) step(m int) model.Snapshot {
	// A dropped account is reported through its end month and gone after.
	for _, s := range r.accounts {
		if s.dropping {
			s.value = 0
			s.closed = true
			s.dropping = false
		}
	}

	// Activation.
	for _, s := range r.accounts {
		if s.started || s.closed || !s.active(m) {
			continue
		}
		s.started = true
		s.value = finite(s.acct.Principal)
		if s == r.sink {
			s.value += r.undistributed
			r.undistributed = 0
		}
	}

	// Growth and interest, both from the opening balance.
	var interest float64
	for _, s := range r.accounts {
		if !s.started || s.closed || !s.active(m) {
			continue
		}
		opening := s.value
		s.value = opening * (1 + finite(s.acct.APR)/100/12)
		interest += opening * finite(s.acct.InterestRate) / 100 / 12
	}

	// End-of-life actions, after this month's growth.
	for _, s := range r.accounts {
		if !s.started || s.closed || s.dropping || m != s.end {
			continue
		}
		switch s.acct.ActionAtEnd {
		case model.ActionLiquidateToCash:
			balance := s.value
			s.value = 0
			s.closed = true
			r.deposit(balance)
		case model.ActionDrop:
			s.dropping = true
		}
	}

	var gross float64
	for _, c := range r.incomes {
		if c.active(m) {
			gross += finite(c.flow.Monthly())
		}
	}
	tax := gross * finite(r.plan.TaxRate) / 100

	var spending float64
	inflation := math.Pow(1+finite(r.plan.LivingInflationRate)/100, float64(m/12))
	for _, c := range r.spendings {
		if !c.active(m) {
			continue
		}
		amount := finite(c.flow.Monthly())
		if c.flow.Escalates() {
			amount *= inflation
		}
		spending += amount
	}

	net := gross - tax - spending - interest
	r.deposit(net)

	return r.snapshot(m, gross, tax, spending, interest, net)
}

// deposit credits the liquidity sink, or the undistributed pool while the
// sink has not started or has been closed.
func (r *run) deposit(amount float64) {
	if r.sink.accepting() {
		r.sink.value += amount
		return
	}
	r.undistributed += amount
}

func (r *run) snapshot(m int, gross, tax, spending, interest, net float64) model.Snapshot {
	snap := model.Snapshot{
		Index:         m,
		Month:         month.AtIndex(r.plan.StartYear, m).String(),
		Balances:      make([]model.Balance, 0, len(r.accounts)),
		Undistributed: r.undistributed,
		NetWorth:      r.undistributed,
		Liquid:        r.undistributed,
		Income:        gross,
		Tax:           tax,
		Spending:      spending,
		InterestCost:  interest,
		NetCashflow:   net,
	}
	for _, s := range r.accounts {
		snap.Balances = append(snap.Balances, model.Balance{
			Name:     s.acct.Name,
			Category: s.acct.Category,
			Value:    s.value,
		})
		if s.acct.Category.Owed() {
			snap.NetWorth -= s.value
		} else {
			snap.NetWorth += s.value
		}
		if s.acct.Category.Liquid() {
			snap.Liquid += s.value
		}
	}
	return snap
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
