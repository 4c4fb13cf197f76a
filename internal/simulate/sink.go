package simulate

import (
	"fmt"

	"github.com/fincast-dev/fincast/internal/model"
)

// AmbiguityKind names a fallback the simulator takes instead of failing.
type AmbiguityKind string

const (
	// AmbiguitySyntheticCash: no account can receive income and spending, so a
	// zero-balance cash account is added.
	AmbiguitySyntheticCash AmbiguityKind = "synthetic_cash_account"
	// AmbiguityCashStartsLate: the cash account starts after the plan does;
	// earlier flows are held as undistributed until it opens.
	AmbiguityCashStartsLate AmbiguityKind = "cash_account_starts_late"
	// AmbiguityCashCloses: the cash account is liquidated or dropped inside
	// the horizon; later flows are held as undistributed.
	AmbiguityCashCloses AmbiguityKind = "cash_account_closes"
	// AmbiguityCashNotCash: the designated cash account is not in the cash
	// category.
	AmbiguityCashNotCash AmbiguityKind = "cash_account_not_cash"
)

// ConfigurationAmbiguity describes a fallback applied to a plan. It is
// informational and never stops a run.
type ConfigurationAmbiguity struct {
	Kind    AmbiguityKind `json:"kind"`
	Account string        `json:"account"`
	Message string        `json:"message"`
}

func (a ConfigurationAmbiguity) String() string {
	return fmt.Sprintf("%s (%s): %s", a.Kind, a.Account, a.Message)
}

// CashAccount returns the name of the account that receives income, pays
// spending and takes liquidated balances.
func CashAccount(p model.Plan) string {
	if idx := sinkIndex(p); idx >= 0 {
		return p.Accounts[idx].Name
	}
	return syntheticName(p)
}

// Ambiguities reports the fallbacks Simulate will apply to p.
func Ambiguities(p model.Plan) []ConfigurationAmbiguity {
	idx := sinkIndex(p)
	if idx < 0 {
		name := syntheticName(p)
		return []ConfigurationAmbiguity{{
			Kind:    AmbiguitySyntheticCash,
			Account: name,
			Message: "plan has no cash account; income and spending go to a synthetic zero-balance account",
		}}
	}

	acct := p.Accounts[idx]
	var out []ConfigurationAmbiguity
	if acct.Category != model.CategoryCash {
		out = append(out, ConfigurationAmbiguity{
			Kind:    AmbiguityCashNotCash,
			Account: acct.Name,
			Message: fmt.Sprintf("designated cash account has category %q", acct.Category),
		})
	}

	start, end := window(acct.Start, acct.End, p.StartYear)
	if start > 0 {
		out = append(out, ConfigurationAmbiguity{
			Kind:    AmbiguityCashStartsLate,
			Account: acct.Name,
			Message: fmt.Sprintf("opens in %s; earlier flows are held as undistributed", acct.Start),
		})
	}
	if end < p.Months() && acct.ActionAtEnd != model.ActionKeep {
		out = append(out, ConfigurationAmbiguity{
			Kind:    AmbiguityCashCloses,
			Account: acct.Name,
			Message: fmt.Sprintf("closes in %s (%s); later flows are held as undistributed", acct.End, acct.ActionAtEnd),
		})
	}
	return out
}

// sinkIndex returns the index of the plan's cash account, or -1.
func sinkIndex(p model.Plan) int {
	if p.CashAccount != "" {
		for i, a := range p.Accounts {
			if a.Name == p.CashAccount {
				return i
			}
		}
	}
	for i, a := range p.Accounts {
		if a.Category == model.CategoryCash {
			return i
		}
	}
	return -1
}

func syntheticName(p model.Plan) string {
	for _, a := range p.Accounts {
		if a.Name == SyntheticCashName {
			return SyntheticCashName + " (synthetic)"
		}
	}
	return SyntheticCashName
}
