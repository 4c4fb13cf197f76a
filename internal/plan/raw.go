package plan

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field is a loosely typed scalar from a plan payload. Numbers and strings
// are both accepted; an empty Field means the value is missing.
type Field string

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (f *Field) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*f = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Field(s)
	case strings.HasPrefix(raw, "{"), strings.HasPrefix(raw, "["):
		return fmt.Errorf("expected a scalar, got %s", raw)
	default:
		*f = Field(raw)
	}
	return nil
}

// MarshalJSON writes numbers bare and everything else as a string.
func (f Field) MarshalJSON() ([]byte, error) {
	if f == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseFloat(string(f), 64); err == nil && json.Valid([]byte(f)) {
		return []byte(f), nil
	}
	return json.Marshal(string(f))
}

// UnmarshalYAML accepts any scalar node.
func (f *Field) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar", node.Line)
	}
	if node.Tag == "!!null" {
		*f = ""
		return nil
	}
	*f = Field(node.Value)
	return nil
}

// MarshalYAML writes the value as a plain scalar.
func (f Field) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: string(f)}, nil
}

// Num returns a Field holding v.
func Num(v float64) Field {
	return Field(strconv.FormatFloat(v, 'f', -1, 64))
}

// RawPlan is a plan payload as a user or client wrote it.
type RawPlan struct {
	Name                string        `yaml:"name" json:"name"`
	StartYear           Field         `yaml:"startYear,omitempty" json:"startYear,omitempty"`
	Years               Field         `yaml:"years,omitempty" json:"years,omitempty"`
	TaxRate             Field         `yaml:"taxRate,omitempty" json:"taxRate,omitempty"`
	LivingInflationRate Field         `yaml:"livingInflationRate,omitempty" json:"livingInflationRate,omitempty"`
	CashAccount         string        `yaml:"cashAccount,omitempty" json:"cashAccount,omitempty"`
	Accounts            []RawAccount  `yaml:"accounts" json:"accounts"`
	Incomes             []RawCashflow `yaml:"incomes" json:"incomes"`
	Spendings           []RawCashflow `yaml:"spendings" json:"spendings"`
}

// RawAccount is one account row of a payload.
type RawAccount struct {
	Name         string `yaml:"name" json:"name"`
	Category     string `yaml:"category,omitempty" json:"category,omitempty"`
	Principal    Field  `yaml:"principal,omitempty" json:"principal,omitempty"`
	APR          Field  `yaml:"apr,omitempty" json:"apr,omitempty"`
	InterestRate Field  `yaml:"interestRate,omitempty" json:"interestRate,omitempty"`
	StartMonth   string `yaml:"startMonth,omitempty" json:"startMonth,omitempty"`
	EndMonth     string `yaml:"endMonth,omitempty" json:"endMonth,omitempty"`
	ActionAtEnd  string `yaml:"actionAtEnd,omitempty" json:"actionAtEnd,omitempty"`
}

// RawCashflow is one income or spending row of a payload.
type RawCashflow struct {
	Name         string `yaml:"name" json:"name"`
	Category     string `yaml:"category,omitempty" json:"category,omitempty"`
	AnnualAmount Field  `yaml:"annualAmount,omitempty" json:"annualAmount,omitempty"`
	StartMonth   string `yaml:"startMonth,omitempty" json:"startMonth,omitempty"`
	EndMonth     string `yaml:"endMonth,omitempty" json:"endMonth,omitempty"`
}
