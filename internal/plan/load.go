package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Files read by LoadDir.
const (
	PlanFile      = "plan.yaml"
	AccountsFile  = "accounts.csv"
	IncomesFile   = "incomes.csv"
	SpendingsFile = "spendings.csv"
)

// Decode parses a YAML or JSON plan document. YAML is a superset of JSON,
// but JSON input is decoded with encoding/json so its error messages point
// at JSON offsets.
func Decode(data []byte, format string) (RawPlan, error) {
	var raw RawPlan
	if strings.EqualFold(format, "json") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return RawPlan{}, fmt.Errorf("parsing plan JSON: %w", err)
		}
		return raw, nil
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return RawPlan{}, fmt.Errorf("parsing plan YAML: %w", err)
	}
	return raw, nil
}

// LoadFile reads a plan from a .yaml, .yml or .json file, or from a
// directory laid out for LoadDir.
func LoadFile(path string) (RawPlan, error) {
	info, err := os.Stat(path)
	if err != nil {
		return RawPlan{}, fmt.Errorf("reading plan: %w", err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return RawPlan{}, fmt.Errorf("reading plan: %w", err)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	raw, err := Decode(data, format)
	if err != nil {
		return RawPlan{}, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

// LoadDir reads <dir>/plan.yaml. When accounts.csv, incomes.csv or
// spendings.csv exist next to it, their rows replace the matching lists.
func LoadDir(dir string) (RawPlan, error) {
	raw, err := LoadFile(filepath.Join(dir, PlanFile))
	if err != nil {
		return RawPlan{}, err
	}

	accounts, err := readOptional(filepath.Join(dir, AccountsFile), ReadAccountRows)
	if err != nil {
		return RawPlan{}, err
	}
	if accounts != nil {
		raw.Accounts = accounts
	}

	incomes, err := readOptional(filepath.Join(dir, IncomesFile), ReadCashflowRows)
	if err != nil {
		return RawPlan{}, err
	}
	if incomes != nil {
		raw.Incomes = incomes
	}

	spendings, err := readOptional(filepath.Join(dir, SpendingsFile), ReadCashflowRows)
	if err != nil {
		return RawPlan{}, err
	}
	if spendings != nil {
		raw.Spendings = spendings
	}
	return raw, nil
}

// SaveFile writes a plan as YAML.
func SaveFile(path string, raw RawPlan) error {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshaling plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing plan: %w", err)
	}
	return nil
}

func readOptional[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}
