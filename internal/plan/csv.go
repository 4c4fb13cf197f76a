package plan

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// AccountHeader is the CSV header for account tables.
const AccountHeader = "name,category,principal,apr,interest_rate,start_month,end_month,action_at_end"

// CashflowHeader is the CSV header for income and spending tables.
const CashflowHeader = "name,category,annual_amount,start_month,end_month"

const (
	numAccountFields = 8
	colAcctName      = 0
	colAcctCategory  = 1
	colPrincipal     = 2
	colAPR           = 3
	colInterest      = 4
	colAcctStart     = 5
	colAcctEnd       = 6
	colAction        = 7

	numCashflowFields = 5
	colFlowName       = 0
	colFlowCategory   = 1
	colAmount         = 2
	colFlowStart      = 3
	colFlowEnd        = 4
)

// ReadAccountRows reads an account table (header row first).
func ReadAccountRows(r io.Reader) ([]RawAccount, error) {
	records, err := readTable(r, numAccountFields)
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}
	var rows []RawAccount
	for i, rec := range records {
		row, err := UnmarshalAccountRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteAccountRows writes an account table including the header.
func WriteAccountRows(w io.Writer, rows []RawAccount) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(AccountHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(MarshalAccountRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccountRow converts an account row to CSV fields.
func MarshalAccountRow(row RawAccount) []string {
	rec := make([]string, numAccountFields)
	rec[colAcctName] = row.Name
	rec[colAcctCategory] = row.Category
	rec[colPrincipal] = string(row.Principal)
	rec[colAPR] = string(row.APR)
	rec[colInterest] = string(row.InterestRate)
	rec[colAcctStart] = row.StartMonth
	rec[colAcctEnd] = row.EndMonth
	rec[colAction] = row.ActionAtEnd
	return rec
}

// UnmarshalAccountRow converts CSV fields to an account row. Values are kept
// as text; Normalize does the typing.
func UnmarshalAccountRow(rec []string) (RawAccount, error) {
	if len(rec) != numAccountFields {
		return RawAccount{}, fmt.Errorf("expected %d fields, got %d", numAccountFields, len(rec))
	}
	return RawAccount{
		Name:         rec[colAcctName],
		Category:     rec[colAcctCategory],
		Principal:    Field(rec[colPrincipal]),
		APR:          Field(rec[colAPR]),
		InterestRate: Field(rec[colInterest]),
		StartMonth:   rec[colAcctStart],
		EndMonth:     rec[colAcctEnd],
		ActionAtEnd:  rec[colAction],
	}, nil
}

// ReadCashflowRows reads an income or spending table (header row first).
func ReadCashflowRows(r io.Reader) ([]RawCashflow, error) {
	records, err := readTable(r, numCashflowFields)
	if err != nil {
		return nil, fmt.Errorf("reading cashflow CSV: %w", err)
	}
	var rows []RawCashflow
	for i, rec := range records {
		row, err := UnmarshalCashflowRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteCashflowRows writes an income or spending table including the header.
func WriteCashflowRows(w io.Writer, rows []RawCashflow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(CashflowHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(MarshalCashflowRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalCashflowRow converts a cashflow row to CSV fields.
func MarshalCashflowRow(row RawCashflow) []string {
	rec := make([]string, numCashflowFields)
	rec[colFlowName] = row.Name
	rec[colFlowCategory] = row.Category
	rec[colAmount] = string(row.AnnualAmount)
	rec[colFlowStart] = row.StartMonth
	rec[colFlowEnd] = row.EndMonth
	return rec
}

// UnmarshalCashflowRow converts CSV fields to a cashflow row.
func UnmarshalCashflowRow(rec []string) (RawCashflow, error) {
	if len(rec) != numCashflowFields {
		return RawCashflow{}, fmt.Errorf("expected %d fields, got %d", numCashflowFields, len(rec))
	}
	return RawCashflow{
		Name:         rec[colFlowName],
		Category:     rec[colFlowCategory],
		AnnualAmount: Field(rec[colAmount]),
		StartMonth:   rec[colFlowStart],
		EndMonth:     rec[colFlowEnd],
	}, nil
}

// readTable returns the data rows of a CSV table, skipping the header.
func readTable(r io.Reader, fields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) <= 1 {
		return nil, nil
	}
	return records[1:], nil
}
