package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of fractional digits carried by ledger amounts.
const AmountPlaces = 2

// ErrPartialActuals is returned when only one of actual_date/actual_amount is set.
var ErrPartialActuals = errors.New("models: actual_date and actual_amount must be both set or both null")

// Actuals holds the realised date and amount of a transaction. They exist together or not at all.
type Actuals struct {
	Date   Date
	Amount decimal.Decimal
}

// Transaction is one synthetic ledger entry as submitted to the ledger API.
type Transaction struct {
	VendorName         string
	ExpenseDescription string
	WBSCategory        string
	WBSSubcategory     string
	BaselineDate       Date
	BaselineAmount     decimal.Decimal
	PlannedDate        Date
	PlannedAmount      decimal.Decimal
	Actual             *Actuals
	Notes              string
}

// RoundAmount rounds v to ledger precision.
func RoundAmount(v decimal.Decimal) decimal.Decimal {
	return v.Round(AmountPlaces)
}

// transactionWire mirrors the ledger API body. Field order is the wire order.
type transactionWire struct {
	VendorName         string       `json:"vendor_name"`
	ExpenseDescription string       `json:"expense_description"`
	WBSCategory        string       `json:"wbs_category"`
	WBSSubcategory     string       `json:"wbs_subcategory"`
	BaselineDate       Date         `json:"baseline_date"`
	BaselineAmount     json.Number  `json:"baseline_amount"`
	PlannedDate        Date         `json:"planned_date"`
	PlannedAmount      json.Number  `json:"planned_amount"`
	ActualDate         *Date        `json:"actual_date"`
	ActualAmount       *json.Number `json:"actual_amount"`
	Notes              string       `json:"notes"`
}

func amountNumber(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(AmountPlaces))
}

func parseAmount(field string, n json.Number) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("models: %s: %w", field, err)
	}
	return d, nil
}

// MarshalJSON writes the flat ledger body; absent actuals become explicit nulls.
func (t Transaction) MarshalJSON() ([]byte, error) {
	wire := transactionWire{
		VendorName:         t.VendorName,
		ExpenseDescription: t.ExpenseDescription,
		WBSCategory:        t.WBSCategory,
		WBSSubcategory:     t.WBSSubcategory,
		BaselineDate:       t.BaselineDate,
		BaselineAmount:     amountNumber(t.BaselineAmount),
		PlannedDate:        t.PlannedDate,
		PlannedAmount:      amountNumber(t.PlannedAmount),
		Notes:              t.Notes,
	}
	if t.Actual != nil {
		date := t.Actual.Date
		amount := amountNumber(t.Actual.Amount)
		wire.ActualDate = &date
		wire.ActualAmount = &amount
	}
	return json.Marshal(wire)
}

// UnmarshalJSON reads the flat ledger body and rejects half-populated actuals.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var wire transactionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	baseline, err := parseAmount("baseline_amount", wire.BaselineAmount)
	if err != nil {
		return err
	}
	planned, err := parseAmount("planned_amount", wire.PlannedAmount)
	if err != nil {
		return err
	}

	out := Transaction{
		VendorName:         wire.VendorName,
		ExpenseDescription: wire.ExpenseDescription,
		WBSCategory:        wire.WBSCategory,
		WBSSubcategory:     wire.WBSSubcategory,
		BaselineDate:       wire.BaselineDate,
		BaselineAmount:     baseline,
		PlannedDate:        wire.PlannedDate,
		PlannedAmount:      planned,
		Notes:              wire.Notes,
	}

	hasDate := wire.ActualDate != nil && !wire.ActualDate.IsZero()
	hasAmount := wire.ActualAmount != nil
	switch {
	case hasDate && hasAmount:
		amount, err := parseAmount("actual_amount", *wire.ActualAmount)
		if err != nil {
			return err
		}
		out.Actual = &Actuals{Date: *wire.ActualDate, Amount: amount}
	case hasDate != hasAmount:
		return ErrPartialActuals
	}

	*t = out
	return nil
}
