package models

import (
	"errors"
	"time"
)

// DateLayout is the wire format of ledger dates.
const DateLayout = "2006-01-02"

// ErrPartialActuals is returned when only one of actual_date/actual_amount is sent.
var ErrPartialActuals = errors.New("actual_date and actual_amount must be both set or both null")

// Program owns ledger entries.
type Program struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LedgerEntryInput is the POST body of a ledger entry.
type LedgerEntryInput struct {
	VendorName         string   `json:"vendor_name" validate:"required,max=255"`
	ExpenseDescription string   `json:"expense_description" validate:"required"`
	WBSCategory        string   `json:"wbs_category" validate:"required,max=255"`
	WBSSubcategory     string   `json:"wbs_subcategory" validate:"required,max=255"`
	BaselineDate       string   `json:"baseline_date" validate:"required,datetime=2006-01-02"`
	BaselineAmount     *float64 `json:"baseline_amount" validate:"required"`
	PlannedDate        string   `json:"planned_date" validate:"required,datetime=2006-01-02"`
	PlannedAmount      *float64 `json:"planned_amount" validate:"required"`
	ActualDate         *string  `json:"actual_date" validate:"omitempty,datetime=2006-01-02"`
	ActualAmount       *float64 `json:"actual_amount"`
	Notes              *string  `json:"notes"`
}

// CheckActuals enforces that actuals come as a pair.
func (in LedgerEntryInput) CheckActuals() error {
	if (in.ActualDate == nil) != (in.ActualAmount == nil) {
		return ErrPartialActuals
	}
	return nil
}

// LedgerEntry is a stored ledger row.
type LedgerEntry struct {
	ID                 string    `json:"id"`
	VendorName         string    `json:"vendor_name"`
	ExpenseDescription string    `json:"expense_description"`
	WBSCategory        string    `json:"wbs_category"`
	WBSSubcategory     string    `json:"wbs_subcategory"`
	BaselineDate       string    `json:"baseline_date"`
	BaselineAmount     float64   `json:"baseline_amount"`
	PlannedDate        string    `json:"planned_date"`
	PlannedAmount      float64   `json:"planned_amount"`
	ActualDate         *string   `json:"actual_date"`
	ActualAmount       *float64  `json:"actual_amount"`
	Notes              *string   `json:"notes"`
	Program            Program   `json:"program"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewLedgerEntry builds a stored row from a validated input.
func NewLedgerEntry(id string, program Program, in LedgerEntryInput, createdAt time.Time) LedgerEntry {
	return LedgerEntry{
		ID:                 id,
		VendorName:         in.VendorName,
		ExpenseDescription: in.ExpenseDescription,
		WBSCategory:        in.WBSCategory,
		WBSSubcategory:     in.WBSSubcategory,
		BaselineDate:       in.BaselineDate,
		BaselineAmount:     *in.BaselineAmount,
		PlannedDate:        in.PlannedDate,
		PlannedAmount:      *in.PlannedAmount,
		ActualDate:         in.ActualDate,
		ActualAmount:       in.ActualAmount,
		Notes:              in.Notes,
		Program:            program,
		CreatedAt:          createdAt,
	}
}

// LedgerPage is one page of a program ledger.
type LedgerPage struct {
	Entries []LedgerEntry `json:"entries"`
	Total   int           `json:"total"`
}
