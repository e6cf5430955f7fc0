package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DisplayDateLayout is the short rendering used by DisplayDate.
const DisplayDateLayout = "01/02/2006"

type (
	// Record is a single expense entry.
	Record struct {
		ID          string
		Description string
		Amount      decimal.Decimal
		Date        time.Time
	}

	// Input holds the pending form values used by add and update.
	Input struct {
		Description string
		Amount      decimal.Decimal
		Date        time.Time
	}
)

// NewRecord builds a record from the given input with a fresh identifier.
// A zero input date is replaced by now.
func NewRecord(in Input, now time.Time) Record {
	date := in.Date
	if date.IsZero() {
		date = now
	}
	return Record{
		ID:          uuid.NewString(),
		Description: in.Description,
		Amount:      in.Amount,
		Date:        date,
	}
}

// DisplayDate returns the record date as MM/DD/YYYY.
func (r Record) DisplayDate() string {
	return r.Date.Format(DisplayDateLayout)
}

// Input returns the record fields as pending form values.
func (r Record) Input() Input {
	return Input{
		Description: r.Description,
		Amount:      r.Amount,
		Date:        r.Date,
	}
}

// Apply overwrites the editable fields with the given input. The ID is kept.
func (r *Record) Apply(in Input) {
	r.Description = in.Description
	r.Amount = in.Amount
	if !in.Date.IsZero() {
		r.Date = in.Date
	}
}

// Equal reports whether two records hold the same values.
func (r Record) Equal(o Record) bool {
	return r.ID == o.ID &&
		r.Description == o.Description &&
		r.Amount.Equal(o.Amount) &&
		r.Date.Equal(o.Date)
}

// DefaultInput returns blank form values dated now.
func DefaultInput(now time.Time) Input {
	return Input{Amount: decimal.Zero, Date: now}
}

// Validate checks pending input before it becomes a record.
func Validate(in Input) error {
	if strings.TrimSpace(in.Description) == "" {
		return &ValidationError{Field: "description", Message: "description required"}
	}
	if !in.Amount.IsPositive() {
		return &ValidationError{Field: "amount", Message: "amount must be positive"}
	}
	return nil
}
