package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MonthTotal is the sum of record amounts for a specific year+month.
type MonthTotal struct {
	Year  int
	Month time.Month
	Total decimal.Decimal
	Count int
}

// Label renders the month as "January 2024".
func (m MonthTotal) Label() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}
