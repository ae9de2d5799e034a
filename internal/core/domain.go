package core

import (
	"errors"
	"strings"
	"time"
)

const (
	IncomeSalary IncomeType = "salary"
	IncomeGift   IncomeType = "gift"
	IncomeSale   IncomeType = "sale"
	IncomeOther  IncomeType = "other"
)

type (
	// IncomeType is the fixed set of income sources.
	IncomeType string

	// Date is a calendar day. The time-of-day portion is ignored.
	Date struct {
		time.Time
	}

	// Expense is a single recorded spend, referencing a category by key.
	// The reference is weak: deleting a category leaves the expense intact.
	Expense struct {
		ID          int64     `json:"id,omitempty"`
		Date        Date      `json:"date"`
		Category    string    `json:"category"`
		Description string    `json:"description"`
		Amount      Money     `json:"amount"`
		CreatedAt   time.Time `json:"timestamp"`
	}

	// Income is a single recorded income entry. PayMonth is the "YYYY-MM"
	// pay period a salary covers; it is empty for the other types.
	Income struct {
		ID          int64      `json:"id,omitempty"`
		Date        Date       `json:"date"`
		Type        IncomeType `json:"type"`
		Description string     `json:"description"`
		Amount      Money      `json:"amount"`
		PayMonth    string     `json:"month,omitempty"`
		CreatedAt   time.Time  `json:"timestamp"`
	}

	// BudgetPlan is the allocation plan for one calendar month. At most one
	// plan exists per month key; saving again overwrites it.
	BudgetPlan struct {
		ID          int64            `json:"id,omitempty"`
		Month       string           `json:"month"`
		Allocations map[string]Money `json:"categories"`
		CreatedAt   time.Time        `json:"timestamp"`
	}
)

var (
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidMonthKey  = errors.New("invalid month key")
	ErrInvalidIncomeTyp = errors.New("invalid income type")
)

// NewDate builds a Date from year, month and day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MonthKey returns the "YYYY-MM" key of the month containing this date.
func (d Date) MonthKey() string {
	return MonthKey(d.Time)
}

// MarshalJSON renders the date as "YYYY-MM-DD", the wire and backup format.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return ErrInvalidDate
	}
	d.Time = t
	return nil
}

func (t IncomeType) Validate() error {
	switch t {
	case IncomeSalary, IncomeGift, IncomeSale, IncomeOther:
		return nil
	}
	return ErrInvalidIncomeTyp
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return e.Amount.Validate()
}

func (in Income) Validate() error {
	if err := in.Date.Validate(); err != nil {
		return err
	}
	if err := in.Type.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(in.Description) == "" {
		return ErrEmptyDescription
	}
	if in.PayMonth != "" {
		if in.Type != IncomeSalary {
			return errors.New("pay month is only valid for salary income")
		}
		if _, err := ParseMonthKey(in.PayMonth); err != nil {
			return ErrInvalidMonthKey
		}
	}
	return in.Amount.Validate()
}

func (p BudgetPlan) Validate() error {
	if _, err := ParseMonthKey(p.Month); err != nil {
		return ErrInvalidMonthKey
	}
	for key, amount := range p.Allocations {
		if strings.TrimSpace(key) == "" {
			return ErrEmptyCategory
		}
		if amount.IsNegative() {
			return ErrInvalidAmount
		}
	}
	return nil
}

// Allocated returns the plan's allocation for a category, zero when the
// category is absent or there is no plan.
func (p *BudgetPlan) Allocated(category string) Money {
	if p == nil {
		return Money{}
	}
	return p.Allocations[category]
}

// TotalAllocated sums every category allocation in the plan.
func (p *BudgetPlan) TotalAllocated() Money {
	var total Money
	if p == nil {
		return total
	}
	for _, amount := range p.Allocations {
		total = total.Add(amount)
	}
	return total
}
