package core

import (
	"errors"
	"time"
)

var ErrInstallmentCount = errors.New("installment count must be at least 2")

// GenerateSchedule splits a principal into count equal monthly installments
// starting at start. Installments 1..count-1 each carry the rounded average;
// the final installment absorbs the rounding remainder so the amounts always
// sum to the principal exactly. Every entry starts pending.
func GenerateSchedule(principal Money, count int, start time.Time) ([]Installment, error) {
	if count < 2 {
		return nil, ErrInstallmentCount
	}
	if principal.Cents <= 0 {
		return nil, ErrInvalidAmount
	}

	// Half-up rounding of principal/count without floating point.
	n := int64(count)
	base := (principal.Cents*2 + n) / (n * 2)

	schedule := make([]Installment, count)
	for i := 0; i < count; i++ {
		amount := base
		if i == count-1 {
			amount = principal.Cents - base*(n-1)
		}
		schedule[i] = Installment{
			Seq:     i + 1,
			DueDate: Date{Time: AddMonths(start, i)},
			Amount:  Money{Cents: amount},
			Status:  InstallmentPending,
		}
	}
	return schedule, nil
}

// ScheduleTotal sums the installment amounts.
func ScheduleTotal(schedule []Installment) Money {
	var total Money
	for _, ins := range schedule {
		total = total.Add(ins.Amount)
	}
	return total
}
