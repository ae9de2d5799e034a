package core

import (
	"errors"
	"strings"
	"testing"
)

func TestExpenseValidate(t *testing.T) {
	valid := Expense{
		Date:        NewDate(2024, 3, 10),
		Category:    "food",
		Description: "Supermercado",
		Amount:      Pesos(25000),
	}

	tests := []struct {
		name    string
		mutate  func(*Expense)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Expense) {}, wantErr: false},
		{name: "missing date", mutate: func(e *Expense) { e.Date = Date{} }, wantErr: true},
		{name: "blank category", mutate: func(e *Expense) { e.Category = "  " }, wantErr: true},
		{name: "blank description", mutate: func(e *Expense) { e.Description = "" }, wantErr: true},
		{name: "description too long", mutate: func(e *Expense) { e.Description = strings.Repeat("x", 201) }, wantErr: true},
		{name: "zero amount", mutate: func(e *Expense) { e.Amount = Money{} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			if err := e.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Expense.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIncomeValidate(t *testing.T) {
	valid := Income{
		Date:        NewDate(2024, 3, 1),
		Type:        IncomeSalary,
		Description: "Sueldo marzo",
		Amount:      Pesos(800000),
		PayMonth:    "2024-03",
	}

	tests := []struct {
		name    string
		mutate  func(*Income)
		wantErr error
	}{
		{name: "valid salary", mutate: func(*Income) {}, wantErr: nil},
		{
			name:    "bad type",
			mutate:  func(in *Income) { in.Type = "bonus" },
			wantErr: ErrInvalidIncomeTyp,
		},
		{
			name:    "bad pay month key",
			mutate:  func(in *Income) { in.PayMonth = "march" },
			wantErr: ErrInvalidMonthKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			if err := in.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Income.Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	payMonthOnGift := valid
	payMonthOnGift.Type = IncomeGift
	if err := payMonthOnGift.Validate(); err == nil {
		t.Error("Income.Validate() accepted a pay month on non-salary income")
	}

	gift := Income{
		Date:        NewDate(2024, 4, 20),
		Type:        IncomeGift,
		Description: "Regalo cumpleaños",
		Amount:      Pesos(50000),
	}
	if err := gift.Validate(); err != nil {
		t.Errorf("Income.Validate(gift without pay month) error = %v", err)
	}
}

func TestBudgetPlanValidate(t *testing.T) {
	plan := BudgetPlan{
		Month: "2024-03",
		Allocations: map[string]Money{
			"food":    Pesos(200000),
			"housing": Pesos(350000),
		},
	}
	if err := plan.Validate(); err != nil {
		t.Fatalf("BudgetPlan.Validate() error = %v", err)
	}

	plan.Month = "2024/03"
	if err := plan.Validate(); !errors.Is(err, ErrInvalidMonthKey) {
		t.Errorf("Validate(bad month) error = %v, want %v", err, ErrInvalidMonthKey)
	}

	plan.Month = "2024-03"
	plan.Allocations["transport"] = Money{Cents: -100}
	if err := plan.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Validate(negative allocation) error = %v, want %v", err, ErrInvalidAmount)
	}

	// A zero allocation is a deliberate "budget nothing here" signal.
	delete(plan.Allocations, "transport")
	plan.Allocations["entertainment"] = Money{}
	if err := plan.Validate(); err != nil {
		t.Errorf("Validate(zero allocation) error = %v", err)
	}
}

func TestBudgetPlanAllocated(t *testing.T) {
	var nilPlan *BudgetPlan
	if got := nilPlan.Allocated("food"); !got.IsZero() {
		t.Errorf("Allocated() on nil plan = %v, want $0", got)
	}
	if got := nilPlan.TotalAllocated(); !got.IsZero() {
		t.Errorf("TotalAllocated() on nil plan = %v, want $0", got)
	}

	plan := &BudgetPlan{
		Month: "2024-03",
		Allocations: map[string]Money{
			"food":    Pesos(200000),
			"housing": Pesos(300000),
		},
	}
	if got := plan.Allocated("food"); got.Cents != Pesos(200000).Cents {
		t.Errorf("Allocated(food) = %v, want %v", got, Pesos(200000))
	}
	if got := plan.Allocated("ghost"); !got.IsZero() {
		t.Errorf("Allocated(absent) = %v, want $0", got)
	}
	if got := plan.TotalAllocated(); got.Cents != Pesos(500000).Cents {
		t.Errorf("TotalAllocated() = %v, want %v", got, Pesos(500000))
	}
}
