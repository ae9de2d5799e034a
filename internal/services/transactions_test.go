package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finanzas/internal/apperror"
	"finanzas/internal/core"
	"finanzas/internal/records/memory"
)

func TestAddExpense(t *testing.T) {
	svc := NewTransactionService(memory.New())
	ctx := context.Background()

	e, err := svc.AddExpense(ctx, core.Expense{
		ID:          77, // caller ids are ignored
		Date:        core.NewDate(2024, 3, 10),
		Category:    "food",
		Description: "Supermercado",
		Amount:      core.Pesos(45000),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.ID)
	assert.False(t, e.CreatedAt.IsZero())

	_, err = svc.AddExpense(ctx, core.Expense{
		Date:     core.NewDate(2024, 3, 10),
		Category: "food",
		Amount:   core.Pesos(45000),
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestListExpensesMonthFilter(t *testing.T) {
	store := memory.New()
	svc := NewTransactionService(store)
	ctx := context.Background()

	for _, e := range []core.Expense{
		{Date: core.NewDate(2024, 3, 1), Category: "food", Description: "a", Amount: core.Pesos(100)},
		{Date: core.NewDate(2024, 4, 1), Category: "food", Description: "b", Amount: core.Pesos(200)},
	} {
		_, err := store.AddExpense(ctx, e)
		require.NoError(t, err)
	}

	march, err := svc.ListExpenses(ctx, "2024-03")
	require.NoError(t, err)
	assert.Len(t, march, 1)

	all, err := svc.ListExpenses(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.ListExpenses(ctx, "marzo")
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestDeleteExpense(t *testing.T) {
	store := memory.New()
	svc := NewTransactionService(store)
	ctx := context.Background()

	id, err := store.AddExpense(ctx, core.Expense{
		Date: core.NewDate(2024, 3, 1), Category: "food",
		Description: "a", Amount: core.Pesos(100),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteExpense(ctx, id))

	err = svc.DeleteExpense(ctx, id)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestAddIncome(t *testing.T) {
	svc := NewTransactionService(memory.New())
	ctx := context.Background()

	in, err := svc.AddIncome(ctx, core.Income{
		Date:        core.NewDate(2024, 3, 1),
		Type:        core.IncomeSalary,
		Description: "Sueldo",
		Amount:      core.Pesos(800000),
		PayMonth:    "2024-03",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), in.ID)

	_, err = svc.AddIncome(ctx, core.Income{
		Date:        core.NewDate(2024, 3, 1),
		Type:        "bonus",
		Description: "x",
		Amount:      core.Pesos(100),
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}
