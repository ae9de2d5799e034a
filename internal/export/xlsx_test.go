package export

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"finanzas/internal/core"
	"finanzas/internal/services"
)

func TestMonthStatement(t *testing.T) {
	registry := core.DefaultRegistry()
	expenses := []core.Expense{
		{Date: core.NewDate(2024, 3, 5), Category: "food", Description: "Feria", Amount: core.Pesos(45000)},
		{Date: core.NewDate(2024, 3, 12), Category: "transport", Description: "Bencina", Amount: core.Pesos(30000)},
	}
	income := []core.Income{
		{Date: core.NewDate(2024, 3, 1), Type: core.IncomeSalary, Description: "Sueldo", Amount: core.Pesos(800000)},
	}
	report := services.Reconcile("2024-03", &core.BudgetPlan{
		Month:       "2024-03",
		Allocations: map[string]core.Money{"food": core.Pesos(200000)},
	}, expenses, core.Money{}, registry)

	var buf bytes.Buffer
	require.NoError(t, MonthStatement(&buf, "2024-03", expenses, income, report, registry))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Gastos", "Ingresos", "Presupuesto"}, f.GetSheetList())

	// Expense rows carry the display label and formatted amount, with the
	// total row after them.
	label, err := f.GetCellValue("Gastos", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Alimentación", label)
	amount, err := f.GetCellValue("Gastos", "D2")
	require.NoError(t, err)
	assert.Equal(t, "$45000", amount)
	total, err := f.GetCellValue("Gastos", "D4")
	require.NoError(t, err)
	assert.Equal(t, "$75000", total)

	inTotal, err := f.GetCellValue("Ingresos", "D3")
	require.NoError(t, err)
	assert.Equal(t, "$800000", inTotal)

	// The budget sheet ends with the month's aggregate row.
	monthCell, err := f.GetCellValue("Presupuesto", fmt.Sprintf("A%d", len(report.Lines)+2))
	require.NoError(t, err)
	assert.Equal(t, "2024-03", monthCell)
}

func TestMonthStatementEmptyMonth(t *testing.T) {
	registry := core.DefaultRegistry()
	report := services.Reconcile("2024-07", nil, nil, core.Money{}, registry)

	var buf bytes.Buffer
	require.NoError(t, MonthStatement(&buf, "2024-07", nil, nil, report, registry))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	total, err := f.GetCellValue("Gastos", "D2")
	require.NoError(t, err)
	assert.Equal(t, "$0", total)
}
