// Package export renders a monthly statement as an XLSX workbook: the
// month's expenses, income entries and the reconciliation summary.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"finanzas/internal/core"
	"finanzas/internal/services"
)

const dateCellLayout = "2006-01-02"

// MonthStatement writes the workbook for one month to w. expenses and income
// must already be filtered to the month; report is the month's reconciliation.
func MonthStatement(w io.Writer, month string, expenses []core.Expense, income []core.Income, report services.BudgetReport, registry *core.Registry) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	totalStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
	})

	expensesSheet := "Gastos"
	f.SetSheetName("Sheet1", expensesSheet)
	f.SetColWidth(expensesSheet, "A", "A", 12)
	f.SetColWidth(expensesSheet, "B", "B", 20)
	f.SetColWidth(expensesSheet, "C", "C", 35)
	f.SetColWidth(expensesSheet, "D", "D", 14)

	writeHeader(f, expensesSheet, headerStyle, "Fecha", "Categoría", "Descripción", "Monto")
	var totalOut core.Money
	for i, e := range expenses {
		row := i + 2
		f.SetCellValue(expensesSheet, fmt.Sprintf("A%d", row), e.Date.Format(dateCellLayout))
		f.SetCellValue(expensesSheet, fmt.Sprintf("B%d", row), registry.Label(e.Category))
		f.SetCellValue(expensesSheet, fmt.Sprintf("C%d", row), e.Description)
		f.SetCellValue(expensesSheet, fmt.Sprintf("D%d", row), e.Amount.String())
		totalOut = totalOut.Add(e.Amount)
	}
	totalRow := len(expenses) + 2
	f.SetCellValue(expensesSheet, fmt.Sprintf("A%d", totalRow), "Total")
	f.SetCellValue(expensesSheet, fmt.Sprintf("D%d", totalRow), totalOut.String())
	f.SetCellStyle(expensesSheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("D%d", totalRow), totalStyle)

	incomeSheet := "Ingresos"
	f.NewSheet(incomeSheet)
	f.SetColWidth(incomeSheet, "A", "A", 12)
	f.SetColWidth(incomeSheet, "B", "B", 12)
	f.SetColWidth(incomeSheet, "C", "C", 35)
	f.SetColWidth(incomeSheet, "D", "D", 14)

	writeHeader(f, incomeSheet, headerStyle, "Fecha", "Tipo", "Descripción", "Monto")
	var totalIn core.Money
	for i, in := range income {
		row := i + 2
		f.SetCellValue(incomeSheet, fmt.Sprintf("A%d", row), in.Date.Format(dateCellLayout))
		f.SetCellValue(incomeSheet, fmt.Sprintf("B%d", row), string(in.Type))
		f.SetCellValue(incomeSheet, fmt.Sprintf("C%d", row), in.Description)
		f.SetCellValue(incomeSheet, fmt.Sprintf("D%d", row), in.Amount.String())
		totalIn = totalIn.Add(in.Amount)
	}
	totalRow = len(income) + 2
	f.SetCellValue(incomeSheet, fmt.Sprintf("A%d", totalRow), "Total")
	f.SetCellValue(incomeSheet, fmt.Sprintf("D%d", totalRow), totalIn.String())
	f.SetCellStyle(incomeSheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("D%d", totalRow), totalStyle)

	budgetSheet := "Presupuesto"
	f.NewSheet(budgetSheet)
	f.SetColWidth(budgetSheet, "A", "A", 20)
	f.SetColWidth(budgetSheet, "B", "D", 14)
	f.SetColWidth(budgetSheet, "E", "E", 12)

	writeHeader(f, budgetSheet, headerStyle, "Categoría", "Presupuestado", "Gastado", "Restante", "Estado")
	for i, line := range report.Lines {
		row := i + 2
		f.SetCellValue(budgetSheet, fmt.Sprintf("A%d", row), line.Label)
		f.SetCellValue(budgetSheet, fmt.Sprintf("B%d", row), line.Allocated.String())
		f.SetCellValue(budgetSheet, fmt.Sprintf("C%d", row), line.Spent.String())
		f.SetCellValue(budgetSheet, fmt.Sprintf("D%d", row), line.Remaining.String())
		f.SetCellValue(budgetSheet, fmt.Sprintf("E%d", row), string(line.Status))
	}
	totalRow = len(report.Lines) + 2
	f.SetCellValue(budgetSheet, fmt.Sprintf("A%d", totalRow), month)
	f.SetCellValue(budgetSheet, fmt.Sprintf("B%d", totalRow), report.TotalAllocated.String())
	f.SetCellValue(budgetSheet, fmt.Sprintf("C%d", totalRow), report.TotalSpent.String())
	f.SetCellValue(budgetSheet, fmt.Sprintf("D%d", totalRow), report.TotalAvailable.String())
	f.SetCellStyle(budgetSheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("E%d", totalRow), totalStyle)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, style int, titles ...string) {
	for i, title := range titles {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, title)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}
