// Package export renders project data into Excel workbooks sent to the
// chat as documents. Workbooks are built fully in memory.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	apperrors "buildflow/internal/errors"
	"buildflow/internal/format"
	"buildflow/internal/models"
)

// FullReport builds the itemized workbook: project info, one row per
// transaction, totals and the statistics block.
func FullReport(project *models.Project, transactions []models.Transaction, now time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Отчет"
	f.SetSheetName(f.GetSheetName(0), sheet)

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExportUnavailable, err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 12},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder(),
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExportUnavailable, err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{Border: thinBorder()})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExportUnavailable, err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: thinBorder(),
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExportUnavailable, err)
	}
	statTitleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExportUnavailable, err)
	}

	f.SetCellValue(sheet, "A1", "ОТЧЕТ ПО ПРОЕКТУ")
	f.MergeCell(sheet, "A1", "E1")
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	f.SetCellValue(sheet, "A2", "Проект: "+project.Name)
	f.SetCellValue(sheet, "A3", "Адрес: "+project.Address)
	f.SetCellValue(sheet, "A4", "Бюджет: "+format.Price(project.Budget))
	f.SetCellValue(sheet, "A5", "Дата отчета: "+format.DateTime(now))

	row := 7
	headers := []string{"Дата", "Категория", "Описание", "Сумма (BYN)"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	total := decimal.Zero
	for _, t := range transactions {
		row++
		desc := ""
		if t.Description != nil {
			desc = *t.Description
		}
		values := []interface{}{
			format.DateTime(t.CreatedAt),
			format.Category(t.Category),
			desc,
			t.Amount.InexactFloat64(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
			f.SetCellStyle(sheet, cell, cell, cellStyle)
		}
		total = total.Add(t.Amount)
	}

	row++
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(4, row)
	f.SetCellStyle(sheet, first, last, cellStyle)
	totalLabel, _ := excelize.CoordinatesToCellName(3, row)
	totalCell, _ := excelize.CoordinatesToCellName(4, row)
	f.SetCellValue(sheet, totalLabel, "ИТОГО:")
	f.SetCellValue(sheet, totalCell, total.InexactFloat64())
	f.SetCellStyle(sheet, totalLabel, totalCell, boldStyle)

	row += 2
	statCell, _ := excelize.CoordinatesToCellName(1, row)
	f.SetCellValue(sheet, statCell, "СТАТИСТИКА")
	f.SetCellStyle(sheet, statCell, statCell, statTitleStyle)

	remaining := project.Budget.Sub(total)
	percent := decimal.Zero
	if project.Budget.IsPositive() {
		percent = total.Div(project.Budget).Mul(decimal.NewFromInt(100))
	}
	stats := [][2]string{
		{"Потрачено:", format.Price(total)},
		{"Осталось:", format.Price(remaining)},
		{"% использовано:", percent.StringFixed(1) + "%"},
	}
	for _, s := range stats {
		row++
		label, _ := excelize.CoordinatesToCellName(1, row)
		value, _ := excelize.CoordinatesToCellName(2, row)
		f.SetCellValue(sheet, label, s[0])
		f.SetCellValue(sheet, value, s[1])
	}

	widths := map[string]float64{"A": 15, "B": 15, "C": 30, "D": 15, "E": 15}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}

	return save(f)
}

// SummaryReport builds the short workbook: budget totals plus the
// per-category breakdown.
func SummaryReport(project *models.Project, spent decimal.Decimal, byCategory map[models.TransactionCategory]decimal.Decimal, transactionsCount int) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Сводка"
	f.SetSheetName(f.GetSheetName(0), sheet)

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExportUnavailable, err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExportUnavailable, err)
	}

	f.SetCellValue(sheet, "A1", "Сводка по проекту: "+project.Name)
	f.MergeCell(sheet, "A1", "B1")
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	percent := decimal.Zero
	if project.Budget.IsPositive() {
		percent = spent.Div(project.Budget).Mul(decimal.NewFromInt(100))
	}
	rows := [][2]string{
		{"Бюджет:", format.Price(project.Budget)},
		{"Потрачено:", format.Price(spent)},
		{"Осталось:", format.Price(project.Budget.Sub(spent))},
		{"% использовано:", percent.StringFixed(1) + "%"},
		{"Количество расходов:", fmt.Sprintf("%d", transactionsCount)},
	}

	row := 3
	for _, r := range rows {
		label, _ := excelize.CoordinatesToCellName(1, row)
		value, _ := excelize.CoordinatesToCellName(2, row)
		f.SetCellValue(sheet, label, r[0])
		f.SetCellStyle(sheet, label, label, boldStyle)
		f.SetCellValue(sheet, value, r[1])
		row++
	}

	row++
	header, _ := excelize.CoordinatesToCellName(1, row)
	f.SetCellValue(sheet, header, "По категориям:")
	f.SetCellStyle(sheet, header, header, boldStyle)
	row++

	for _, category := range []models.TransactionCategory{models.CategoryMaterials, models.CategoryLabor, models.CategoryOther} {
		amount, ok := byCategory[category]
		if !ok {
			amount = decimal.Zero
		}
		label, _ := excelize.CoordinatesToCellName(1, row)
		value, _ := excelize.CoordinatesToCellName(2, row)
		f.SetCellValue(sheet, label, format.Category(category))
		f.SetCellValue(sheet, value, format.Price(amount))
		row++
	}

	f.SetColWidth(sheet, "A", "A", 25)
	f.SetColWidth(sheet, "B", "B", 20)

	return save(f)
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Style: 1},
		{Type: "right", Style: 1},
		{Type: "top", Style: 1},
		{Type: "bottom", Style: 1},
	}
}

func save(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExportUnavailable, err)
	}
	return buf.Bytes(), nil
}
