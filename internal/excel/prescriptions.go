package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"adaptcoach/internal/i18n"
	"adaptcoach/internal/models"
)

// Sheet names of the prescription workbook.
const (
	SheetPlan  = "Prescripcion"
	SheetAudit = "Auditoria"
)

// PlanHeader returns the localized header of the plan sheet.
func PlanHeader(lang i18n.Language) []any {
	return []any{
		i18n.T("col.exercise", lang),
		i18n.T("col.sets", lang),
		i18n.T("col.series", lang),
		i18n.T("col.reps", lang),
		i18n.T("col.load", lang),
		i18n.T("col.factor_load", lang),
		i18n.T("col.factor_series", lang),
		i18n.T("col.factor_reps", lang),
		i18n.T("col.capped", lang),
		i18n.T("col.computed_at", lang),
	}
}

// PlanRows returns one row per prescription, matching PlanHeader.
func PlanRows(prescriptions []models.Prescription, lang i18n.Language) [][]any {
	rows := make([][]any, 0, len(prescriptions))
	for _, p := range prescriptions {
		r := p.Result
		capped := i18n.T("no", lang)
		if r.WasCapped.Load || r.WasCapped.Series {
			capped = i18n.T("yes", lang)
		}
		rows = append(rows, []any{
			p.Exercise,
			r.Final.Sets,
			r.Final.Series,
			r.Final.Reps,
			r.Final.Load,
			r.LoadFactor,
			r.SeriesFactor,
			r.RepsFactor,
			capped,
			p.ComputedAt.Format("02.01.2006 15:04"),
		})
	}
	return rows
}

// AuditRows returns one row per contributing factor of every prescription.
func AuditRows(prescriptions []models.Prescription) [][]any {
	var rows [][]any
	for _, p := range prescriptions {
		for _, d := range p.Result.Factors {
			rows = append(rows, []any{p.Exercise, int(d.Phase), string(d.Category), d.Name, d.Input, d.Peso, d.Series, d.Reps})
		}
	}
	return rows
}

// Prescriptions builds the athlete's workbook: the final plan and its audit trail.
func Prescriptions(athleteName string, prescriptions []models.Prescription, lang i18n.Language) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetPlan); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetAudit); err != nil {
		f.Close()
		return nil, fmt.Errorf("create audit sheet: %w", err)
	}

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Color: "#1F4E79"},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2E75B6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	cappedStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FCE4D6"}, Pattern: 1},
	})

	// Plan sheet
	f.SetCellValue(SheetPlan, "A1", i18n.Tf("export.title", lang, athleteName))
	f.SetCellStyle(SheetPlan, "A1", "A1", titleStyle)
	if err := writeTable(f, SheetPlan, 3, PlanHeader(lang), PlanRows(prescriptions, lang), headerStyle); err != nil {
		f.Close()
		return nil, err
	}
	for i, p := range prescriptions {
		if p.Result.WasCapped.Load || p.Result.WasCapped.Series {
			row := 4 + i
			f.SetCellStyle(SheetPlan, fmt.Sprintf("A%d", row), fmt.Sprintf("J%d", row), cappedStyle)
		}
	}
	f.SetColWidth(SheetPlan, "A", "A", 28)
	f.SetColWidth(SheetPlan, "B", "I", 13)
	f.SetColWidth(SheetPlan, "J", "J", 18)

	// Audit sheet
	auditHeader := []any{
		i18n.T("col.exercise", lang),
		i18n.T("col.phase", lang),
		i18n.T("col.category", lang),
		i18n.T("col.rule", lang),
		i18n.T("col.input", lang),
		i18n.T("col.factor_load", lang),
		i18n.T("col.factor_series", lang),
		i18n.T("col.factor_reps", lang),
	}
	if err := writeTable(f, SheetAudit, 1, auditHeader, AuditRows(prescriptions), headerStyle); err != nil {
		f.Close()
		return nil, err
	}
	f.SetColWidth(SheetAudit, "A", "A", 28)
	f.SetColWidth(SheetAudit, "B", "H", 14)

	return f, nil
}

// WritePrescriptions streams the workbook to w.
func WritePrescriptions(w io.Writer, athleteName string, prescriptions []models.Prescription, lang i18n.Language) error {
	f, err := Prescriptions(athleteName, prescriptions, lang)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, headerRow int, header []any, rows [][]any, headerStyle int) error {
	start, _ := excelize.CoordinatesToCellName(1, headerRow)
	if err := f.SetSheetRow(sheet, start, &header); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	end, _ := excelize.CoordinatesToCellName(len(header), headerRow)
	f.SetCellStyle(sheet, start, end, headerStyle)

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, headerRow+1+i)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
