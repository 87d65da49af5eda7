// Package export writes analysis history to spreadsheet files.
package export

import (
	"fmt"
	"io"

	"github.com/brunobiangulo/riskmirror/store"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet that holds the history rows.
const SheetName = "Analyses"

// Columns is the header row, in output order.
var Columns = []string{
	"ID", "Created", "Domain", "Name", "Risk Score", "Risk Category",
	"Extracted Score", "Extracted Category", "Pages", "Model",
	"Prompt Tokens", "Completion Tokens", "Total Tokens", "Download Name",
	"Narrative",
}

const headerColor = "E60012"

// WriteXLSX writes one row per analysis, in the given order, as an XLSX
// workbook to w.
func WriteXLSX(w io.Writer, analyses []store.Analysis) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(Columns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", style); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, a := range analyses {
		row := []interface{}{
			a.ID, a.CreatedAt, a.Domain, a.Name, a.RiskScore, a.RiskCategory,
			a.ExtractedScore, a.ExtractedCategory, a.PageCount, a.Model,
			a.PromptTokens, a.CompletionTokens, a.TotalTokens, a.DownloadName,
			a.Narrative,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "B", "B", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "D", "H", 16); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "N", "N", 28); err != nil {
		return err
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}
	if len(analyses) > 0 {
		ref := fmt.Sprintf("A1:%s%d", lastCol, len(analyses)+1)
		if err := f.AutoFilter(SheetName, ref, nil); err != nil {
			return fmt.Errorf("adding filter: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
