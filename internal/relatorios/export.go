package relatorios

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Frequencia"

// ExportFrequenciaModalidades renders the windowed modalidade report as an
// .xlsx workbook, one row per modalidade.
func (s *Service) ExportFrequenciaModalidades(ctx context.Context, unidade string) ([]byte, string, error) {
	report, err := s.FrequenciaModalidades(ctx, unidade)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, "", err
	}

	headers := []string{"Modalidade", "Unidade", "Aulas", "Presencas", "Frequencia (%)", "Classificacao"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, h)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(exportSheet, "A1", last, style)
	}

	for i, m := range report.Modalidades {
		row := i + 2
		_ = f.SetCellValue(exportSheet, fmt.Sprintf("A%d", row), m.NomeModalidade)
		_ = f.SetCellValue(exportSheet, fmt.Sprintf("B%d", row), m.Unidade)
		_ = f.SetCellValue(exportSheet, fmt.Sprintf("C%d", row), m.TotalAulas)
		_ = f.SetCellValue(exportSheet, fmt.Sprintf("D%d", row), m.Presencas)
		_ = f.SetCellValue(exportSheet, fmt.Sprintf("E%d", row), m.Percentual)
		_ = f.SetCellValue(exportSheet, fmt.Sprintf("F%d", row), m.Classificacao)
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 28)
	_ = f.SetColWidth(exportSheet, "B", "F", 16)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}

	name := fmt.Sprintf("frequencia_modalidades_%dd.xlsx", report.JanelaDias)
	return buf.Bytes(), name, nil
}
