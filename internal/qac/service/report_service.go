package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Expenditious/qac-system/internal/qac/entity"
	"github.com/Expenditious/qac-system/internal/qac/repository"
	"github.com/xuri/excelize/v2"
)

// exportPageSize caps a single export.
const exportPageSize = 10000

var inspectionExportHeaders = []string{
	"Inspection No", "Form", "Type", "Date", "Time",
	"Inspector", "Supervisor", "Status", "Overall Result", "Remarks",
}

// ReportService produces downloadable reports over the inspection history.
type ReportService struct {
	inspRepo *repository.InspectionRepository
}

func NewReportService(inspRepo *repository.InspectionRepository) *ReportService {
	return &ReportService{inspRepo: inspRepo}
}

// ExportInspections renders the filtered inspection history as a workbook.
func (s *ReportService) ExportInspections(ctx context.Context, params repository.InspectionListParams) (*excelize.File, string, error) {
	params.Page = 1
	params.Size = exportPageSize
	masters, _, err := s.inspRepo.List(ctx, params)
	if err != nil {
		return nil, "", fmt.Errorf("list inspections: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Inspections"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range inspectionExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for row, m := range masters {
		values := []interface{}{
			m.InspectionNo,
			formName(&m),
			typeName(&m),
			m.InspectionDate,
			m.InspectionTime,
			m.Inspector,
			m.Supervisor,
			m.Status,
			m.OverallResult,
			m.Remarks,
		}
		for i, v := range values {
			col, _ := excelize.ColumnNumberToName(i + 1)
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row+2), v)
		}
	}

	filename := fmt.Sprintf("inspections_%s.xlsx", time.Now().Format("20060102_150405"))
	return f, filename, nil
}

func formName(m *entity.InspectionMaster) string {
	if m.Form != nil {
		return m.Form.FormName
	}
	return m.FormID
}

func typeName(m *entity.InspectionMaster) string {
	if m.Type != nil {
		return m.Type.TypeName
	}
	return ""
}
