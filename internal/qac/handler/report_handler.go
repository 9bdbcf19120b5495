package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Expenditious/qac-system/internal/qac/repository"
	"github.com/Expenditious/qac-system/internal/qac/service"
)

// ReportHandler serves Excel exports of inspection records.
type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// ExportInspections handles GET /api/v1/inspections/export
func (h *ReportHandler) ExportInspections(c *gin.Context) {
	params := repository.InspectionListParams{
		FormID:    c.Query("form_id"),
		TypeID:    c.Query("type_id"),
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
		Inspector: c.Query("inspector"),
		Status:    c.Query("status"),
	}

	f, filename, err := h.svc.ExportInspections(c.Request.Context(), params)
	if err != nil {
		InternalError(c, "Failed to build export")
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}
