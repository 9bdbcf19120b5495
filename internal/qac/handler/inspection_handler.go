package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Expenditious/qac-system/internal/qac/repository"
	"github.com/Expenditious/qac-system/internal/qac/service"
)

// InspectionHandler serves inspection record CRUD and history.
type InspectionHandler struct {
	svc *service.InspectionService
}

func NewInspectionHandler(svc *service.InspectionService) *InspectionHandler {
	return &InspectionHandler{svc: svc}
}

type createInspectionRequest struct {
	FormCode string `json:"form_code" binding:"required"`
	TypeCode string `json:"type_code"`
	service.SubmissionPayload
}

// Create handles POST /api/v1/inspections
func (h *InspectionHandler) Create(c *gin.Context) {
	var req createInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	master, err := h.svc.Create(c.Request.Context(), GetActor(c), req.FormCode, req.TypeCode, &req.SubmissionPayload)
	if err != nil {
		writeInspectionError(c, err)
		return
	}

	Created(c, master)
}

type updateInspectionRequest struct {
	EditReason string `json:"edit_reason"`
	service.SubmissionPayload
}

// Update handles PUT /api/v1/inspections/:id
func (h *InspectionHandler) Update(c *gin.Context) {
	var req updateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	master, err := h.svc.Update(c.Request.Context(), GetActor(c), c.Param("id"), &req.SubmissionPayload, req.EditReason)
	if err != nil {
		writeInspectionError(c, err)
		return
	}

	Success(c, master)
}

// Get handles GET /api/v1/inspections/:id
func (h *InspectionHandler) Get(c *gin.Context) {
	master, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeInspectionError(c, err)
		return
	}
	Success(c, master)
}

// List handles GET /api/v1/inspections
func (h *InspectionHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	params := repository.InspectionListParams{
		FormID:    c.Query("form_id"),
		TypeID:    c.Query("type_id"),
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
		Inspector: c.Query("inspector"),
		Status:    c.Query("status"),
		Page:      page,
		Size:      pageSize,
	}

	items, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, "Failed to list inspections")
		return
	}

	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)
	Success(c, ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// History handles GET /api/v1/inspections/:id/history
func (h *InspectionHandler) History(c *gin.Context) {
	history, err := h.svc.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeInspectionError(c, err)
		return
	}
	Success(c, gin.H{"items": history})
}

// writeInspectionError maps service errors onto the response envelope.
func writeInspectionError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(400, gin.H{
			"code":    40001,
			"message": verr.Error(),
			"errors":  verr.Errors,
		})
		return
	}
	if errors.Is(err, repository.ErrNotFound) {
		NotFound(c, "Inspection not found")
		return
	}
	InternalError(c, "Operation failed")
}
