package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Expenditious/qac-system/internal/qac/repository"
	"github.com/Expenditious/qac-system/internal/qac/service"
)

// FormHandler serves form definitions and their parameter schemas.
type FormHandler struct {
	svc *service.InspectionService
}

func NewFormHandler(svc *service.InspectionService) *FormHandler {
	return &FormHandler{svc: svc}
}

// List handles GET /api/v1/forms
func (h *FormHandler) List(c *gin.Context) {
	forms, err := h.svc.ListForms(c.Request.Context())
	if err != nil {
		InternalError(c, "Failed to list forms")
		return
	}
	Success(c, gin.H{"items": forms})
}

// Types handles GET /api/v1/forms/:code/types
func (h *FormHandler) Types(c *gin.Context) {
	formCode := c.Param("code")

	types, err := h.svc.ListTypes(c.Request.Context(), formCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Form not found: "+formCode)
			return
		}
		InternalError(c, "Failed to list inspection types")
		return
	}
	Success(c, gin.H{"items": types})
}

// Schema handles GET /api/v1/forms/:code/schema?type=<type_code>
func (h *FormHandler) Schema(c *gin.Context) {
	formCode := c.Param("code")
	typeCode := c.Query("type")

	schema, err := h.svc.LoadSchema(c.Request.Context(), formCode, typeCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Form not found: "+formCode)
			return
		}
		InternalError(c, "Failed to load form schema")
		return
	}

	Success(c, schema)
}
