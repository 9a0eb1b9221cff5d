package handler

import (
	"github.com/gin-gonic/gin"

	importapp "github.com/shopadmin/backend/internal/application/import"
)

// ImportHandler handles the product import pipeline endpoints
type ImportHandler struct {
	BaseHandler
	importService *importapp.ProductImportService
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importService *importapp.ProductImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// CreateSession handles POST /import/sessions. Expects a multipart form
// with the CSV under the "file" field.
func (h *ImportHandler) CreateSession(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return
	}
	defer file.Close()

	resp, err := h.importService.CreateSession(c.Request.Context(), header.Filename, header.Size, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// CreateFromSKUPaste handles POST /import/skus
func (h *ImportHandler) CreateFromSKUPaste(c *gin.Context) {
	var req importapp.SKUPasteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.importService.CreateFromSKUPaste(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetSession handles GET /import/sessions/:id
func (h *ImportHandler) GetSession(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	resp, err := h.importService.GetSession(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteSession handles DELETE /import/sessions/:id
func (h *ImportHandler) DeleteSession(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.importService.DeleteSession(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetMapping handles PUT /import/sessions/:id/mapping
func (h *ImportHandler) SetMapping(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req importapp.SetMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.importService.SetMapping(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Validate handles POST /import/sessions/:id/validate
func (h *ImportHandler) Validate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.importService.Validate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SetVariants handles PUT /import/sessions/:id/variants
func (h *ImportHandler) SetVariants(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req importapp.SetOptionSetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.importService.SetOptionSets(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetFitments handles PUT /import/sessions/:id/fitments
func (h *ImportHandler) SetFitments(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req importapp.SetFitmentSpecRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.importService.SetFitmentSpec(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Commit handles POST /import/sessions/:id/commit
func (h *ImportHandler) Commit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.importService.Commit(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
