package handler

import (
	"github.com/gin-gonic/gin"

	contentapp "github.com/shopadmin/backend/internal/application/content"
)

// BlockHandler handles content block API endpoints
type BlockHandler struct {
	BaseHandler
	blockService *contentapp.BlockService
}

// NewBlockHandler creates a new BlockHandler
func NewBlockHandler(blockService *contentapp.BlockService) *BlockHandler {
	return &BlockHandler{blockService: blockService}
}

// Create handles POST /blocks
func (h *BlockHandler) Create(c *gin.Context) {
	var req contentapp.CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.blockService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /blocks/:id
func (h *BlockHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	resp, err := h.blockService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /blocks?area=home&active_only=true
func (h *BlockHandler) List(c *gin.Context) {
	var filter contentapp.BlockListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.blockService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PUT /blocks/:id
func (h *BlockHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req contentapp.UpdateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.blockService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /blocks/:id
func (h *BlockHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.blockService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Reorder handles PUT /blocks/reorder
func (h *BlockHandler) Reorder(c *gin.Context) {
	var req contentapp.ReorderBlocksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.blockService.Reorder(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
