package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"municore/internal/core/apperror"
	"municore/internal/domain"
	"municore/internal/domain/filter"
	"municore/internal/domain/mayoralty"
	"municore/internal/infrastructure/http/v1/dto"
)

// MayoraltyHandler handles mayoralty endpoints. Mayoralties are the
// tenants themselves, so these routes sit outside the per-mayoralty
// record tree and use :mayoraltyID as the record ID.
type MayoraltyHandler struct {
	*BaseHandler
	service *mayoralty.Service
}

// NewMayoraltyHandler creates a new mayoralty handler.
func NewMayoraltyHandler(base *BaseHandler, service *mayoralty.Service) *MayoraltyHandler {
	return &MayoraltyHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /mayoralties
func (h *MayoraltyHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	f := domain.DefaultListFilter()
	f.Search = c.Query("search")
	f.Limit = h.ParseIntQuery(c, "limit", 50)
	f.Offset = h.ParseIntQuery(c, "offset", 0)
	f.OrderBy = c.DefaultQuery("orderBy", "name")
	f.IncludeDeleted = c.Query("includeDeleted") == "true"

	if active := c.Query("active"); active != "" {
		val := active == "true"
		f.Active = &val
	}

	if filterJSON := c.Query("filter"); filterJSON != "" {
		var advFilters []filter.Item
		if err := json.Unmarshal([]byte(filterJSON), &advFilters); err != nil {
			h.Error(c, apperror.NewValidation("invalid filter format (json expected)"))
			return
		}
		f.AdvancedFilters = advFilters
	}

	// Mayoralties are not tenant-scoped; the tenant argument is ignored.
	result, err := h.service.List(ctx, 0, f)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, item := range result.Items {
		items[i] = dto.FromMayoralty(item)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /mayoralties/:mayoraltyID
func (h *MayoraltyHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := h.MayoraltyID(c)
	if !ok {
		return
	}

	m, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromMayoralty(m))
}

// GetByCode handles GET /mayoralties/by-code/:code
func (h *MayoraltyHandler) GetByCode(c *gin.Context) {
	ctx := c.Request.Context()

	m, err := h.service.GetByCode(ctx, c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromMayoralty(m))
}

// Create handles POST /mayoralties
func (h *MayoraltyHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateMayoraltyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m := req.ToEntity()
	if err := h.service.Create(ctx, m); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromMayoralty(m))
}

// Update handles PUT /mayoralties/:mayoraltyID
func (h *MayoraltyHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := h.MayoraltyID(c)
	if !ok {
		return
	}

	var req dto.UpdateMayoraltyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(m)

	if err := h.service.Update(ctx, m); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromMayoralty(m))
}

// Delete handles DELETE /mayoralties/:mayoraltyID
// Refused while the mayoralty still has live records.
func (h *MayoraltyHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := h.MayoraltyID(c)
	if !ok {
		return
	}

	var reason *string
	if c.Request.ContentLength > 0 {
		var req dto.DeleteRequest
		if !h.BindJSON(c, &req) {
			return
		}
		reason = req.Reason
	}

	if err := h.service.SoftDelete(ctx, id, h.Actor(c), reason); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Restore handles POST /mayoralties/:mayoraltyID/restore
func (h *MayoraltyHandler) Restore(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := h.MayoraltyID(c)
	if !ok {
		return
	}

	if err := h.service.Restore(ctx, id); err != nil {
		h.Error(c, err)
		return
	}

	m, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromMayoralty(m))
}
