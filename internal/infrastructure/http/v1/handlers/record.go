// Package handlers provides HTTP request handlers.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"municore/internal/core/apperror"
	"municore/internal/core/entity"
	"municore/internal/domain"
	"municore/internal/domain/filter"
	"municore/internal/infrastructure/http/v1/dto"
)

// RecordHandler provides generic HTTP handlers for administrative records.
// Records live under /mayoralties/:mayoraltyID; the handler verifies that
// a record fetched by ID actually belongs to the addressed mayoralty.
type RecordHandler[T entity.Validatable, CreateDTO any, UpdateDTO any] struct {
	*BaseHandler
	service    *domain.RecordService[T]
	entityName string

	// Mapper functions
	mapCreateDTO func(dto CreateDTO, mayoraltyID int64) T
	mapUpdateDTO func(dto UpdateDTO, existing T) T
	mapToDTO     func(entity T) any
}

// RecordHandlerConfig configures the record handler.
type RecordHandlerConfig[T entity.Validatable, CreateDTO any, UpdateDTO any] struct {
	Service      *domain.RecordService[T]
	EntityName   string
	MapCreateDTO func(dto CreateDTO, mayoraltyID int64) T
	MapUpdateDTO func(dto UpdateDTO, existing T) T
	MapToDTO     func(entity T) any
}

// NewRecordHandler creates a new record handler.
func NewRecordHandler[T entity.Validatable, CreateDTO any, UpdateDTO any](
	base *BaseHandler,
	cfg RecordHandlerConfig[T, CreateDTO, UpdateDTO],
) *RecordHandler[T, CreateDTO, UpdateDTO] {
	return &RecordHandler[T, CreateDTO, UpdateDTO]{
		BaseHandler:  base,
		service:      cfg.Service,
		entityName:   cfg.EntityName,
		mapCreateDTO: cfg.MapCreateDTO,
		mapUpdateDTO: cfg.MapUpdateDTO,
		mapToDTO:     cfg.MapToDTO,
	}
}

// List handles GET /{entity} - list with filtering and pagination.
func (h *RecordHandler[T, CreateDTO, UpdateDTO]) List(c *gin.Context) {
	ctx := c.Request.Context()

	mayoraltyID, ok := h.MayoraltyID(c)
	if !ok {
		return
	}

	// Parse filter from query params
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

	result, err := h.service.List(ctx, mayoraltyID, f)
	if err != nil {
		h.Error(c, err)
		return
	}

	// Map entities to DTOs
	items := make([]any, len(result.Items))
	for i, item := range result.Items {
		items[i] = h.mapToDTO(item)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /{entity}/:id - get single record, deleted included.
func (h *RecordHandler[T, CreateDTO, UpdateDTO]) Get(c *gin.Context) {
	ent, ok := h.fetchOwned(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.mapToDTO(ent))
}

// Create handles POST /{entity} - create new record.
func (h *RecordHandler[T, CreateDTO, UpdateDTO]) Create(c *gin.Context) {
	ctx := c.Request.Context()

	mayoraltyID, ok := h.MayoraltyID(c)
	if !ok {
		return
	}

	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	ent := h.mapCreateDTO(req, mayoraltyID)

	if err := h.service.Create(ctx, ent); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.mapToDTO(ent))
}

// Update handles PUT /{entity}/:id - update existing record.
func (h *RecordHandler[T, CreateDTO, UpdateDTO]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	existing, ok := h.fetchOwned(c)
	if !ok {
		return
	}

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	updated := h.mapUpdateDTO(req, existing)

	if err := h.service.Update(ctx, updated); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, h.mapToDTO(updated))
}

// Delete handles DELETE /{entity}/:id - soft delete with archival.
// Accepts an optional JSON body carrying the archival reason.
func (h *RecordHandler[T, CreateDTO, UpdateDTO]) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	ent, ok := h.fetchOwned(c)
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

	id := any(ent).(entity.Identified).GetID()
	if err := h.service.SoftDelete(ctx, id, h.Actor(c), reason); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Restore handles POST /{entity}/:id/restore - revive a deleted record.
func (h *RecordHandler[T, CreateDTO, UpdateDTO]) Restore(c *gin.Context) {
	ctx := c.Request.Context()

	ent, ok := h.fetchOwned(c)
	if !ok {
		return
	}

	id := any(ent).(entity.Identified).GetID()
	if err := h.service.Restore(ctx, id); err != nil {
		h.Error(c, err)
		return
	}

	restored, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, h.mapToDTO(restored))
}

// fetchOwned loads the record addressed by :id and verifies it belongs
// to the mayoralty addressed by the URL. Records of other mayoralties
// are reported as not found, never as forbidden.
func (h *RecordHandler[T, CreateDTO, UpdateDTO]) fetchOwned(c *gin.Context) (T, bool) {
	var zero T
	ctx := c.Request.Context()

	mayoraltyID, ok := h.MayoraltyID(c)
	if !ok {
		return zero, false
	}

	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return zero, false
	}

	ent, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.Error(c, err)
		return zero, false
	}

	if scoped, ok := any(ent).(entity.TenantScoped); ok && scoped.GetMayoraltyID() != mayoraltyID {
		h.Error(c, apperror.NewNotFound(h.entityName, id))
		return zero, false
	}

	return ent, true
}
