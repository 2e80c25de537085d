package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"municore/internal/core/apperror"
	"municore/internal/domain/archive"
	"municore/internal/infrastructure/http/v1/dto"
)

// ArchiveHandler exposes the deletion ledger for compliance review.
// Entries are read-only; there is no way to mutate the archive over HTTP.
type ArchiveHandler struct {
	*BaseHandler
	service *archive.Service
}

// NewArchiveHandler creates a new archive handler.
func NewArchiveHandler(base *BaseHandler, service *archive.Service) *ArchiveHandler {
	return &ArchiveHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /archive - query the deletion ledger.
func (h *ArchiveHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	q, ok := h.parseQuery(c)
	if !ok {
		return
	}

	entries, err := h.service.Find(ctx, q)
	if err != nil {
		h.Error(c, err)
		return
	}

	total, err := h.service.Count(ctx, q)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(entries))
	for i, e := range entries {
		items[i] = dto.FromArchiveEntry(e)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: total,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
}

// Get handles GET /archive/:id - fetch one entry with its snapshot.
func (h *ArchiveHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromArchiveEntry(entry))
}

func (h *ArchiveHandler) parseQuery(c *gin.Context) (archive.Query, bool) {
	q := archive.Query{
		SourceTable: c.Query("sourceTable"),
		Limit:       h.ParseIntQuery(c, "limit", 50),
		Offset:      h.ParseIntQuery(c, "offset", 0),
	}

	if raw := c.Query("recordId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid recordId").WithDetail("recordId", raw))
			return q, false
		}
		q.SourceRecordID = id
	}

	if raw := c.Query("mayoraltyId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid mayoraltyId").WithDetail("mayoraltyId", raw))
			return q, false
		}
		q.MayoraltyID = &id
	}

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid from timestamp (RFC3339 expected)"))
			return q, false
		}
		q.From = t
	}

	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid to timestamp (RFC3339 expected)"))
			return q, false
		}
		q.To = t
	}

	return q, true
}
