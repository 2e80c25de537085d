package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"municore/internal/domain/reconcile"
	"municore/internal/domain/subsecretariat"
	"municore/internal/infrastructure/http/v1/dto"
)

// SubsecretariatHandler extends the generic record handler with
// relationship synchronization endpoints.
type SubsecretariatHandler struct {
	*RecordHandler[*subsecretariat.Subsecretariat, dto.CreateSubsecretariatRequest, dto.UpdateSubsecretariatRequest]
	service *subsecretariat.Service
}

// NewSubsecretariatHandler wires the generic record handler for subsecretariats.
func NewSubsecretariatHandler(
	base *BaseHandler,
	service *subsecretariat.Service,
) *SubsecretariatHandler {

	config := RecordHandlerConfig[
		*subsecretariat.Subsecretariat,
		dto.CreateSubsecretariatRequest,
		dto.UpdateSubsecretariatRequest,
	]{
		Service:    service.RecordService,
		EntityName: "subsecretariat",

		MapCreateDTO: func(req dto.CreateSubsecretariatRequest, mayoraltyID int64) *subsecretariat.Subsecretariat {
			return req.ToEntity(mayoraltyID)
		},

		MapUpdateDTO: func(req dto.UpdateSubsecretariatRequest, existing *subsecretariat.Subsecretariat) *subsecretariat.Subsecretariat {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(s *subsecretariat.Subsecretariat) any {
			return dto.FromSubsecretariat(s)
		},
	}

	return &SubsecretariatHandler{
		RecordHandler: NewRecordHandler(base, config),
		service:       service,
	}
}

// SyncSecretariats handles PUT /subsecretariats/:id/secretariats -
// reconcile the secretariat links against the desired set.
func (h *SubsecretariatHandler) SyncSecretariats(c *gin.Context) {
	h.sync(c, h.service.SyncSecretariats)
}

// SyncOfficials handles PUT /subsecretariats/:id/officials -
// reconcile the official assignments against the desired set.
func (h *SubsecretariatHandler) SyncOfficials(c *gin.Context) {
	h.sync(c, h.service.SyncOfficials)
}

// ListSecretariats handles GET /subsecretariats/:id/secretariats
func (h *SubsecretariatHandler) ListSecretariats(c *gin.Context) {
	h.listLinks(c, h.service.SecretariatIDs)
}

// ListOfficials handles GET /subsecretariats/:id/officials
func (h *SubsecretariatHandler) ListOfficials(c *gin.Context) {
	h.listLinks(c, h.service.OfficialIDs)
}

type syncFunc func(ctx context.Context, mayoraltyID, subsecretariatID int64, desired []int64, actor string) (reconcile.Result, error)

func (h *SubsecretariatHandler) sync(
	c *gin.Context,
	fn syncFunc,
) {
	ctx := c.Request.Context()

	mayoraltyID, ok := h.MayoraltyID(c)
	if !ok {
		return
	}

	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SyncRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := fn(ctx, mayoraltyID, id, req.IDs, h.Actor(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SyncResponse{
		Restored: result.Restored,
		Kept:     result.Kept,
		Retired:  result.Retired,
		Created:  result.Created,
		Changed:  result.Changed(),
	})
}

func (h *SubsecretariatHandler) listLinks(
	c *gin.Context,
	fn func(ctx context.Context, mayoraltyID, subsecretariatID int64) ([]int64, error),
) {
	ctx := c.Request.Context()

	mayoraltyID, ok := h.MayoraltyID(c)
	if !ok {
		return
	}

	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	ids, err := fn(ctx, mayoraltyID, id)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.IDListResponse{IDs: ids})
}
