package handlers

import (
	"municore/internal/domain/official"
	"municore/internal/infrastructure/http/v1/dto"
)

// OfficialHTTPHandler is the configured generic handler for officials.
type OfficialHTTPHandler = RecordHandler[
	*official.Official,
	dto.CreateOfficialRequest,
	dto.UpdateOfficialRequest,
]

// NewOfficialHandler wires the generic record handler for officials.
func NewOfficialHandler(
	base *BaseHandler,
	service *official.Service,
) *OfficialHTTPHandler {

	config := RecordHandlerConfig[
		*official.Official,
		dto.CreateOfficialRequest,
		dto.UpdateOfficialRequest,
	]{
		Service:    service.RecordService,
		EntityName: "official",

		MapCreateDTO: func(req dto.CreateOfficialRequest, mayoraltyID int64) *official.Official {
			return req.ToEntity(mayoraltyID)
		},

		MapUpdateDTO: func(req dto.UpdateOfficialRequest, existing *official.Official) *official.Official {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(o *official.Official) any {
			return dto.FromOfficial(o)
		},
	}

	return NewRecordHandler(base, config)
}
