package handlers

import (
	"municore/internal/domain/secretariat"
	"municore/internal/infrastructure/http/v1/dto"
)

// SecretariatHTTPHandler is the configured generic handler for secretariats.
type SecretariatHTTPHandler = RecordHandler[
	*secretariat.Secretariat,
	dto.CreateSecretariatRequest,
	dto.UpdateSecretariatRequest,
]

// NewSecretariatHandler wires the generic record handler for secretariats.
func NewSecretariatHandler(
	base *BaseHandler,
	service *secretariat.Service,
) *SecretariatHTTPHandler {

	config := RecordHandlerConfig[
		*secretariat.Secretariat,
		dto.CreateSecretariatRequest,
		dto.UpdateSecretariatRequest,
	]{
		Service:    service.RecordService,
		EntityName: "secretariat",

		MapCreateDTO: func(req dto.CreateSecretariatRequest, mayoraltyID int64) *secretariat.Secretariat {
			return req.ToEntity(mayoraltyID)
		},

		MapUpdateDTO: func(req dto.UpdateSecretariatRequest, existing *secretariat.Secretariat) *secretariat.Secretariat {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(s *secretariat.Secretariat) any {
			return dto.FromSecretariat(s)
		},
	}

	return NewRecordHandler(base, config)
}
