package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"municore/internal/domain/project"
	"municore/internal/infrastructure/http/v1/dto"
)

// ProjectHandler extends the generic record handler with budget reporting.
type ProjectHandler struct {
	*RecordHandler[*project.Project, dto.CreateProjectRequest, dto.UpdateProjectRequest]
	service *project.Service
}

// NewProjectHandler wires the generic record handler for projects.
func NewProjectHandler(
	base *BaseHandler,
	service *project.Service,
) *ProjectHandler {

	config := RecordHandlerConfig[
		*project.Project,
		dto.CreateProjectRequest,
		dto.UpdateProjectRequest,
	]{
		Service:    service.RecordService,
		EntityName: "project",

		MapCreateDTO: func(req dto.CreateProjectRequest, mayoraltyID int64) *project.Project {
			return req.ToEntity(mayoraltyID)
		},

		MapUpdateDTO: func(req dto.UpdateProjectRequest, existing *project.Project) *project.Project {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(p *project.Project) any {
			return dto.FromProject(p)
		},
	}

	return &ProjectHandler{
		RecordHandler: NewRecordHandler(base, config),
		service:       service,
	}
}

// TotalBudget handles GET /projects/total-budget - sum of live budgets.
func (h *ProjectHandler) TotalBudget(c *gin.Context) {
	ctx := c.Request.Context()

	mayoraltyID, ok := h.MayoraltyID(c)
	if !ok {
		return
	}

	total, err := h.service.TotalBudget(ctx, mayoraltyID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TotalBudgetResponse{
		MayoraltyID: mayoraltyID,
		Total:       total,
	})
}
