package reportController

import (
	"context"
	"vistoria/internal/services"

	"github.com/google/uuid"
)

type ReportControllerInterface interface {
	InspectionHTML(ctx context.Context, inspectionID uuid.UUID) ([]byte, error)
}

type ReportController struct {
	reportService *services.ReportService
}

func New(services services.Service) ReportControllerInterface {
	return &ReportController{reportService: services.Report}
}

func (rc *ReportController) InspectionHTML(ctx context.Context, inspectionID uuid.UUID) ([]byte, error) {
	return rc.reportService.RenderHTML(ctx, inspectionID)
}
