package adminController

import (
	"context"
	"vistoria/internal/services"
	"vistoria/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

type AdminControllerInterface interface {
	Metrics(ctx context.Context) (*types.AdminMetrics, error)
	RefreshMetrics(ctx context.Context) (*types.AdminMetrics, error)
	InspectionsPerMonth(ctx context.Context) ([]types.MonthCount, error)
}

type AdminController struct {
	adminService *services.AdminService
	log          logger.Logger
}

func New(services services.Service) AdminControllerInterface {
	return &AdminController{
		adminService: services.Admin,
		log:          logger.New("adminController"),
	}
}

func (ac *AdminController) Metrics(ctx context.Context) (*types.AdminMetrics, error) {
	metrics, err := ac.adminService.Metrics(ctx)
	if err != nil {
		return nil, ac.log.Function("Metrics").Err("failed to load metrics", err)
	}
	return metrics, nil
}

// RefreshMetrics recomputes the dashboard snapshot outside the hourly schedule.
func (ac *AdminController) RefreshMetrics(ctx context.Context) (*types.AdminMetrics, error) {
	metrics, err := ac.adminService.Refresh(ctx)
	if err != nil {
		return nil, ac.log.Function("RefreshMetrics").Err("failed to refresh metrics", err)
	}
	return metrics, nil
}

func (ac *AdminController) InspectionsPerMonth(ctx context.Context) ([]types.MonthCount, error) {
	months, err := ac.adminService.InspectionsPerMonth(ctx)
	if err != nil {
		return nil, ac.log.Function("InspectionsPerMonth").Err("failed to count inspections per month", err)
	}
	return months, nil
}
