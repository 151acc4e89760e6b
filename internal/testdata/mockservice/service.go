package mockservice

import (
	"context"
	"io"

	"lead-insights-service/internal/model"
	"lead-insights-service/internal/service"

	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

// Interface compliance check
var _ service.LeadService = &Service{}

func (m *Service) BuildLead(req model.LeadRequest) (model.Lead, error) {
	args := m.Called(req)
	return args.Get(0).(model.Lead), args.Error(1)
}

func (m *Service) ProcessLead(ctx context.Context, lead model.Lead) (model.LeadResult, error) {
	args := m.Called(ctx, lead)
	return args.Get(0).(model.LeadResult), args.Error(1)
}

func (m *Service) ListLeads(ctx context.Context, filter model.LeadFilter) ([]model.Lead, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]model.Lead), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Service) GetDashboard(ctx context.Context, filter model.LeadFilter) (model.DashboardResponse, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(model.DashboardResponse), args.Error(1)
}

func (m *Service) ExportLeads(ctx context.Context, filter model.LeadFilter, w io.Writer) error {
	args := m.Called(ctx, filter, w)
	return args.Error(0)
}

func (m *Service) ListClients(ctx context.Context) ([]model.Client, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]model.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Service) GenerateClientLink(ctx context.Context, clientID int64) (model.ClientLink, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(model.ClientLink), args.Error(1)
}
