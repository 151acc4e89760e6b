package mockrepository

import (
	"context"

	"lead-insights-service/internal/model"
	"lead-insights-service/internal/repository"

	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

// Interface compliance check
var _ repository.LeadRepository = &Repository{}

func (m *Repository) Create(ctx context.Context, lead model.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *Repository) CreateBatch(ctx context.Context, leads []model.Lead) error {
	args := m.Called(ctx, leads)
	return args.Error(0)
}

func (m *Repository) FetchLeads(ctx context.Context, filter model.LeadFilter) ([]model.Lead, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]model.Lead), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Repository) ListClients(ctx context.Context) ([]model.Client, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]model.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Repository) GetClient(ctx context.Context, id int64) (model.Client, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Client), args.Error(1)
}
