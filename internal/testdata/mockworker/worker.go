package mockworker

import (
	"lead-insights-service/internal/model"

	"github.com/stretchr/testify/mock"
)

type Worker struct {
	mock.Mock
}

func (m *Worker) Enqueue(lead model.Lead) {
	m.Called(lead)
}

func (m *Worker) Shutdown() {
	m.Called()
}
