package transform

import (
	"github.com/stretchr/testify/mock"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
	transformport "github.com/ama3it/image-workers-backend/internal/domain/port/transform"
)

// MockTransformer is a mock implementation of the Transformer port
type MockTransformer struct {
	mock.Mock
}

func (m *MockTransformer) Apply(jobType entity.JobType, sourcePath string, data []byte) (*transformport.Result, error) {
	args := m.Called(jobType, sourcePath, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transformport.Result), args.Error(1)
}
