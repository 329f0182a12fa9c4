//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/sette-e-mezzo/internal/advice"
)

// MockAdvisor 实现 advice.Advisor 的 mock
type MockAdvisor struct {
	mock.Mock
}

func (m *MockAdvisor) Advise(ctx context.Context, req advice.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
