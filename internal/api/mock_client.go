package api

import (
	"context"
	"sync"

	"github.com/diogo/netchat/internal/models"
)

// MockGenerator is a hand-written Generator for tests
type MockGenerator struct {
	// Mock return values
	Reply      string
	Err        error
	PanicValue interface{}
	Model      models.Model
	// ReplyFunc, when set, overrides Reply and Err
	ReplyFunc func(request []models.Turn, instruction string) (string, error)

	// Call recorders
	mu              sync.Mutex
	Calls           int
	LastRequest     []models.Turn
	LastInstruction string
	CloseCalled     bool
}

var _ Generator = (*MockGenerator)(nil)

func (m *MockGenerator) Generate(ctx context.Context, request []models.Turn, instruction string) (string, error) {
	m.mu.Lock()
	m.Calls++
	m.LastRequest = append([]models.Turn(nil), request...)
	m.LastInstruction = instruction
	fn := m.ReplyFunc
	m.mu.Unlock()

	if m.PanicValue != nil {
		panic(m.PanicValue)
	}
	if fn != nil {
		return fn(request, instruction)
	}
	return m.Reply, m.Err
}

func (m *MockGenerator) GetModel() models.Model {
	if m.Model.Name == "" {
		return models.DefaultModel
	}
	return m.Model
}

func (m *MockGenerator) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return nil
}

// CallCount returns how many times Generate was called
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}
