package ml

import (
	"context"
	"sync"
)

// MockRegressor permite tests sin un modelo real.
type MockRegressor struct {
	Value float64
	Err   error

	mu      sync.Mutex
	lastRow FeatureRow
	calls   int
}

func (m *MockRegressor) Predict(_ context.Context, row FeatureRow) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastRow = row
	m.calls++
	return m.Value, m.Err
}

func (m *MockRegressor) LastRow() FeatureRow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRow
}

func (m *MockRegressor) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
