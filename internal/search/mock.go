package search

import (
	"context"
	"fmt"
	"sync/atomic"
)

const MockServiceName = "mock"

// MockService is a Service for testing.
type MockService struct {
	// Results, when non-empty, are returned in order (one slice per call),
	// falling back to the last entry once exhausted.
	Results    [][]Video
	ShouldFail bool

	requestCount atomic.Int64
	queriesSeen  []string
}

// NewMockService creates a mock service returning the given result sets.
func NewMockService(results ...[]Video) *MockService {
	return &MockService{Results: results}
}

// Name returns the service identifier.
func (m *MockService) Name() string {
	return MockServiceName
}

// Search returns the next configured result set.
func (m *MockService) Search(ctx context.Context, query string, maxResults int64) ([]Video, error) {
	n := int(m.requestCount.Add(1)) - 1
	m.queriesSeen = append(m.queriesSeen, query)

	if m.ShouldFail {
		return nil, fmt.Errorf("mock search configured to fail")
	}
	if len(m.Results) == 0 {
		return nil, nil
	}
	if n >= len(m.Results) {
		n = len(m.Results) - 1
	}

	results := m.Results[n]
	if int64(len(results)) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// RequestCount returns the number of searches made.
func (m *MockService) RequestCount() int64 {
	return m.requestCount.Load()
}

// Queries returns the queries seen, in order.
func (m *MockService) Queries() []string {
	return m.queriesSeen
}

// Verify interface
var _ Service = (*MockService)(nil)
