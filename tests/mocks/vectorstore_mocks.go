package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/frknlke/eluvium-backend/internal/vectorstore"
)

// MockVectorStore implements vectorstore.Store
type MockVectorStore struct {
	mock.Mock
}

// Upsert writes one document keyed by id
func (m *MockVectorStore) Upsert(ctx context.Context, id, document string, metadata map[string]string, vector []float64) error {
	args := m.Called(ctx, id, document, metadata, vector)
	return args.Error(0)
}

// Query returns matches ranked by distance
func (m *MockVectorStore) Query(ctx context.Context, vector []float64, limit int, filter map[string]string) ([]vectorstore.Match, error) {
	args := m.Called(ctx, vector, limit, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]vectorstore.Match), args.Error(1)
}

// Delete removes the document keyed by id
func (m *MockVectorStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Stats returns collection statistics
func (m *MockVectorStore) Stats(ctx context.Context) (vectorstore.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(vectorstore.Stats), args.Error(1)
}

// Dump returns every stored document
func (m *MockVectorStore) Dump(ctx context.Context) ([]vectorstore.Match, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]vectorstore.Match), args.Error(1)
}
