// Package memory is an in-process vector store using brute-force cosine
// distance. It backs tests and local development.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/frknlke/eluvium-backend/internal/vectorstore"
)

type entry struct {
	id       string
	document string
	metadata map[string]string
	vector   []float64
}

// Store keeps all documents in memory. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	name    string
	entries map[string]*entry
	order   []string
}

// NewStore creates an empty in-memory store.
func NewStore(name string) *Store {
	return &Store{
		name:    name,
		entries: make(map[string]*entry),
	}
}

// Upsert writes or replaces the document keyed by id.
func (s *Store) Upsert(ctx context.Context, id, document string, metadata map[string]string, vector []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[id]; !exists {
		s.order = append(s.order, id)
	}
	s.entries[id] = &entry{id: id, document: document, metadata: metadata, vector: vector}
	return nil
}

// Query ranks all stored documents by cosine distance to the query vector.
func (s *Store) Query(ctx context.Context, vector []float64, limit int, filter map[string]string) ([]vectorstore.Match, error) {
	if limit <= 0 {
		limit = 5
	}
	conds := vectorstore.ParseFilter(filter)

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]vectorstore.Match, 0, len(s.entries))
	for _, id := range s.order {
		e := s.entries[id]
		if !vectorstore.MatchesFilter(e.metadata, conds) {
			continue
		}
		matches = append(matches, vectorstore.Match{
			ID:       e.id,
			Document: e.document,
			Metadata: e.metadata,
			Distance: cosineDistance(vector, e.vector),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Delete removes the document keyed by id. Missing ids are ignored.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[id]; !exists {
		return nil
	}
	delete(s.entries, id)
	for i, other := range s.order {
		if other == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Stats reports the document count.
func (s *Store) Stats(ctx context.Context) (vectorstore.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return vectorstore.Stats{Count: int64(len(s.entries)), Name: s.name}, nil
}

// Dump returns every stored document in insertion order.
func (s *Store) Dump(ctx context.Context) ([]vectorstore.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := make([]vectorstore.Match, 0, len(s.entries))
	for _, id := range s.order {
		e := s.entries[id]
		matches = append(matches, vectorstore.Match{
			ID:       e.id,
			Document: e.document,
			Metadata: e.metadata,
		})
	}
	return matches, nil
}

// cosineDistance is 1 minus the cosine similarity of a and b.
func cosineDistance(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
