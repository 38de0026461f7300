// Package vectorstore defines the searchable mirror of persisted emails:
// one document per relational row, keyed by the same id, indexed by a
// feature vector with scalar-only metadata for filtering.
package vectorstore

import "context"

// Match is one search hit.
type Match struct {
	ID       string            `json:"id"`
	Document string            `json:"document"`
	Metadata map[string]string `json:"metadata"`
	Distance float64           `json:"distance"`
}

// Stats summarizes a collection.
type Stats struct {
	Count int64  `json:"count"`
	Name  string `json:"name"`
}

// Store persists documents with their vectors and supports similarity
// search with metadata filtering.
type Store interface {
	// Upsert writes one document keyed by id. Metadata values are
	// scalar strings only.
	Upsert(ctx context.Context, id, document string, metadata map[string]string, vector []float64) error

	// Query returns up to limit matches ranked by distance, optionally
	// restricted by a metadata filter. Filter keys support the
	// "<field>_contains", "<field>_gte" and "<field>_lte" suffix
	// operators; plain keys match exactly.
	Query(ctx context.Context, vector []float64, limit int, filter map[string]string) ([]Match, error)

	// Delete removes the document keyed by id. Deleting a missing id is
	// not an error.
	Delete(ctx context.Context, id string) error

	// Stats returns collection statistics.
	Stats(ctx context.Context) (Stats, error)

	// Dump returns every stored document. Intended for diagnostics.
	Dump(ctx context.Context) ([]Match, error)
}
