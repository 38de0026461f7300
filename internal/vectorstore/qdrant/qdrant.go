// Package qdrant is a minimal REST client implementing vectorstore.Store
// against a Qdrant collection. It assumes cosine distance and creates the
// collection if missing.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/frknlke/eluvium-backend/internal/vectorstore"
)

// Config holds connection settings for one collection.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// Store talks to one Qdrant collection over HTTP.
type Store struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
}

// NewStore creates a Store. Call Init before first use.
func NewStore(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Store{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// Init creates the collection if it does not exist yet.
func (s *Store) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", dimension)
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	// Qdrant returns 200 OK when the collection already exists with the
	// same schema
	return s.do(ctx, http.MethodPut, fmt.Sprintf("%s/collections/%s", s.url, s.collection), body, nil)
}

// Upsert writes one point keyed by id with the document text and metadata
// as payload.
func (s *Store) Upsert(ctx context.Context, id, document string, metadata map[string]string, vector []float64) error {
	payload := map[string]any{"document": document}
	for k, v := range metadata {
		payload[k] = v
	}
	body := map[string]any{
		"points": []map[string]any{
			{
				"id":      id,
				"vector":  vector,
				"payload": payload,
			},
		},
	}
	return s.do(ctx, http.MethodPut, fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body, nil)
}

// Query searches the collection, translating suffix-operator filters into
// Qdrant filter clauses.
func (s *Store) Query(ctx context.Context, vector []float64, limit int, filter map[string]string) ([]vectorstore.Match, error) {
	if limit <= 0 {
		limit = 5
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	if qf := translateFilter(filter); qf != nil {
		req["filter"] = qf
	}

	var resp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodPost, fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection), req, &resp); err != nil {
		return nil, err
	}

	matches := make([]vectorstore.Match, 0, len(resp.Result))
	for _, r := range resp.Result {
		// Cosine similarity score to distance
		matches = append(matches, payloadToMatch(fmt.Sprint(r.ID), r.Payload, 1-r.Score))
	}
	return matches, nil
}

// Delete removes the point keyed by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	body := map[string]any{"points": []string{id}}
	return s.do(ctx, http.MethodPost, fmt.Sprintf("%s/collections/%s/points/delete?wait=true", s.url, s.collection), body, nil)
}

// Stats reports the point count of the collection.
func (s *Store) Stats(ctx context.Context) (vectorstore.Stats, error) {
	var resp struct {
		Result struct {
			Count int64 `json:"count"`
		} `json:"result"`
	}
	err := s.do(ctx, http.MethodPost, fmt.Sprintf("%s/collections/%s/points/count", s.url, s.collection), map[string]any{"exact": true}, &resp)
	if err != nil {
		return vectorstore.Stats{}, err
	}
	return vectorstore.Stats{Count: resp.Result.Count, Name: s.collection}, nil
}

// Dump scrolls the whole collection. Diagnostics only; loads everything
// into memory.
func (s *Store) Dump(ctx context.Context) ([]vectorstore.Match, error) {
	var matches []vectorstore.Match
	var offset any

	for {
		req := map[string]any{
			"limit":        256,
			"with_payload": true,
		}
		if offset != nil {
			req["offset"] = offset
		}

		var resp struct {
			Result struct {
				Points []struct {
					ID      any            `json:"id"`
					Payload map[string]any `json:"payload"`
				} `json:"points"`
				NextPageOffset any `json:"next_page_offset"`
			} `json:"result"`
		}
		if err := s.do(ctx, http.MethodPost, fmt.Sprintf("%s/collections/%s/points/scroll", s.url, s.collection), req, &resp); err != nil {
			return nil, err
		}

		for _, p := range resp.Result.Points {
			matches = append(matches, payloadToMatch(fmt.Sprint(p.ID), p.Payload, 0))
		}

		if resp.Result.NextPageOffset == nil {
			return matches, nil
		}
		offset = resp.Result.NextPageOffset
	}
}

// translateFilter maps suffix-operator filters to Qdrant's filter DSL.
func translateFilter(filter map[string]string) map[string]any {
	conds := vectorstore.ParseFilter(filter)
	if len(conds) == 0 {
		return nil
	}
	must := make([]map[string]any, 0, len(conds))
	for _, c := range conds {
		switch c.Op {
		case vectorstore.OpContains:
			must = append(must, map[string]any{
				"key":   c.Field,
				"match": map[string]any{"text": c.Value},
			})
		case vectorstore.OpGTE:
			must = append(must, map[string]any{
				"key":   c.Field,
				"range": map[string]any{"gte": c.Value},
			})
		case vectorstore.OpLTE:
			must = append(must, map[string]any{
				"key":   c.Field,
				"range": map[string]any{"lte": c.Value},
			})
		default:
			must = append(must, map[string]any{
				"key":   c.Field,
				"match": map[string]any{"value": c.Value},
			})
		}
	}
	return map[string]any{"must": must}
}

func payloadToMatch(id string, payload map[string]any, distance float64) vectorstore.Match {
	m := vectorstore.Match{
		ID:       id,
		Metadata: make(map[string]string, len(payload)),
		Distance: distance,
	}
	for k, v := range payload {
		sv, ok := v.(string)
		if !ok {
			sv = fmt.Sprint(v)
		}
		if k == "document" {
			m.Document = sv
			continue
		}
		m.Metadata[k] = sv
	}
	return m
}

func (s *Store) do(ctx context.Context, method, url string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("qdrant %s %s: status %d: %s", method, url, resp.StatusCode, string(data))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
