package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_CreatesCollection(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := NewStore(Config{URL: srv.URL, Collection: "emails"})

	err := store.Init(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/collections/emails", gotPath)

	vectors, ok := gotBody["vectors"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(10), vectors["size"])
	assert.Equal(t, "Cosine", vectors["distance"])
}

func TestInit_RejectsInvalidDimension(t *testing.T) {
	store := NewStore(Config{URL: "http://localhost:6333", Collection: "emails"})

	err := store.Init(context.Background(), 0)
	assert.Error(t, err)
}

func TestInit_PropagatesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":{"error":"bad schema"}}`))
	}))
	defer srv.Close()

	store := NewStore(Config{URL: srv.URL, Collection: "emails"})

	err := store.Init(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestDo_SendsAPIKeyHeader(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := NewStore(Config{URL: srv.URL, APIKey: "qd-secret", Collection: "emails"})

	require.NoError(t, store.Init(context.Background(), 10))
	assert.Equal(t, "qd-secret", gotKey)
}
