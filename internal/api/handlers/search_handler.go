package handlers

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	api "github.com/frknlke/eluvium-backend/internal/api/response"
	apperrors "github.com/frknlke/eluvium-backend/internal/errors"
	"github.com/frknlke/eluvium-backend/internal/vectorstore"
)

const defaultSearchLimit = 10

// SearchHandler exposes the vector mirror for querying
type SearchHandler struct {
	store  vectorstore.Store
	logger *slog.Logger
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(store vectorstore.Store, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{store: store, logger: logger}
}

// SemanticSearchRequest represents the request body for similarity search
type SemanticSearchRequest struct {
	Query   string            `json:"query"`
	Limit   int               `json:"limit,omitempty"`
	Filters map[string]string `json:"filters,omitempty"`
}

// AdvancedSearchRequest represents the request body for pure metadata search
type AdvancedSearchRequest struct {
	Filters map[string]string `json:"filters"`
	Limit   int               `json:"limit,omitempty"`
}

// Semantic handles POST /api/search/semantic. The query text is embedded
// and matched against stored documents by distance, optionally restricted
// by metadata filters.
func (h *SearchHandler) Semantic(c echo.Context) error {
	var req SemanticSearchRequest
	if err := c.Bind(&req); err != nil {
		return api.BadRequest(c, "invalid request body")
	}
	if req.Query == "" {
		return api.BadRequest(c, "query is required")
	}
	if req.Limit <= 0 {
		req.Limit = defaultSearchLimit
	}

	vector := vectorstore.HashEmbedding(req.Query)
	matches, err := h.store.Query(c.Request().Context(), vector, req.Limit, req.Filters)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("semantic search failed", slog.Any("error", err))
		}
		return api.ServiceUnavailable(c, "search backend unavailable", apperrors.CodeVectorStoreUnavailable)
	}

	return api.Success(c, matches)
}

// Advanced handles POST /api/search/advanced. No vector is involved;
// every stored document is tested against the filter conditions.
func (h *SearchHandler) Advanced(c echo.Context) error {
	var req AdvancedSearchRequest
	if err := c.Bind(&req); err != nil {
		return api.BadRequest(c, "invalid request body")
	}
	if len(req.Filters) == 0 {
		return api.BadRequest(c, "at least one filter is required")
	}
	if req.Limit <= 0 {
		req.Limit = defaultSearchLimit
	}

	docs, err := h.store.Dump(c.Request().Context())
	if err != nil {
		if h.logger != nil {
			h.logger.Error("advanced search failed", slog.Any("error", err))
		}
		return api.ServiceUnavailable(c, "search backend unavailable", apperrors.CodeVectorStoreUnavailable)
	}

	conds := vectorstore.ParseFilter(req.Filters)
	matches := make([]vectorstore.Match, 0, req.Limit)
	for _, doc := range docs {
		if vectorstore.MatchesFilter(doc.Metadata, conds) {
			matches = append(matches, doc)
			if len(matches) >= req.Limit {
				break
			}
		}
	}

	return api.Success(c, matches)
}

// Stats handles GET /api/search/stats
func (h *SearchHandler) Stats(c echo.Context) error {
	stats, err := h.store.Stats(c.Request().Context())
	if err != nil {
		return api.ServiceUnavailable(c, "search backend unavailable", apperrors.CodeVectorStoreUnavailable)
	}
	return api.Success(c, stats)
}

// Dump handles GET /api/search/dump. Diagnostics only; returns every
// stored document.
func (h *SearchHandler) Dump(c echo.Context) error {
	docs, err := h.store.Dump(c.Request().Context())
	if err != nil {
		return api.ServiceUnavailable(c, "search backend unavailable", apperrors.CodeVectorStoreUnavailable)
	}
	return api.Success(c, docs)
}
