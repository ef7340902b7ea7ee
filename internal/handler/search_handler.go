package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"researchhub/internal/service"
)

const defaultSearchLimit = 20

// SearchHandler handles search cache and paper search endpoints.
type SearchHandler struct {
	searchService service.SearchService
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// CachePutRequest represents a cache write for a search result set.
type CachePutRequest struct {
	Query   string          `json:"query" validate:"required"`
	Results json.RawMessage `json:"results" validate:"required"`
	Source  string          `json:"source"`
}

// CacheGet godoc
// @Summary Look up cached results for a search query
// @Tags search
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /search/cache [get]
func (h *SearchHandler) CacheGet(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return respondBadRequest(c, "query parameter q is required")
	}

	cached, err := h.searchService.Lookup(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "cache hit", cached)
}

// CachePut godoc
// @Summary Store a result set in the search cache
// @Tags search
// @Accept json
// @Produce json
// @Param request body CachePutRequest true "Results to cache"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /search/cache [post]
func (h *SearchHandler) CachePut(c echo.Context) error {
	var req CachePutRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	key, err := h.searchService.Store(c.Request().Context(), req.Query, req.Results, req.Source)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "results cached", map[string]string{
		"cache_key": key,
	})
}

// SearchPapers godoc
// @Summary Search academic papers, cache-first
// @Tags search
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Max results" default(20)
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 502 {object} Envelope
// @Router /search/papers [get]
func (h *SearchHandler) SearchPapers(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return respondBadRequest(c, "query parameter q is required")
	}

	limit := defaultSearchLimit
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	var userID uint
	if raw := c.QueryParam("user_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			userID = uint(id)
		}
	}

	results, err := h.searchService.SearchPapers(c.Request().Context(), userID, query, limit)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "search complete", results)
}
