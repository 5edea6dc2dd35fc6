package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/moneya/internal/metrics"
	"github.com/xxxsen/moneya/internal/model"
	"github.com/xxxsen/moneya/internal/pkg/response"
)

const (
	defaultSearchResults = 5
	maxSearchResults     = 20
)

type searcher interface {
	Search(query string, maxResults int) []model.Chunk
}

type RAGHandler struct {
	searcher searcher
}

func NewRAGHandler(s searcher) *RAGHandler {
	return &RAGHandler{searcher: s}
}

type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"maxResults"`
}

type searchResponse struct {
	Query   string        `json:"query"`
	Count   int           `json:"count"`
	Results []model.Chunk `json:"results"`
}

func (h *RAGHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidRequest)
		return
	}
	if req.Query == "" {
		badRequest(c, msgQueryRequired)
		return
	}
	limit := req.MaxResults
	if limit <= 0 {
		limit = defaultSearchResults
	}
	if limit > maxSearchResults {
		limit = maxSearchResults
	}
	results := h.searcher.Search(req.Query, limit)
	metrics.ObserveSearch("api", len(results))
	response.JSON(c, searchResponse{
		Query:   req.Query,
		Count:   len(results),
		Results: results,
	})
}
