package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gopherai-qa/internal/app"
	"gopherai-qa/internal/transport/http/response"
)

type SearchHandler struct {
	searchService *app.SearchService
}

type SearchRequest struct {
	Query string `json:"query"`
}

func NewSearchHandler(searchService *app.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

func (h *SearchHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.searchService.Search(c.Request.Context(), req.Query)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, searchBody(result))
}

func searchBody(r *app.SearchResult) gin.H {
	if !r.Found {
		body := gin.H{
			"found":            false,
			"query":            r.Query,
			"message":          r.Message,
			"closest_question": r.ClosestQuestion,
			"closest_chunks":   r.ClosestChunks,
		}
		if r.ClosestChunks == nil {
			body["closest_chunks"] = []app.ChunkHit{}
		}
		return body
	}

	if r.Source == app.SourceQA {
		return gin.H{
			"found":            true,
			"source":           r.Source,
			"query":            r.Query,
			"matched_question": r.MatchedQuestion,
			"answer":           r.Answer,
			"answers_used":     r.AnswersUsed,
		}
	}
	return gin.H{
		"found":       true,
		"source":      r.Source,
		"query":       r.Query,
		"answer":      r.Answer,
		"sources":     r.Sources,
		"chunks_used": r.ChunksUsed,
		"distance":    r.Distance,
	}
}
