package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gopherai-qa/internal/app"
	"gopherai-qa/internal/transport/http/response"
)

type StatsHandler struct {
	statsService *app.StatsService
}

func NewStatsHandler(statsService *app.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) Get(c *gin.Context) {
	typ := strings.ToLower(strings.TrimSpace(c.DefaultQuery("type", app.StatsSummary)))
	if typ == "" {
		typ = app.StatsSummary
	}

	stats, err := h.statsService.Get(c.Request.Context(), typ)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"type":  typ,
		"stats": stats,
	})
}
