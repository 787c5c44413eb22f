package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gopherai-qa/internal/app"
	"gopherai-qa/internal/transport/http/response"
)

type DocumentHandler struct {
	documentService *app.DocumentService
}

func NewDocumentHandler(documentService *app.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

func (h *DocumentHandler) List(c *gin.Context) {
	sources, err := h.documentService.ListSources(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"documents": sources})
}
