package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gopherai-qa/internal/app"
	"gopherai-qa/internal/transport/http/response"
)

// writeError maps service errors onto the HTTP status taxonomy. Anything that is
// not a validation or not-found error is a 500 whose message is passed through.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, app.ErrInvalidInput),
		errors.Is(err, app.ErrInvalidStatsType),
		errors.Is(err, app.ErrUnsupportedFile),
		errors.Is(err, app.ErrFileTooLarge),
		errors.Is(err, app.ErrNoExtractableText):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrQuestionNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, err.Error())
	}
}
