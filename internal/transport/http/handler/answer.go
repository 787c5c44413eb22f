package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gopherai-qa/internal/app"
	"gopherai-qa/internal/model"
	"gopherai-qa/internal/transport/http/response"
)

type AnswerHandler struct {
	qaService *app.QAService
}

type CreateAnswerRequest struct {
	QuestionID string `json:"question_id"`
	Content    string `json:"content"`
}

func NewAnswerHandler(qaService *app.QAService) *AnswerHandler {
	return &AnswerHandler{qaService: qaService}
}

func (h *AnswerHandler) Create(c *gin.Context) {
	var req CreateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	rawID := strings.TrimSpace(req.QuestionID)
	if rawID == "" {
		response.Error(c, http.StatusBadRequest, "question_id is required")
		return
	}
	// A malformed id cannot name a stored question.
	questionID, err := uuid.Parse(rawID)
	if err != nil {
		writeError(c, app.ErrQuestionNotFound)
		return
	}

	answer, err := h.qaService.SubmitAnswer(c.Request.Context(), app.SubmitAnswerInput{
		QuestionID: questionID,
		Content:    req.Content,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"message": "Answer saved",
		"answer":  answer,
	})
}

func (h *AnswerHandler) ListByQuestion(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Success(c, http.StatusOK, gin.H{"answers": []model.AnswerView{}})
		return
	}
	answers, err := h.qaService.ListAnswers(c.Request.Context(), questionID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"answers": answers})
}
