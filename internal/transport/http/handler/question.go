package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gopherai-qa/internal/app"
	"gopherai-qa/internal/transport/http/response"
)

type QuestionHandler struct {
	qaService *app.QAService
}

type CreateQuestionRequest struct {
	Content string `json:"content"`
}

func NewQuestionHandler(qaService *app.QAService) *QuestionHandler {
	return &QuestionHandler{qaService: qaService}
}

func (h *QuestionHandler) Create(c *gin.Context) {
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	question, err := h.qaService.CreateQuestion(c.Request.Context(), req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

func (h *QuestionHandler) List(c *gin.Context) {
	questions, err := h.qaService.ListQuestions(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, app.ErrQuestionNotFound)
		return
	}
	if err := h.qaService.DeleteQuestion(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted_question_id": id.String()})
}
