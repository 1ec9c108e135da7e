package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mufashe/mufashe-api/internal/http/middleware"
	"github.com/mufashe/mufashe-api/internal/service"
)

// ConsultHandler serves legal consultations.
type ConsultHandler struct {
	Consult *service.ConsultService
	Logger  *zap.Logger
}

// NewConsultHandler creates the handler set.
func NewConsultHandler(consult *service.ConsultService, logger *zap.Logger) *ConsultHandler {
	return &ConsultHandler{Consult: consult, Logger: logger}
}

type consultRequest struct {
	Question string `json:"question"`
	Language string `json:"language"`
}

// Ask answers a question. Signed-in callers get it recorded in their history.
func (h *ConsultHandler) Ask(c *gin.Context) {
	var req consultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "Invalid payload"})
		return
	}

	input := service.ConsultInput{Question: req.Question, Language: req.Language}
	if userID, ok := middleware.GetUserID(c); ok {
		input.UserID = &userID
	}

	view, err := h.Consult.Consult(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":             true,
		"consultationId": strconv.FormatInt(view.ID, 10),
		"question":       view.Question,
		"language":       view.Language,
		"answer":         view.Answer,
		"createdAt":      view.CreatedAt,
	})
}

// History lists the caller's consultations.
func (h *ConsultHandler) History(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "No token"})
		return
	}

	items, err := h.Consult.History(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "consultations": items})
}
