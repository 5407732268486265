package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salary-api/internal/service"
)

// PredictionHandler maneja estimaciones de salario e historial.
type PredictionHandler struct {
	logger      *zap.Logger
	predictions *service.PredictionService
}

func NewPredictionHandler(logger *zap.Logger, predictions *service.PredictionService) *PredictionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PredictionHandler{logger: logger, predictions: predictions}
}

// PredictSalary maneja POST /api/predict/salary.
func (h *PredictionHandler) PredictSalary(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	var req struct {
		Title       string   `json:"title" binding:"required"`
		Description string   `json:"description" binding:"required"`
		JobTitle    string   `json:"job_title"`
		Region      string   `json:"region"`
		Experience  string   `json:"experience"`
		Skills      []string `json:"skills"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid prediction request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result := h.predictions.Predict(c.Request.Context(), service.PredictionInput{
		UserID:      claims.UserID,
		Title:       req.Title,
		Description: req.Description,
		JobTitle:    req.JobTitle,
		Region:      req.Region,
		Experience:  req.Experience,
		Skills:      req.Skills,
	})
	c.JSON(http.StatusOK, result)
}

// History maneja GET /api/predict/history.
func (h *PredictionHandler) History(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	records, err := h.predictions.History(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("list history failed", zap.Error(err), zap.String("user_id", claims.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, records)
}
