package handlers

import (
	"codeclash/internal/middlewares"
	"codeclash/internal/models"
	"codeclash/internal/services"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type SubmissionEvaluator interface {
	Submit(ctx context.Context, req *models.SubmissionRequest) (*models.SubmissionResult, error)
	ListSubmissions(ctx context.Context, teamID int) ([]models.SubmissionListItem, error)
}

type SubmissionHandler struct {
	evaluator    SubmissionEvaluator
	tokenService *services.TokenService
}

func NewSubmissionHandler(evaluator SubmissionEvaluator, tokenService *services.TokenService) *SubmissionHandler {
	return &SubmissionHandler{
		evaluator:    evaluator,
		tokenService: tokenService,
	}
}

// CreateSubmission judges the code synchronously and returns the scored result.
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	var req models.SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "team_id, question_id, language_id and source_code are required"})
		return
	}

	if err := req.ValidateRequest(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !authorizeTeam(c, req.TeamID) {
		return
	}

	result, err := h.evaluator.Submit(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to evaluate submission")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *SubmissionHandler) GetTeamSubmissions(c *gin.Context) {
	teamID, ok := parseTeamID(c.Query("team_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid team_id query parameter is required"})
		return
	}
	if !authorizeTeam(c, teamID) {
		return
	}

	submissions, err := h.evaluator.ListSubmissions(c.Request.Context(), teamID)
	if err != nil {
		respondError(c, err, "Failed to retrieve submission history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"count":       len(submissions),
	})
}

func (h *SubmissionHandler) RegisterRoutes(router *gin.Engine) {
	submissionGroup := router.Group("/api/submissions", middlewares.OptionalAuthMiddleware(h.tokenService))
	{
		submissionGroup.POST("", h.CreateSubmission)
		submissionGroup.GET("", h.GetTeamSubmissions)
	}
}
