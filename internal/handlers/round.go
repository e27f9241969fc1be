package handlers

import (
	"codeclash/internal/middlewares"
	"codeclash/internal/models"
	"codeclash/internal/services"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type QuestionAssigner interface {
	AssignQuestions(ctx context.Context, teamID int) (*models.RoundAssignment, error)
	GetAssignedQuestions(ctx context.Context, teamID int) (*models.AssignedQuestions, error)
}

type RoundTimer interface {
	StartTimer(ctx context.Context, teamID int) (*models.TimerResult, error)
}

type RoundHandler struct {
	assigner     QuestionAssigner
	timer        RoundTimer
	tokenService *services.TokenService
}

func NewRoundHandler(assigner QuestionAssigner, timer RoundTimer, tokenService *services.TokenService) *RoundHandler {
	return &RoundHandler{
		assigner:     assigner,
		timer:        timer,
		tokenService: tokenService,
	}
}

// StartRound assigns the team's questions. Safe to call repeatedly.
func (h *RoundHandler) StartRound(c *gin.Context) {
	var req models.TeamRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TeamID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "team_id is required"})
		return
	}
	if !authorizeTeam(c, req.TeamID) {
		return
	}

	assignment, err := h.assigner.AssignQuestions(c.Request.Context(), req.TeamID)
	if err != nil {
		respondError(c, err, "Failed to start round")
		return
	}

	c.JSON(http.StatusOK, assignment)
}

func (h *RoundHandler) StartTimer(c *gin.Context) {
	var req models.TeamRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TeamID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "team_id is required"})
		return
	}
	if !authorizeTeam(c, req.TeamID) {
		return
	}

	result, err := h.timer.StartTimer(c.Request.Context(), req.TeamID)
	if err != nil {
		respondError(c, err, "Failed to start timer")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *RoundHandler) GetQuestions(c *gin.Context) {
	teamID, ok := parseTeamID(c.Param("team_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}
	if !authorizeTeam(c, teamID) {
		return
	}

	view, err := h.assigner.GetAssignedQuestions(c.Request.Context(), teamID)
	if err != nil {
		respondError(c, err, "Failed to retrieve questions")
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *RoundHandler) RegisterRoutes(router *gin.Engine) {
	optionalAuth := middlewares.OptionalAuthMiddleware(h.tokenService)

	roundGroup := router.Group("/api/round", optionalAuth)
	{
		roundGroup.POST("/start", h.StartRound)
		roundGroup.POST("/start-timer", h.StartTimer)
	}
	router.GET("/api/questions/:team_id", optionalAuth, h.GetQuestions)
}
