package handlers

import (
	"codeclash/internal/logger"
	"codeclash/internal/middlewares"
	"codeclash/internal/models"
	"codeclash/internal/repositories"
	"codeclash/internal/services"
	"codeclash/internal/utils"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TeamHandler struct {
	teamRepo     repositories.TeamRepository
	tokenService *services.TokenService
	secureCookie bool
}

func NewTeamHandler(teamRepo repositories.TeamRepository, tokenService *services.TokenService, secureCookie bool) *TeamHandler {
	return &TeamHandler{
		teamRepo:     teamRepo,
		tokenService: tokenService,
		secureCookie: secureCookie,
	}
}

func (h *TeamHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "team_name and password are required"})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register team"})
		return
	}

	teamName := strings.TrimSpace(req.TeamName)
	teamID, err := h.teamRepo.CreateTeam(c.Request.Context(), teamName, hash)
	if err != nil {
		respondError(c, err, "Failed to register team")
		return
	}

	logger.Log.Info("Team registered", zap.Int("team_id", teamID), zap.String("team_name", teamName))
	c.JSON(http.StatusCreated, gin.H{"team_id": teamID})
}

func (h *TeamHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	team, err := h.teamRepo.GetTeamByName(c.Request.Context(), strings.TrimSpace(req.TeamName))
	if err != nil || !utils.CheckPasswordHash(req.Password, team.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.tokenService.GenerateToken(team.ID, team.TeamName)
	if err != nil {
		logger.Log.Error("Failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	c.SetCookie(middlewares.AccessTokenCookie, token, int(services.AccessTokenTTL.Seconds()), "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"team_id": team.ID, "team_name": team.TeamName})
}

func (h *TeamHandler) Logout(c *gin.Context) {
	c.SetCookie(middlewares.AccessTokenCookie, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Verify reports which team the access token belongs to. It runs behind
// AuthMiddleware.
func (h *TeamHandler) Verify(c *gin.Context) {
	teamID, _ := middlewares.TeamFromContext(c)
	c.JSON(http.StatusOK, gin.H{"is_authenticated": true, "team_id": teamID})
}

func (h *TeamHandler) RegisterRoutes(router *gin.Engine) {
	teamGroup := router.Group("/api/teams")
	{
		teamGroup.POST("/signup", h.Signup)
		teamGroup.POST("/login", h.Login)
		teamGroup.POST("/logout", h.Logout)
		teamGroup.GET("/verify", middlewares.AuthMiddleware(h.tokenService), h.Verify)
	}
}
