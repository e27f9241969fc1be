package handlers

import (
	"codeclash/internal/models"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type StandingsRanker interface {
	ComputeStandings(ctx context.Context) ([]models.TeamStanding, error)
}

type LeaderboardHandler struct {
	ranker StandingsRanker
}

func NewLeaderboardHandler(ranker StandingsRanker) *LeaderboardHandler {
	return &LeaderboardHandler{ranker: ranker}
}

func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	standings, err := h.ranker.ComputeStandings(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve leaderboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": standings})
}

func (h *LeaderboardHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/leaderboard", h.GetLeaderboard)
}
