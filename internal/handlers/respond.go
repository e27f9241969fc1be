package handlers

import (
	"codeclash/internal/common"
	"codeclash/internal/logger"
	"codeclash/internal/middlewares"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError writes the status mapped from err. Client errors echo their
// message; backend errors are logged and replaced by fallback.
func respondError(c *gin.Context, err error, fallback string) {
	status := common.HTTPStatusFromError(err)
	if common.IsClientError(err) {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	logger.Log.Error(fallback,
		zap.String("request_id", middlewares.RequestIDFromContext(c)),
		zap.String("path", c.FullPath()),
		zap.Error(err))

	switch {
	case errors.Is(err, common.ErrJudgeTimeout):
		fallback = "Code execution timed out, please try again"
	case errors.Is(err, common.ErrJudgeUnavailable):
		fallback = "Code execution service unavailable, please try again"
	}
	c.JSON(status, gin.H{"error": fallback})
}

// authorizeTeam rejects a request whose token belongs to another team.
// Anonymous requests pass.
func authorizeTeam(c *gin.Context, teamID int) bool {
	tokenTeamID, ok := middlewares.TeamFromContext(c)
	if ok && tokenTeamID != teamID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Token does not belong to this team"})
		return false
	}
	return true
}

func parseTeamID(raw string) (int, bool) {
	teamID, err := strconv.Atoi(raw)
	if err != nil || teamID <= 0 {
		return 0, false
	}
	return teamID, true
}
