package services

import (
	"codeclash/internal/logger"
	"codeclash/internal/models"
	"codeclash/internal/repositories"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type TimerService struct {
	teamRepo repositories.TeamRepository
	now      func() time.Time
}

func NewTimerService(teamRepo repositories.TeamRepository) *TimerService {
	return &TimerService{teamRepo: teamRepo, now: time.Now}
}

// StartTimer records the round start once. Later calls return the stored value.
func (s *TimerService) StartTimer(ctx context.Context, teamID int) (*models.TimerResult, error) {
	team, err := s.teamRepo.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if team.RoundStartTime != nil {
		return &models.TimerResult{RoundStartTime: *team.RoundStartTime}, nil
	}

	startedAt := s.now().UTC().Truncate(time.Second)
	started, err := s.teamRepo.StartTimer(ctx, teamID, startedAt)
	if err != nil {
		return nil, err
	}

	if started {
		logger.Log.Info("Round timer started",
			zap.Int("team_id", teamID),
			zap.Time("round_start_time", startedAt))
		return &models.TimerResult{RoundStartTime: startedAt}, nil
	}

	// A concurrent call won the write.
	team, err = s.teamRepo.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.RoundStartTime == nil {
		return nil, fmt.Errorf("round start for team %d was not recorded", teamID)
	}

	return &models.TimerResult{RoundStartTime: *team.RoundStartTime}, nil
}
