package services

import (
	"codeclash/internal/models"
	"codeclash/internal/repositories"
	"context"
	"fmt"
	"sort"
	"time"
)

type LeaderboardService struct {
	teamRepo   repositories.TeamRepository
	rewardLink string
	now        func() time.Time
}

func NewLeaderboardService(teamRepo repositories.TeamRepository, rewardLink string) *LeaderboardService {
	return &LeaderboardService{teamRepo: teamRepo, rewardLink: rewardLink, now: time.Now}
}

// ComputeStandings ranks every team from its current record. Nothing is
// cached or persisted.
func (s *LeaderboardService) ComputeStandings(ctx context.Context) ([]models.TeamStanding, error) {
	teams, err := s.teamRepo.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load standings: %w", err)
	}

	now := s.now()
	standings := make([]models.TeamStanding, len(teams))
	for i, t := range teams {
		standings[i] = models.TeamStanding{
			TeamID:           t.ID,
			TeamName:         t.TeamName,
			SlotAScore:       t.SlotAScore,
			SlotBScore:       t.SlotBScore,
			TotalScore:       t.SlotAScore + t.SlotBScore,
			SlotAAttempts:    t.SlotAAttempts,
			SlotBAttempts:    t.SlotBAttempts,
			CompletionTime:   t.CompletionTime,
			TimeTakenSeconds: models.ElapsedSeconds(t.RoundStartTime, t.CompletionTime, now),
		}
		if t.CompletionTime != nil {
			standings[i].RewardLink = s.rewardLink
		}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return ranksBefore(standings[i], standings[j])
	})

	for i := range standings {
		standings[i].Rank = i + 1
	}

	return standings, nil
}

// ranksBefore orders by total score descending, then elapsed time ascending
// with unknown elapsed time last.
func ranksBefore(a, b models.TeamStanding) bool {
	if a.TotalScore != b.TotalScore {
		return a.TotalScore > b.TotalScore
	}
	switch {
	case a.TimeTakenSeconds == nil:
		return false
	case b.TimeTakenSeconds == nil:
		return true
	default:
		return *a.TimeTakenSeconds < *b.TimeTakenSeconds
	}
}
