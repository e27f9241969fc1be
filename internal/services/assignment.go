package services

import (
	"codeclash/internal/common"
	"codeclash/internal/logger"
	"codeclash/internal/metrics"
	"codeclash/internal/models"
	"codeclash/internal/repositories"
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

type AssignmentService struct {
	teamRepo     repositories.TeamRepository
	questionRepo repositories.QuestionRepository
	locker       TeamLocker
	tiers        map[models.Slot]string
	intn         func(n int) int
	now          func() time.Time
}

func NewAssignmentService(
	teamRepo repositories.TeamRepository,
	questionRepo repositories.QuestionRepository,
	locker TeamLocker,
	slotATier, slotBTier string,
) *AssignmentService {
	return &AssignmentService{
		teamRepo:     teamRepo,
		questionRepo: questionRepo,
		locker:       locker,
		tiers:        map[models.Slot]string{models.SlotA: slotATier, models.SlotB: slotBTier},
		intn:         rand.Intn,
		now:          time.Now,
	}
}

// AssignQuestions fills the team's empty slots with the least-occupied
// questions of each slot's tier. Filled slots are never touched, so repeated
// calls return the same assignment.
func (s *AssignmentService) AssignQuestions(ctx context.Context, teamID int) (*models.RoundAssignment, error) {
	unlock, err := s.locker.Lock(ctx, teamID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	team, err := s.teamRepo.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	for _, slot := range models.Slots {
		if team.QuestionID(slot) != nil {
			continue
		}

		question, err := s.pickQuestion(ctx, s.tiers[slot], team.QuestionID(slot.Other()))
		if err != nil {
			return nil, fmt.Errorf("slot %s: %w", slot, err)
		}

		assigned, err := s.teamRepo.AssignSlot(ctx, teamID, slot, question.ID)
		if err != nil {
			return nil, err
		}

		if !assigned {
			// Another writer filled the slot first; keep its choice.
			logger.Log.Warn("Slot filled concurrently, keeping stored question",
				zap.Int("team_id", teamID),
				zap.String("slot", string(slot)))

			team, err = s.teamRepo.GetTeamByID(ctx, teamID)
			if err != nil {
				return nil, err
			}
			continue
		}

		team.SetQuestionID(slot, question.ID)
		metrics.AssignmentTotal.WithLabelValues(string(slot)).Inc()

		logger.Log.Info("Question assigned",
			zap.Int("team_id", teamID),
			zap.String("slot", string(slot)),
			zap.Int("question_id", question.ID))
	}

	return s.buildAssignment(ctx, team)
}

// GetAssignedQuestions is the read-only view of a team's round state.
func (s *AssignmentService) GetAssignedQuestions(ctx context.Context, teamID int) (*models.AssignedQuestions, error) {
	team, err := s.teamRepo.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	assignment, err := s.buildAssignment(ctx, team)
	if err != nil {
		return nil, err
	}

	return &models.AssignedQuestions{
		RoundAssignment:  *assignment,
		RoundStartTime:   team.RoundStartTime,
		CompletionTime:   team.CompletionTime,
		TimeTakenSeconds: models.ElapsedSeconds(team.RoundStartTime, team.CompletionTime, s.now()),
	}, nil
}

func (s *AssignmentService) pickQuestion(ctx context.Context, tier string, excluded *int) (*models.Question, error) {
	pool, err := s.questionRepo.GetQuestionsByDifficulty(ctx, tier)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("no %s questions available: %w", tier, common.ErrNoEligiblePool)
	}

	occupancy, err := s.teamRepo.GetQuestionOccupancy(ctx)
	if err != nil {
		return nil, err
	}

	question := pickLeastOccupied(pool, occupancy, excluded, s.intn)
	if question == nil {
		return nil, fmt.Errorf("every %s question is already held by this team: %w", tier, common.ErrNoEligiblePool)
	}

	return question, nil
}

// pickLeastOccupied chooses uniformly among the eligible questions with the
// lowest occupancy. It returns nil when nothing is eligible.
func pickLeastOccupied(pool []models.Question, occupancy map[int]int, excluded *int, intn func(int) int) *models.Question {
	var candidates []models.Question
	minCount := -1

	for _, q := range pool {
		if excluded != nil && q.ID == *excluded {
			continue
		}

		count := occupancy[q.ID]
		switch {
		case minCount == -1 || count < minCount:
			minCount = count
			candidates = []models.Question{q}
		case count == minCount:
			candidates = append(candidates, q)
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	chosen := candidates[intn(len(candidates))]
	return &chosen
}

func (s *AssignmentService) buildAssignment(ctx context.Context, team *models.Team) (*models.RoundAssignment, error) {
	assignment := &models.RoundAssignment{
		SlotAScore:    team.SlotAScore,
		SlotBScore:    team.SlotBScore,
		SlotAAttempts: team.SlotAAttempts,
		SlotBAttempts: team.SlotBAttempts,
	}

	for _, slot := range models.Slots {
		questionID := team.QuestionID(slot)
		if questionID == nil {
			continue
		}

		question, err := s.questionRepo.GetQuestionByID(ctx, *questionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load slot %s question: %w", slot, err)
		}
		assignment.SetQuestion(slot, question)
	}

	return assignment, nil
}
