package services

import (
	"codeclash/internal/common"
	"codeclash/internal/logger"
	"codeclash/internal/metrics"
	"codeclash/internal/models"
	"codeclash/internal/repositories"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const completionMessage = "All problems solved! Contest complete for your team."

type SubmissionService struct {
	teamRepo       repositories.TeamRepository
	questionRepo   repositories.QuestionRepository
	submissionRepo repositories.SubmissionRepository
	judge          Judge
	locker         TeamLocker
	maxSubmissions int
	now            func() time.Time
}

func NewSubmissionService(
	teamRepo repositories.TeamRepository,
	questionRepo repositories.QuestionRepository,
	submissionRepo repositories.SubmissionRepository,
	judge Judge,
	locker TeamLocker,
	maxSubmissions int,
) *SubmissionService {
	return &SubmissionService{
		teamRepo:       teamRepo,
		questionRepo:   questionRepo,
		submissionRepo: submissionRepo,
		judge:          judge,
		locker:         locker,
		maxSubmissions: maxSubmissions,
		now:            time.Now,
	}
}

// Submit judges one attempt against a slot's question and records the result.
// The team lock is held across the whole sequence, so attempts for one team
// never interleave.
func (s *SubmissionService) Submit(ctx context.Context, req *models.SubmissionRequest) (*models.SubmissionResult, error) {
	unlock, err := s.locker.Lock(ctx, req.TeamID)
	if err != nil {
		metrics.SubmissionRejectedTotal.WithLabelValues("busy").Inc()
		return nil, err
	}
	defer unlock()

	team, err := s.teamRepo.GetTeamByID(ctx, req.TeamID)
	if err != nil {
		return nil, err
	}

	slot, ok := team.SlotFor(req.QuestionID)
	if !ok {
		metrics.SubmissionRejectedTotal.WithLabelValues("not_assigned").Inc()
		return nil, fmt.Errorf("question %d is not assigned to team %d: %w",
			req.QuestionID, req.TeamID, common.ErrInvalidAssignment)
	}

	attempts := team.Attempts(slot)
	if attempts >= s.maxSubmissions {
		metrics.SubmissionRejectedTotal.WithLabelValues("limit").Inc()
		return nil, fmt.Errorf("maximum %d submissions reached for this problem: %w",
			s.maxSubmissions, common.ErrLimitReached)
	}

	testCases, err := s.questionRepo.GetTestCases(ctx, req.QuestionID)
	if err != nil {
		return nil, err
	}
	if len(testCases) == 0 {
		return nil, fmt.Errorf("question %d: %w", req.QuestionID, common.ErrNoTestCases)
	}

	results, err := s.judge.EvaluateBatch(ctx, req.SourceCode, req.LanguageID, testCases)
	if err != nil {
		logger.Log.Error("Judge evaluation failed",
			zap.Int("team_id", req.TeamID),
			zap.Int("question_id", req.QuestionID),
			zap.Error(err))
		return nil, err
	}
	if len(results) != len(testCases) {
		return nil, fmt.Errorf("judge returned %d results for %d test cases: %w",
			len(results), len(testCases), common.ErrJudgeUnavailable)
	}

	passed, details := scoreResults(testCases, results)
	total := len(testCases)
	score := passed * 100 / total
	status := models.StatusForScore(score)

	submission := &models.Submission{
		TeamID:          req.TeamID,
		QuestionID:      req.QuestionID,
		Slot:            slot,
		LanguageID:      req.LanguageID,
		SourceCode:      req.SourceCode,
		Status:          status,
		PassedTestcases: passed,
		TotalTestcases:  total,
		Score:           score,
		SubmittedAt:     s.now().UTC(),
	}
	if err := s.submissionRepo.CreateSubmission(ctx, submission); err != nil {
		return nil, err
	}

	if err := s.teamRepo.RecordAttempt(ctx, req.TeamID, slot, score, attempts); err != nil {
		return nil, err
	}
	submissionNumber := attempts + 1
	team.SetResult(slot, score, submissionNumber)
	metrics.SubmissionTotal.WithLabelValues(status).Inc()

	result := &models.SubmissionResult{
		Status:               status,
		Score:                score,
		PassedTestcases:      passed,
		TotalTestcases:       total,
		SubmissionNumber:     submissionNumber,
		SubmissionsRemaining: s.maxSubmissions - submissionNumber,
		AllSolved:            team.AllSolved(),
		Details:              details,
	}

	if result.AllSolved {
		latched, err := s.latchCompletion(ctx, team)
		if err != nil {
			return nil, err
		}
		// Elapsed time is only reported on the submission that completes the round.
		if latched {
			result.TimeTakenSeconds = models.ElapsedSeconds(team.RoundStartTime, team.CompletionTime, s.now())
		}
		result.Message = completionMessage
	}

	logger.Log.Info("Submission evaluated",
		zap.Int("team_id", req.TeamID),
		zap.Int("question_id", req.QuestionID),
		zap.String("slot", string(slot)),
		zap.Int("score", score),
		zap.Int("submission_number", submissionNumber))

	return result, nil
}

// ListSubmissions returns the team's attempts, newest first.
func (s *SubmissionService) ListSubmissions(ctx context.Context, teamID int) ([]models.SubmissionListItem, error) {
	if _, err := s.teamRepo.GetTeamByID(ctx, teamID); err != nil {
		return nil, err
	}
	return s.submissionRepo.GetSubmissionsByTeam(ctx, teamID)
}

// latchCompletion sets completion_time once. It reports whether this call
// wrote the latch.
func (s *SubmissionService) latchCompletion(ctx context.Context, team *models.Team) (bool, error) {
	if team.CompletionTime != nil {
		return false, nil
	}

	completedAt := s.now().UTC().Truncate(time.Second)
	latched, err := s.teamRepo.MarkCompleted(ctx, team.ID, completedAt)
	if err != nil {
		return false, err
	}
	if !latched {
		return false, nil
	}

	logger.Log.Info("Team completed all problems", zap.Int("team_id", team.ID))
	team.CompletionTime = &completedAt
	return true, nil
}

// scoreResults counts passes and builds the per-case view. The last case is
// hidden: its outputs are withheld regardless of the outcome.
func scoreResults(testCases []models.TestCase, results []JudgeResult) (int, []models.TestCaseDetail) {
	passed := 0
	details := make([]models.TestCaseDetail, len(testCases))
	hiddenIndex := len(testCases) - 1

	for i, tc := range testCases {
		r := results[i]
		ok := r.StatusID == JudgeStatusAccepted && outputMatches(r.Stdout, tc.ExpectedOutput)
		if ok {
			passed++
		}

		detail := models.TestCaseDetail{
			TestCaseID: tc.ID,
			Passed:     ok,
			Hidden:     i == hiddenIndex,
			StatusID:   r.StatusID,
			Time:       r.Time,
			Memory:     r.Memory,
		}
		if !detail.Hidden {
			expected := tc.ExpectedOutput
			detail.Stdout = r.Stdout
			detail.ExpectedOutput = &expected
			detail.Stderr = r.Stderr
			detail.CompileOutput = r.CompileOutput
		}
		details[i] = detail
	}

	return passed, details
}

func outputMatches(stdout *string, expected string) bool {
	actual := ""
	if stdout != nil {
		actual = *stdout
	}
	return strings.TrimSpace(actual) == strings.TrimSpace(expected)
}
