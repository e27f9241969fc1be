package services

import (
	"codeclash/internal/common"
	"codeclash/internal/models"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

type fakeTeamRepo struct {
	mu     sync.Mutex
	teams  map[int]*models.Team
	writes int
}

func newFakeTeamRepo(teams ...*models.Team) *fakeTeamRepo {
	r := &fakeTeamRepo{teams: make(map[int]*models.Team)}
	for _, t := range teams {
		r.teams[t.ID] = t
	}
	return r
}

func (r *fakeTeamRepo) CreateTeam(_ context.Context, teamName, passwordHash string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if t.TeamName == teamName {
			return 0, common.ErrConflict
		}
	}
	id := len(r.teams) + 1
	r.teams[id] = &models.Team{ID: id, TeamName: teamName, PasswordHash: passwordHash}
	r.writes++
	return id, nil
}

func (r *fakeTeamRepo) GetTeamByID(_ context.Context, teamID int) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[teamID]
	if !ok {
		return nil, fmt.Errorf("team %d: %w", teamID, common.ErrNotFound)
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTeamRepo) GetTeamByName(_ context.Context, teamName string) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if t.TeamName == teamName {
			copied := *t
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeTeamRepo) ListTeams(_ context.Context) ([]models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	teams := make([]models.Team, 0, len(r.teams))
	for _, t := range r.teams {
		teams = append(teams, *t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

func (r *fakeTeamRepo) GetQuestionOccupancy(_ context.Context) (map[int]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	occupancy := make(map[int]int)
	for _, t := range r.teams {
		for _, slot := range models.Slots {
			if id := t.QuestionID(slot); id != nil {
				occupancy[*id]++
			}
		}
	}
	return occupancy, nil
}

func (r *fakeTeamRepo) AssignSlot(_ context.Context, teamID int, slot models.Slot, questionID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[teamID]
	if !ok || t.QuestionID(slot) != nil {
		return false, nil
	}
	t.SetQuestionID(slot, questionID)
	r.writes++
	return true, nil
}

func (r *fakeTeamRepo) StartTimer(_ context.Context, teamID int, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[teamID]
	if !ok || t.RoundStartTime != nil {
		return false, nil
	}
	t.RoundStartTime = &at
	r.writes++
	return true, nil
}

func (r *fakeTeamRepo) RecordAttempt(_ context.Context, teamID int, slot models.Slot, score, expectedAttempts int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[teamID]
	if !ok || t.Attempts(slot) != expectedAttempts {
		return common.ErrConflict
	}
	t.SetResult(slot, score, expectedAttempts+1)
	r.writes++
	return nil
}

func (r *fakeTeamRepo) MarkCompleted(_ context.Context, teamID int, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[teamID]
	if !ok || t.CompletionTime != nil {
		return false, nil
	}
	t.CompletionTime = &at
	r.writes++
	return true, nil
}

func (r *fakeTeamRepo) team(id int) models.Team {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.teams[id]
}

type fakeQuestionRepo struct {
	questions map[int]models.Question
	testCases map[int][]models.TestCase
}

func newFakeQuestionRepo(questions ...models.Question) *fakeQuestionRepo {
	r := &fakeQuestionRepo{
		questions: make(map[int]models.Question),
		testCases: make(map[int][]models.TestCase),
	}
	for _, q := range questions {
		r.questions[q.ID] = q
	}
	return r
}

func (r *fakeQuestionRepo) GetQuestionByID(_ context.Context, questionID int) (*models.Question, error) {
	q, ok := r.questions[questionID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &q, nil
}

func (r *fakeQuestionRepo) GetQuestionsByDifficulty(_ context.Context, difficulty string) ([]models.Question, error) {
	var pool []models.Question
	for _, q := range r.questions {
		if q.Difficulty == difficulty {
			pool = append(pool, q)
		}
	}
	sort.Slice(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })
	return pool, nil
}

func (r *fakeQuestionRepo) GetTestCases(_ context.Context, questionID int) ([]models.TestCase, error) {
	return r.testCases[questionID], nil
}

type fakeSubmissionRepo struct {
	submissions []models.Submission
}

func (r *fakeSubmissionRepo) CreateSubmission(_ context.Context, submission *models.Submission) error {
	submission.ID = len(r.submissions) + 1
	r.submissions = append(r.submissions, *submission)
	return nil
}

func (r *fakeSubmissionRepo) GetSubmissionsByTeam(_ context.Context, teamID int) ([]models.SubmissionListItem, error) {
	items := []models.SubmissionListItem{}
	for i := len(r.submissions) - 1; i >= 0; i-- {
		s := r.submissions[i]
		if s.TeamID != teamID {
			continue
		}
		items = append(items, models.SubmissionListItem{
			ID:              s.ID,
			QuestionID:      s.QuestionID,
			Slot:            s.Slot,
			LanguageID:      s.LanguageID,
			Status:          s.Status,
			PassedTestcases: s.PassedTestcases,
			TotalTestcases:  s.TotalTestcases,
			Score:           s.Score,
			SubmittedAt:     s.SubmittedAt,
		})
	}
	return items, nil
}

// fakeJudge returns queued outcomes, one batch per call.
type fakeJudge struct {
	batches [][]JudgeResult
	err     error
	calls   int
}

func (j *fakeJudge) EvaluateBatch(_ context.Context, _ string, _ int, testCases []models.TestCase) ([]JudgeResult, error) {
	j.calls++
	if j.err != nil {
		return nil, j.err
	}
	if len(j.batches) == 0 {
		return nil, fmt.Errorf("unexpected judge call with %d test cases", len(testCases))
	}
	batch := j.batches[0]
	j.batches = j.batches[1:]
	return batch, nil
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
