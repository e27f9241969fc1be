package models

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusAccepted    = "Accepted"
	StatusPartial     = "Partial"
	StatusWrongAnswer = "Wrong Answer"
)

// StatusForScore labels an overall score.
func StatusForScore(score int) string {
	switch {
	case score == 100:
		return StatusAccepted
	case score > 0:
		return StatusPartial
	default:
		return StatusWrongAnswer
	}
}

type Submission struct {
	ID              int       `db:"id" json:"id"`
	TeamID          int       `db:"team_id" json:"team_id"`
	QuestionID      int       `db:"question_id" json:"question_id"`
	Slot            Slot      `db:"slot" json:"slot"`
	LanguageID      int       `db:"language_id" json:"language_id"`
	SourceCode      string    `db:"source_code" json:"source_code"`
	Status          string    `db:"status" json:"status"`
	PassedTestcases int       `db:"passed_testcases" json:"passed_testcases"`
	TotalTestcases  int       `db:"total_testcases" json:"total_testcases"`
	Score           int       `db:"score" json:"score"`
	SubmittedAt     time.Time `db:"submitted_at" json:"submitted_at"`
}

type SubmissionRequest struct {
	TeamID     int    `json:"team_id" binding:"required"`
	QuestionID int    `json:"question_id" binding:"required"`
	LanguageID int    `json:"language_id" binding:"required"`
	SourceCode string `json:"source_code" binding:"required"`
}

func (r *SubmissionRequest) ValidateRequest() error {
	if r.TeamID <= 0 {
		return errors.New("team ID must be a positive integer")
	}

	if r.QuestionID <= 0 {
		return errors.New("question ID must be a positive integer")
	}

	if r.LanguageID <= 0 {
		return errors.New("language ID must be a positive integer")
	}

	if strings.TrimSpace(r.SourceCode) == "" {
		return errors.New("source code cannot be empty")
	}

	return nil
}

type SubmissionListItem struct {
	ID              int       `db:"id" json:"id"`
	QuestionID      int       `db:"question_id" json:"question_id"`
	Slot            Slot      `db:"slot" json:"slot"`
	LanguageID      int       `db:"language_id" json:"language_id"`
	Status          string    `db:"status" json:"status"`
	PassedTestcases int       `db:"passed_testcases" json:"passed_testcases"`
	TotalTestcases  int       `db:"total_testcases" json:"total_testcases"`
	Score           int       `db:"score" json:"score"`
	SubmittedAt     time.Time `db:"submitted_at" json:"submitted_at"`
}

// TestCaseDetail is the per-case view returned to the team. Output fields are
// nil for the hidden case.
type TestCaseDetail struct {
	TestCaseID     int     `json:"test_case_id"`
	Passed         bool    `json:"passed"`
	Hidden         bool    `json:"hidden"`
	StatusID       int     `json:"status_id"`
	Stdout         *string `json:"stdout"`
	ExpectedOutput *string `json:"expected_output"`
	Stderr         *string `json:"stderr"`
	CompileOutput  *string `json:"compile_output"`
	Time           *string `json:"time"`
	Memory         *int    `json:"memory"`
}

type SubmissionResult struct {
	Status               string           `json:"status"`
	Score                int              `json:"score"`
	PassedTestcases      int              `json:"passed_testcases"`
	TotalTestcases       int              `json:"total_testcases"`
	SubmissionNumber     int              `json:"submission_number"`
	SubmissionsRemaining int              `json:"submissions_remaining"`
	AllSolved            bool             `json:"all_solved"`
	TimeTakenSeconds     *int64           `json:"time_taken_seconds,omitempty"`
	Message              string           `json:"message,omitempty"`
	Details              []TestCaseDetail `json:"details"`
}
