package repositories

import (
	"codeclash/internal/models"
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, submission *models.Submission) error
	GetSubmissionsByTeam(ctx context.Context, teamID int) ([]models.SubmissionListItem, error)
}

type submissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepository(db *sqlx.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) CreateSubmission(ctx context.Context, submission *models.Submission) error {
	query := `INSERT INTO submissions (team_id, question_id, slot, language_id, source_code, status,
	                                   passed_testcases, total_testcases, score)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		submission.TeamID,
		submission.QuestionID,
		submission.Slot,
		submission.LanguageID,
		submission.SourceCode,
		submission.Status,
		submission.PassedTestcases,
		submission.TotalTestcases,
		submission.Score,
	)
	if err != nil {
		return fmt.Errorf("failed to store submission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}

	submission.ID = int(id)
	return nil
}

func (r *submissionRepository) GetSubmissionsByTeam(ctx context.Context, teamID int) ([]models.SubmissionListItem, error) {
	query := `SELECT id, question_id, slot, language_id, status, passed_testcases, total_testcases, score, submitted_at
	          FROM submissions
	          WHERE team_id = ?
	          ORDER BY submitted_at DESC, id DESC`

	submissions := []models.SubmissionListItem{}
	if err := r.db.SelectContext(ctx, &submissions, query, teamID); err != nil {
		return nil, fmt.Errorf("failed to get team submissions: %w", err)
	}

	return submissions, nil
}
