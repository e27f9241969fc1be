package repositories

import (
	"codeclash/internal/common"
	"codeclash/internal/models"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type TeamRepository interface {
	CreateTeam(ctx context.Context, teamName, passwordHash string) (int, error)
	GetTeamByID(ctx context.Context, teamID int) (*models.Team, error)
	GetTeamByName(ctx context.Context, teamName string) (*models.Team, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	GetQuestionOccupancy(ctx context.Context) (map[int]int, error)
	// AssignSlot writes questionID only while the slot is still empty and
	// reports whether it did.
	AssignSlot(ctx context.Context, teamID int, slot models.Slot, questionID int) (bool, error)
	// StartTimer sets the round start only while it is unset.
	StartTimer(ctx context.Context, teamID int, at time.Time) (bool, error)
	// RecordAttempt overwrites the slot score and bumps its attempt counter,
	// guarded by the counter value the caller last read.
	RecordAttempt(ctx context.Context, teamID int, slot models.Slot, score, expectedAttempts int) error
	// MarkCompleted latches completion_time; it never overwrites a set value.
	MarkCompleted(ctx context.Context, teamID int, at time.Time) (bool, error)
}

type teamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) TeamRepository {
	return &teamRepository{db: db}
}

const teamColumns = `id, team_name, password_hash, slot_a_question_id, slot_b_question_id,
	slot_a_score, slot_b_score, slot_a_attempts, slot_b_attempts,
	round_start_time, completion_time, created_at`

type slotColumns struct {
	question string
	score    string
	attempts string
}

func columnsFor(slot models.Slot) slotColumns {
	if slot == models.SlotA {
		return slotColumns{"slot_a_question_id", "slot_a_score", "slot_a_attempts"}
	}
	return slotColumns{"slot_b_question_id", "slot_b_score", "slot_b_attempts"}
}

func (r *teamRepository) CreateTeam(ctx context.Context, teamName, passwordHash string) (int, error) {
	query := `INSERT INTO teams (team_name, password_hash) VALUES (?, ?)`

	result, err := r.db.ExecContext(ctx, query, teamName, passwordHash)
	if err != nil {
		if common.IsDuplicateEntry(err) {
			return 0, fmt.Errorf("team name %q already exists: %w", teamName, common.ErrConflict)
		}
		return 0, fmt.Errorf("failed to create team: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	return int(id), nil
}

func (r *teamRepository) GetTeamByID(ctx context.Context, teamID int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = ?`

	var team models.Team
	if err := r.db.GetContext(ctx, &team, query, teamID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("team %d: %w", teamID, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

func (r *teamRepository) GetTeamByName(ctx context.Context, teamName string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE team_name = ?`

	var team models.Team
	if err := r.db.GetContext(ctx, &team, query, teamName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("team %q: %w", teamName, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get team by name: %w", err)
	}

	return &team, nil
}

func (r *teamRepository) ListTeams(ctx context.Context) ([]models.Team, error) {
	query := `SELECT id, team_name, slot_a_question_id, slot_b_question_id,
	                 slot_a_score, slot_b_score, slot_a_attempts, slot_b_attempts,
	                 round_start_time, completion_time, created_at
	          FROM teams ORDER BY id`

	var teams []models.Team
	if err := r.db.SelectContext(ctx, &teams, query); err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	return teams, nil
}

func (r *teamRepository) GetQuestionOccupancy(ctx context.Context) (map[int]int, error) {
	query := `
        SELECT question_id, COUNT(*) AS occupancy
        FROM (
            SELECT slot_a_question_id AS question_id FROM teams WHERE slot_a_question_id IS NOT NULL
            UNION ALL
            SELECT slot_b_question_id AS question_id FROM teams WHERE slot_b_question_id IS NOT NULL
        ) assigned
        GROUP BY question_id`

	var rows []struct {
		QuestionID int `db:"question_id"`
		Occupancy  int `db:"occupancy"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count question occupancy: %w", err)
	}

	occupancy := make(map[int]int, len(rows))
	for _, row := range rows {
		occupancy[row.QuestionID] = row.Occupancy
	}

	return occupancy, nil
}

func (r *teamRepository) AssignSlot(ctx context.Context, teamID int, slot models.Slot, questionID int) (bool, error) {
	cols := columnsFor(slot)
	query := fmt.Sprintf(`UPDATE teams SET %s = ? WHERE id = ? AND %s IS NULL`, cols.question, cols.question)

	result, err := r.db.ExecContext(ctx, query, questionID, teamID)
	if err != nil {
		return false, fmt.Errorf("failed to assign slot %s: %w", slot, err)
	}

	return affectedOne(result)
}

func (r *teamRepository) StartTimer(ctx context.Context, teamID int, at time.Time) (bool, error) {
	query := `UPDATE teams SET round_start_time = ? WHERE id = ? AND round_start_time IS NULL`

	result, err := r.db.ExecContext(ctx, query, at, teamID)
	if err != nil {
		return false, fmt.Errorf("failed to start timer: %w", err)
	}

	return affectedOne(result)
}

func (r *teamRepository) RecordAttempt(ctx context.Context, teamID int, slot models.Slot, score, expectedAttempts int) error {
	cols := columnsFor(slot)
	query := fmt.Sprintf(`UPDATE teams SET %s = ?, %s = %s + 1 WHERE id = ? AND %s = ?`,
		cols.score, cols.attempts, cols.attempts, cols.attempts)

	result, err := r.db.ExecContext(ctx, query, score, teamID, expectedAttempts)
	if err != nil {
		return fmt.Errorf("failed to update team score: %w", err)
	}

	updated, err := affectedOne(result)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("slot %s attempt counter changed concurrently: %w", slot, common.ErrConflict)
	}

	return nil
}

func (r *teamRepository) MarkCompleted(ctx context.Context, teamID int, at time.Time) (bool, error) {
	query := `UPDATE teams SET completion_time = ? WHERE id = ? AND completion_time IS NULL`

	result, err := r.db.ExecContext(ctx, query, at, teamID)
	if err != nil {
		return false, fmt.Errorf("failed to set completion time: %w", err)
	}

	return affectedOne(result)
}

func affectedOne(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n == 1, nil
}
