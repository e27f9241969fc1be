package repositories

import (
	"codeclash/internal/cache"
	"codeclash/internal/common"
	"codeclash/internal/logger"
	"codeclash/internal/models"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type QuestionRepository interface {
	GetQuestionByID(ctx context.Context, questionID int) (*models.Question, error)
	GetQuestionsByDifficulty(ctx context.Context, difficulty string) ([]models.Question, error)
	// GetTestCases returns the cases in their defined order (ascending id).
	GetTestCases(ctx context.Context, questionID int) ([]models.TestCase, error)
}

type questionRepository struct {
	db    *sqlx.DB
	cache cache.Cache
	ttl   time.Duration
}

// NewQuestionRepository caches questions and test cases, which are immutable
// once seeded. A nil cache disables caching.
func NewQuestionRepository(db *sqlx.DB, c cache.Cache, ttl time.Duration) QuestionRepository {
	return &questionRepository{db: db, cache: c, ttl: ttl}
}

func (r *questionRepository) GetQuestionByID(ctx context.Context, questionID int) (*models.Question, error) {
	cacheKey := fmt.Sprintf("question:%d", questionID)
	var question models.Question
	if r.fromCache(ctx, cacheKey, &question) {
		return &question, nil
	}

	query := `SELECT id, title, difficulty, description, constraints FROM questions WHERE id = ?`

	if err := r.db.GetContext(ctx, &question, query, questionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("question %d: %w", questionID, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	r.toCache(ctx, cacheKey, question)

	return &question, nil
}

func (r *questionRepository) GetQuestionsByDifficulty(ctx context.Context, difficulty string) ([]models.Question, error) {
	query := `SELECT id, title, difficulty, description, constraints
	          FROM questions WHERE difficulty = ? ORDER BY id`

	var questions []models.Question
	if err := r.db.SelectContext(ctx, &questions, query, difficulty); err != nil {
		return nil, fmt.Errorf("failed to get %s questions: %w", difficulty, err)
	}

	return questions, nil
}

func (r *questionRepository) GetTestCases(ctx context.Context, questionID int) ([]models.TestCase, error) {
	cacheKey := fmt.Sprintf("question:%d:testcases", questionID)
	var testCases []models.TestCase
	if r.fromCache(ctx, cacheKey, &testCases) && len(testCases) > 0 {
		return testCases, nil
	}

	query := `SELECT id, question_id, input, expected_output
	          FROM test_cases WHERE question_id = ? ORDER BY id ASC`

	if err := r.db.SelectContext(ctx, &testCases, query, questionID); err != nil {
		return nil, fmt.Errorf("failed to get test cases: %w", err)
	}

	if len(testCases) > 0 {
		r.toCache(ctx, cacheKey, testCases)
	}

	return testCases, nil
}

func (r *questionRepository) fromCache(ctx context.Context, key string, dest interface{}) bool {
	if r.cache == nil {
		return false
	}
	err := r.cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrMiss) {
		logger.Log.Warn("Cache read failed, falling back to DB", zap.String("key", key), zap.Error(err))
	}
	return false
}

func (r *questionRepository) toCache(ctx context.Context, key string, value interface{}) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, key, value, r.ttl); err != nil {
		logger.Log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
