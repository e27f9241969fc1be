package repositories

import (
	"codeclash/internal/cache"
	"codeclash/internal/common"
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionRepository_GetTestCasesUsesCache(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuestionRepository(db, cache.NewMemoryCache(), time.Hour)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "question_id", "input", "expected_output"}).
		AddRow(10, 1, "10 2 5", "6").
		AddRow(11, 1, "7 2 3", "3")
	mock.ExpectQuery("SELECT id, question_id, input, expected_output\\s+FROM test_cases WHERE question_id = \\? ORDER BY id ASC").
		WithArgs(1).
		WillReturnRows(rows)

	first, err := repo.GetTestCases(ctx, 1)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 10, first[0].ID)
	assert.Equal(t, "3", first[1].ExpectedOutput)

	// served from cache, no second query expected
	second, err := repo.GetTestCases(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_GetQuestionByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuestionRepository(db, nil, 0)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "title", "difficulty", "description", "constraints"}).
			AddRow(2, "Palindrome Checker", "easy", "Print YES if ...", "1 <= |s| <= 1000")
		mock.ExpectQuery("SELECT id, title, difficulty, description, constraints FROM questions WHERE id = \\?").
			WithArgs(2).
			WillReturnRows(rows)

		q, err := repo.GetQuestionByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "Palindrome Checker", q.Title)
		assert.Equal(t, "easy", q.Difficulty)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, title, difficulty, description, constraints FROM questions WHERE id = \\?").
			WithArgs(3).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetQuestionByID(ctx, 3)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_GetQuestionsByDifficulty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuestionRepository(db, nil, 0)

	rows := sqlmock.NewRows([]string{"id", "title", "difficulty", "description", "constraints"}).
		AddRow(1, "Mozzarella and Sticks", "easy", "", "").
		AddRow(2, "Palindrome Checker", "easy", "", "")
	mock.ExpectQuery("FROM questions WHERE difficulty = \\? ORDER BY id").
		WithArgs("easy").
		WillReturnRows(rows)

	questions, err := repo.GetQuestionsByDifficulty(context.Background(), "easy")
	require.NoError(t, err)
	assert.Len(t, questions, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}
