package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockResult implements sql.Result for testing
type mockResult struct {
	lastInsertId int64
	rowsAffected int64
	err          error
}

func (m mockResult) LastInsertId() (int64, error) {
	return m.lastInsertId, nil
}

func (m mockResult) RowsAffected() (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.rowsAffected, nil
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		expectedError error
	}{
		{
			name:          "nil_error",
			err:           nil,
			expectedError: nil,
		},
		{
			name:          "sql_no_rows",
			err:           sql.ErrNoRows,
			expectedError: store.ErrNotFound,
		},
		{
			name: "not_null_violation",
			err: &pgconn.PgError{
				Code:       notNullViolationCode,
				ColumnName: "title",
			},
			expectedError: store.ErrInvalidEntity,
		},
		{
			name: "string_truncation",
			err: &pgconn.PgError{
				Code: stringTruncationCode,
			},
			expectedError: store.ErrInvalidEntity,
		},
		{
			name:          "unmapped_pg_error",
			err:           &pgconn.PgError{Code: "57P01"},
			expectedError: nil, // passes through unchanged
		},
		{
			name:          "generic_error",
			err:           errors.New("connection refused"),
			expectedError: nil, // passes through unchanged
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapError(tt.err)

			if tt.err == nil {
				assert.NoError(t, mapped)
				return
			}

			require.Error(t, mapped)
			if tt.expectedError != nil {
				assert.ErrorIs(t, mapped, tt.expectedError)
			} else {
				assert.Equal(t, tt.err, mapped, "unmapped errors should pass through unchanged")
			}
		})
	}
}

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil_error",
			err:      nil,
			expected: false,
		},
		{
			name:     "sql_no_rows",
			err:      sql.ErrNoRows,
			expected: true,
		},
		{
			name:     "store_not_found",
			err:      store.ErrNotFound,
			expected: true,
		},
		{
			name:     "task_not_found",
			err:      store.ErrTaskNotFound,
			expected: true,
		},
		{
			name:     "wrapped_not_found",
			err:      fmt.Errorf("lookup failed: %w", store.ErrTaskNotFound),
			expected: true,
		},
		{
			name:     "other_error",
			err:      errors.New("boom"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestCheckRowsAffected(t *testing.T) {
	t.Run("nil_result", func(t *testing.T) {
		err := CheckRowsAffected(nil, "task")
		require.Error(t, err)
	})

	t.Run("rows_affected_error", func(t *testing.T) {
		err := CheckRowsAffected(
			mockResult{err: errors.New("driver does not support RowsAffected")},
			"task",
		)
		require.Error(t, err)
		assert.NotErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("zero_rows_with_entity", func(t *testing.T) {
		err := CheckRowsAffected(mockResult{rowsAffected: 0}, "task")
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.Contains(t, err.Error(), "task not found")
	})

	t.Run("zero_rows_without_entity", func(t *testing.T) {
		err := CheckRowsAffected(mockResult{rowsAffected: 0}, "")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("rows_affected", func(t *testing.T) {
		err := CheckRowsAffected(mockResult{rowsAffected: 1}, "task")
		assert.NoError(t, err)
	})
}
