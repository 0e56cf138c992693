package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/store"
)

// TestErrorHandlingConsistency verifies that all handlers handle errors
// consistently through the centralized error handling functions.
func TestErrorHandlingConsistency(t *testing.T) {
	tests := []struct {
		name             string
		err              error
		defaultMsg       string
		expectedStatus   int
		expectedMessage  string
		expectDefaultMsg bool
	}{
		// Not found errors
		{
			name:            "service task not found",
			err:             service.ErrTaskNotFound,
			defaultMsg:      "Custom default message",
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Task not found",
		},
		{
			name:            "store task not found",
			err:             store.ErrTaskNotFound,
			defaultMsg:      "Custom default message",
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Task not found",
		},
		{
			name:            "wrapped task not found",
			err:             fmt.Errorf("lookup failed: %w", store.ErrTaskNotFound),
			defaultMsg:      "Custom default message",
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Task not found",
		},
		// Validation errors
		{
			name:            "empty title",
			err:             domain.ErrTaskTitleEmpty,
			defaultMsg:      "Custom default message",
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedMessage: "Title cannot be empty",
		},
		{
			name:            "title too long",
			err:             domain.ErrTaskTitleTooLong,
			defaultMsg:      "Custom default message",
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedMessage: "Title cannot exceed 200 characters",
		},
		{
			name:            "invalid ID",
			err:             domain.ErrInvalidID,
			defaultMsg:      "Custom default message",
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedMessage: "Invalid ID",
		},
		{
			name:            "validation error",
			err:             domain.ErrValidation,
			defaultMsg:      "Custom default message",
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedMessage: "Validation failed",
		},
		{
			name: "field validation error",
			err: domain.NewValidationError(
				"skip",
				"must not be negative",
				domain.ErrValidation,
			),
			defaultMsg:      "Custom default message",
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedMessage: "Invalid skip: must not be negative",
		},
		// Server errors
		{
			name:             "unexpected error",
			err:              errors.New("database connection error"),
			defaultMsg:       "Friendly server error message",
			expectedStatus:   http.StatusInternalServerError,
			expectedMessage:  "Friendly server error message",
			expectDefaultMsg: true,
		},
		{
			name:            "unexpected error without default message",
			err:             errors.New("database connection error"),
			defaultMsg:      "",
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "An unexpected error occurred",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)

			HandleAPIError(rr, req, tc.err, tc.defaultMsg)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Wrong status code for HandleAPIError")

			var response map[string]interface{}
			err := json.NewDecoder(rr.Body).Decode(&response)
			require.NoError(t, err, "Failed to decode response")

			errorMsg, ok := response["error"].(string)
			require.True(t, ok, "Error field missing in response")

			if tc.expectDefaultMsg {
				assert.Equal(t, tc.defaultMsg, errorMsg, "Wrong error message for HandleAPIError")
			} else {
				assert.Equal(t, tc.expectedMessage, errorMsg, "Wrong error message for HandleAPIError")
			}
		})
	}
}

// TestHandleAPIErrorEchoesTraceID verifies error responses carry the request's
// trace ID so clients can correlate failures with server logs.
func TestHandleAPIErrorEchoesTraceID(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks/99", nil)
	ctx := shared.SetTraceID(req.Context())
	req = req.WithContext(ctx)

	HandleAPIError(rr, req, service.ErrTaskNotFound, "")

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	assert.Equal(t, shared.GetTraceID(ctx), response["trace_id"])
}

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"service not found", service.ErrTaskNotFound, http.StatusNotFound},
		{"store not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"empty title", domain.ErrTaskTitleEmpty, http.StatusUnprocessableEntity},
		{"long title", domain.ErrTaskTitleTooLong, http.StatusUnprocessableEntity},
		{"invalid id", domain.ErrInvalidID, http.StatusUnprocessableEntity},
		{"generic validation", domain.ErrValidation, http.StatusUnprocessableEntity},
		{
			"field validation",
			domain.NewValidationError("title", "cannot be empty", nil),
			http.StatusUnprocessableEntity,
		},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"nil", nil, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	})

	t.Run("field detail wins over the generic validation message", func(t *testing.T) {
		err := domain.NewValidationError("limit", "must be positive", domain.ErrValidation)
		assert.Equal(t, "Invalid limit: must be positive", GetSafeErrorMessage(err))
	})

	t.Run("unknown errors never leak their text", func(t *testing.T) {
		err := errors.New("pq: password authentication failed for user \"admin\"")
		msg := GetSafeErrorMessage(err)
		assert.Equal(t, "An unexpected error occurred", msg)
		assert.NotContains(t, msg, "password")
	})
}

func TestSanitizeValidationError(t *testing.T) {
	t.Run("extracts field and tag from validator output", func(t *testing.T) {
		err := shared.ValidateRequest(CreateTaskRequest{})
		require.Error(t, err)

		assert.Equal(t, "Invalid Title: required field", SanitizeValidationError(err))
	})

	t.Run("maps the max tag to a friendly message", func(t *testing.T) {
		longTitle := make([]byte, 201)
		for i := range longTitle {
			longTitle[i] = 'x'
		}
		err := shared.ValidateRequest(CreateTaskRequest{Title: string(longTitle)})
		require.Error(t, err)

		assert.Equal(t, "Invalid Title: too long", SanitizeValidationError(err))
	})

	t.Run("falls back to a generic message", func(t *testing.T) {
		assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("boom")))
	})
}
