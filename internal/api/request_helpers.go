package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-api/internal/domain"
)

// Defaults for list pagination when the query string omits them.
const (
	defaultListSkip  = 0
	defaultListLimit = 100
)

// getPathID extracts a numeric task ID from the URL path parameters.
// It parses and validates the ID, handling common error cases.
//
// Parameters:
//   - r: The HTTP request
//   - paramName: The name of the path parameter to extract
//
// Returns:
//   - (id, nil): The parsed ID if valid
//   - (0, error): Zero and an appropriate error if the parameter is missing or invalid
func getPathID(r *http.Request, paramName string) (int64, error) {
	// Extract parameter from URL path using chi router
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	// Parse parameter as a base-10 integer
	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil {
		return 0, domain.NewValidationError(paramName, "must be an integer", domain.ErrInvalidID)
	}

	return id, nil
}

// getPaginationParams extracts the skip/limit query parameters for list
// endpoints, applying defaults when a parameter is absent.
//
// Returns:
//   - (skip, limit, nil): The pagination window if valid
//   - (0, 0, error): Zeros and an appropriate error if a parameter is
//     malformed or outside its allowed range (skip must be non-negative,
//     limit must be positive)
func getPaginationParams(r *http.Request) (int, int, error) {
	skip := defaultListSkip
	limit := defaultListLimit

	query := r.URL.Query()

	if raw := query.Get("skip"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, domain.NewValidationError("skip", "must be an integer", domain.ErrInvalidID)
		}
		skip = parsed
	}

	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, domain.NewValidationError("limit", "must be an integer", domain.ErrInvalidID)
		}
		limit = parsed
	}

	if skip < 0 {
		return 0, 0, domain.NewValidationError("skip", "must not be negative", domain.ErrValidation)
	}
	if limit < 1 {
		return 0, 0, domain.NewValidationError("limit", "must be positive", domain.ErrValidation)
	}

	return skip, limit, nil
}
