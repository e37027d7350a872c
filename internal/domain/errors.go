package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFoodNotFound is returned when no step of the resolution cascade matched
	ErrFoodNotFound = errors.New("food not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrNutritionAPIFailure is returned when the external nutrition API request fails
	ErrNutritionAPIFailure = errors.New("nutrition API request failed")

	// ErrLLMUnavailable is returned when the LLM collaborator is not configured or failed
	ErrLLMUnavailable = errors.New("llm collaborator unavailable")
)

// NotFoundError carries nearest-name suggestions for a name that did not resolve
type NotFoundError struct {
	Name        string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("%s: %q", ErrFoodNotFound, e.Name)
	}
	return fmt.Sprintf("%s: %q (did you mean %s?)", ErrFoodNotFound, e.Name, strings.Join(e.Suggestions, ", "))
}

// Is makes errors.Is(err, ErrFoodNotFound) match
func (e *NotFoundError) Is(target error) bool {
	return target == ErrFoodNotFound
}
