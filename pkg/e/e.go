package e

import (
	"context"
	"errors"
	"fmt"
)

var (
	// Классы ошибок, которые видит вызывающая сторона
	ErrNotFound             = errors.New("not found")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	ErrStorageUnavailable   = errors.New("storage unavailable")

	// 404 Not Found
	ErrCocktailNotFound  = fmt.Errorf("%w: cocktail", ErrNotFound)
	ErrAnchorNotEmbedded = fmt.Errorf("%w: anchor has no embedding for requested field", ErrNotFound)

	// 400 Bad Request
	ErrInvalidRange       = fmt.Errorf("%w: abv_min must not exceed abv_max", ErrInvalidArgument)
	ErrABVOutOfBounds     = fmt.Errorf("%w: abv must be within [0, 100]", ErrInvalidArgument)
	ErrABVPrecision       = fmt.Errorf("%w: abv must have at most 2 decimal places", ErrInvalidArgument)
	ErrInvalidMaxResults  = fmt.Errorf("%w: max_results must be >= 1", ErrInvalidArgument)
	ErrInvalidThreshold   = fmt.Errorf("%w: threshold must be within [0, 1]", ErrInvalidArgument)
	ErrInvalidField       = fmt.Errorf("%w: unknown embedding field", ErrInvalidArgument)
	ErrAnchorNameRequired = fmt.Errorf("%w: cocktail name is required", ErrInvalidArgument)
	ErrQueryTextRequired  = fmt.Errorf("%w: query text is required", ErrInvalidArgument)
	ErrEmptyIngredients   = fmt.Errorf("%w: at least one ingredient is required", ErrInvalidArgument)
	ErrInvalidID          = fmt.Errorf("%w: id must be a positive integer", ErrInvalidArgument)
	ErrInvalidQueryParam  = fmt.Errorf("%w: invalid query parameter", ErrInvalidArgument)

	// Внутренние ошибки с векторами
	ErrEmptyVector       = fmt.Errorf("%w: embedder returned empty vector", ErrEmbeddingUnavailable)
	ErrEmbedderDisabled  = fmt.Errorf("%w: embedder is not configured", ErrEmbeddingUnavailable)
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// Конфигурация
	ErrIncorrectEnvVariable = errors.New("incorrect environment variable")

	// 500
	ErrInternalServerError = errors.New("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// Storage помечает ошибку хранилища как ErrStorageUnavailable.
// Уже классифицированные ошибки и отмена вызывающим не переклассифицируются.
func Storage(msg string, err error) error {
	if err == nil {
		return nil
	}

	if Classified(err) || errors.Is(err, context.Canceled) {
		return Wrap(msg, err)
	}

	return fmt.Errorf("%s: %w: %w", msg, ErrStorageUnavailable, err)
}

// Classified сообщает, относится ли ошибка к одному из классов, которые видит вызывающая сторона.
func Classified(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrEmbeddingUnavailable) ||
		errors.Is(err, ErrStorageUnavailable)
}
