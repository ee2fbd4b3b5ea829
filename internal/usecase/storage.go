package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/cocktail-search/pkg/e"
)

// callStorage выполняет одно обращение к хранилищу с ограничением по времени.
// Истечение таймаута и ошибки бэкенда классифицируются как ErrStorageUnavailable,
// отмена контекста вызывающей стороной пробрасывается как есть.
func callStorage[T any](ctx context.Context, timeout time.Duration, op string, call func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := call(callCtx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, e.Storage(op, ctxErr)
		}

		return zero, e.Storage(op, err)
	}

	return res, nil
}
