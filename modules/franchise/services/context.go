package services

import (
	"context"
	"errors"

	"github.com/creditpath/franchise-sdk/pkg/composables"
)

// inTx runs fn inside a single database transaction so multi-step writes
// are never observed half-applied. When no pool is wired into the
// context (in-memory stores in tests), fn runs inline.
func inTx[T any](ctx context.Context, fn func(txCtx context.Context) (T, error)) (T, error) {
	var out T
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		out, err = fn(txCtx)
		return err
	})
	if err != nil {
		if errors.Is(err, composables.ErrNoPool) {
			return fn(ctx)
		}
		var zero T
		return zero, err
	}
	return out, nil
}
