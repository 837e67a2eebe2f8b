// Package staff exposes the read-only view of staff members the engine
// consumes. Accounts, sessions and profiles are owned elsewhere.
package staff

import (
	"context"

	"github.com/go-faster/errors"
)

var ErrNotFound = errors.New("staff member not found")

type Staff struct {
	ID            int64
	Email         string
	PlatformAdmin bool
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Staff, error)
	Exists(ctx context.Context, id int64) (bool, error)
}
