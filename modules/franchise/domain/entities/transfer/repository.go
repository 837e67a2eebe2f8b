package transfer

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("transfer not found")

type FindParams struct {
	OrgID    *uuid.UUID
	ClientID *int64
	Limit    int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Transfer, error)
	Create(ctx context.Context, t *Transfer) error
	Update(ctx context.Context, t *Transfer) error
	HasPending(ctx context.Context, clientID int64) (bool, error)
	// Pending lists pending transfers; orgID uuid.Nil means all
	// organizations.
	Pending(ctx context.Context, orgID uuid.UUID, direction Direction) ([]*Transfer, error)
	// History lists transfers most-recent-first.
	History(ctx context.Context, params *FindParams) ([]*Transfer, error)
	CountPendingIncoming(ctx context.Context, orgID uuid.UUID) (int64, error)
	CountPendingOutgoing(ctx context.Context, orgID uuid.UUID) (int64, error)
}
