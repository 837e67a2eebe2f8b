package assignment

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("client assignment not found")

type Repository interface {
	Get(ctx context.Context, clientID int64, orgID uuid.UUID) (*ClientAssignment, error)
	Exists(ctx context.Context, clientID int64, orgID uuid.UUID) (bool, error)
	Create(ctx context.Context, a *ClientAssignment) error
	Delete(ctx context.Context, clientID int64, orgID uuid.UUID) error
	ByOrg(ctx context.Context, orgID uuid.UUID) ([]*ClientAssignment, error)
	ByOrgs(ctx context.Context, orgIDs []uuid.UUID) ([]*ClientAssignment, error)
	ByClient(ctx context.Context, clientID int64) ([]*ClientAssignment, error)
	CountByOrg(ctx context.Context, orgID uuid.UUID) (int64, error)
}
