package membership

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("membership not found")

type Repository interface {
	Get(ctx context.Context, orgID uuid.UUID, staffID int64) (*Membership, error)
	Exists(ctx context.Context, orgID uuid.UUID, staffID int64) (bool, error)
	Create(ctx context.Context, m *Membership) error
	Update(ctx context.Context, m *Membership) error
	Delete(ctx context.Context, orgID uuid.UUID, staffID int64) error
	ByOrg(ctx context.Context, orgID uuid.UUID) ([]*Membership, error)
	ByStaff(ctx context.Context, staffID int64) ([]*Membership, error)
	// ClearPrimary unsets is_primary on every membership of the staff
	// member in a single statement.
	ClearPrimary(ctx context.Context, staffID int64) error
	CountByOrg(ctx context.Context, orgID uuid.UUID) (int64, error)
}
