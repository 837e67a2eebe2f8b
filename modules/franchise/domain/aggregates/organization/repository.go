package organization

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("organization not found")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	// SlugExists reports whether any organization other than excludeID
	// (active or not) already uses the slug.
	SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	Create(ctx context.Context, org *Organization) error
	Update(ctx context.Context, org *Organization) error
	// Roots returns active organizations without a parent, sorted by name.
	Roots(ctx context.Context) ([]*Organization, error)
	// ChildrenOf returns active direct children, sorted by name.
	ChildrenOf(ctx context.Context, parentID uuid.UUID) ([]*Organization, error)
	// Descendants returns the full active subtree below id, excluding id
	// itself.
	Descendants(ctx context.Context, id uuid.UUID) ([]*Organization, error)
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)
}
