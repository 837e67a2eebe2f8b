package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/staff"
	"github.com/creditpath/franchise-sdk/pkg/composables"
)

const (
	staffFindByIDQuery = `SELECT id, email, platform_admin FROM staff WHERE id = $1`
	staffExistsQuery   = `SELECT EXISTS(SELECT 1 FROM staff WHERE id = $1)`
)

type PgStaffRepository struct{}

func NewStaffRepository() staff.Repository {
	return &PgStaffRepository{}
}

func (r *PgStaffRepository) GetByID(ctx context.Context, id int64) (*staff.Staff, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var s staff.Staff
	if err := tx.QueryRow(ctx, staffFindByIDQuery, id).Scan(&s.ID, &s.Email, &s.PlatformAdmin); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, staff.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get staff member")
	}
	return &s, nil
}

func (r *PgStaffRepository) Exists(ctx context.Context, id int64) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := tx.QueryRow(ctx, staffExistsQuery, id).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "failed to check staff member")
	}
	return exists, nil
}
