package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/membership"
	"github.com/creditpath/franchise-sdk/modules/franchise/infrastructure/persistence/models"
	"github.com/creditpath/franchise-sdk/pkg/composables"
)

const (
	membershipSelectQuery = `
		SELECT
			id,
			organization_id,
			staff_id,
			role,
			permissions,
			is_primary,
			created_at,
			updated_at
		FROM memberships`

	membershipFindQuery = membershipSelectQuery + ` WHERE organization_id = $1 AND staff_id = $2`

	membershipExistsQuery = `SELECT EXISTS(SELECT 1 FROM memberships WHERE organization_id = $1 AND staff_id = $2)`

	membershipInsertQuery = `
		INSERT INTO memberships (
			id,
			organization_id,
			staff_id,
			role,
			permissions,
			is_primary,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	membershipUpdateQuery = `
		UPDATE memberships
		SET role = $2, permissions = $3, is_primary = $4, updated_at = $5
		WHERE id = $1`

	membershipDeleteQuery = `DELETE FROM memberships WHERE organization_id = $1 AND staff_id = $2`

	membershipByOrgQuery = membershipSelectQuery + ` WHERE organization_id = $1 ORDER BY created_at`

	membershipByStaffQuery = membershipSelectQuery + ` WHERE staff_id = $1 ORDER BY created_at`

	membershipClearPrimaryQuery = `UPDATE memberships SET is_primary = false WHERE staff_id = $1 AND is_primary`

	membershipCountByOrgQuery = `SELECT COUNT(*) FROM memberships WHERE organization_id = $1`
)

type PgMembershipRepository struct{}

func NewMembershipRepository() membership.Repository {
	return &PgMembershipRepository{}
}

func (r *PgMembershipRepository) Get(ctx context.Context, orgID uuid.UUID, staffID int64) (*membership.Membership, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	m, err := r.scanMembership(tx.QueryRow(ctx, membershipFindQuery, orgID, staffID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, membership.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get membership")
	}
	return m, nil
}

func (r *PgMembershipRepository) Exists(ctx context.Context, orgID uuid.UUID, staffID int64) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := tx.QueryRow(ctx, membershipExistsQuery, orgID, staffID).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "failed to check membership")
	}
	return exists, nil
}

func (r *PgMembershipRepository) Create(ctx context.Context, m *membership.Membership) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	row := toDBMembership(m)
	if _, err := tx.Exec(
		ctx,
		membershipInsertQuery,
		row.ID,
		row.OrganizationID,
		row.StaffID,
		row.Role,
		row.Permissions,
		row.IsPrimary,
		row.CreatedAt,
		row.UpdatedAt,
	); err != nil {
		return errors.Wrap(err, "failed to insert membership")
	}
	return nil
}

func (r *PgMembershipRepository) Update(ctx context.Context, m *membership.Membership) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	row := toDBMembership(m)
	tag, err := tx.Exec(ctx, membershipUpdateQuery, row.ID, row.Role, row.Permissions, row.IsPrimary, row.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "failed to update membership")
	}
	if tag.RowsAffected() == 0 {
		return membership.ErrNotFound
	}
	return nil
}

func (r *PgMembershipRepository) Delete(ctx context.Context, orgID uuid.UUID, staffID int64) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, membershipDeleteQuery, orgID, staffID)
	if err != nil {
		return errors.Wrap(err, "failed to delete membership")
	}
	if tag.RowsAffected() == 0 {
		return membership.ErrNotFound
	}
	return nil
}

func (r *PgMembershipRepository) ByOrg(ctx context.Context, orgID uuid.UUID) ([]*membership.Membership, error) {
	return r.queryMemberships(ctx, membershipByOrgQuery, orgID)
}

func (r *PgMembershipRepository) ByStaff(ctx context.Context, staffID int64) ([]*membership.Membership, error) {
	return r.queryMemberships(ctx, membershipByStaffQuery, staffID)
}

func (r *PgMembershipRepository) ClearPrimary(ctx context.Context, staffID int64) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, membershipClearPrimaryQuery, staffID); err != nil {
		return errors.Wrap(err, "failed to clear primary membership")
	}
	return nil
}

func (r *PgMembershipRepository) CountByOrg(ctx context.Context, orgID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, membershipCountByOrgQuery, orgID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count memberships")
	}
	return count, nil
}

func (r *PgMembershipRepository) queryMemberships(ctx context.Context, query string, args ...interface{}) ([]*membership.Membership, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query memberships")
	}
	defer rows.Close()

	out := make([]*membership.Membership, 0)
	for rows.Next() {
		m, err := r.scanMembership(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PgMembershipRepository) scanMembership(row pgx.Row) (*membership.Membership, error) {
	var m models.Membership
	if err := row.Scan(
		&m.ID,
		&m.OrganizationID,
		&m.StaffID,
		&m.Role,
		&m.Permissions,
		&m.IsPrimary,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return toDomainMembership(&m), nil
}
