package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/creditpath/franchise-sdk/modules/franchise/domain/aggregates/organization"
	"github.com/creditpath/franchise-sdk/modules/franchise/infrastructure/persistence/models"
	"github.com/creditpath/franchise-sdk/pkg/composables"
)

const (
	orgSelectQuery = `
		SELECT
			id,
			name,
			slug,
			org_type,
			parent_id,
			is_active,
			settings,
			revenue_share_percent,
			max_users,
			max_clients,
			tier,
			contact_email,
			contact_phone,
			billing_address,
			created_at,
			updated_at
		FROM organizations`

	orgFindByIDQuery = orgSelectQuery + ` WHERE id = $1`

	orgSlugExistsQuery = `SELECT EXISTS(SELECT 1 FROM organizations WHERE slug = $1 AND id <> $2)`

	orgInsertQuery = `
		INSERT INTO organizations (
			id,
			name,
			slug,
			org_type,
			parent_id,
			is_active,
			settings,
			revenue_share_percent,
			max_users,
			max_clients,
			tier,
			contact_email,
			contact_phone,
			billing_address,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	orgUpdateQuery = `
		UPDATE organizations
		SET
			name = $2,
			slug = $3,
			org_type = $4,
			parent_id = $5,
			is_active = $6,
			settings = $7,
			revenue_share_percent = $8,
			max_users = $9,
			max_clients = $10,
			tier = $11,
			contact_email = $12,
			contact_phone = $13,
			billing_address = $14,
			updated_at = $15
		WHERE id = $1`

	orgRootsQuery = orgSelectQuery + ` WHERE parent_id IS NULL AND is_active ORDER BY name`

	orgChildrenQuery = orgSelectQuery + ` WHERE parent_id = $1 AND is_active ORDER BY name`

	orgDescendantsQuery = `
		WITH RECURSIVE subtree AS (
			SELECT o.* FROM organizations o WHERE o.parent_id = $1 AND o.is_active
			UNION ALL
			SELECT o.* FROM organizations o
			JOIN subtree s ON o.parent_id = s.id
			WHERE o.is_active
		)
		SELECT
			id,
			name,
			slug,
			org_type,
			parent_id,
			is_active,
			settings,
			revenue_share_percent,
			max_users,
			max_clients,
			tier,
			contact_email,
			contact_phone,
			billing_address,
			created_at,
			updated_at
		FROM subtree
		ORDER BY name`

	// Soft-deleted children still block deletion of their parent; rows
	// are never removed, so inactive ones count too.
	orgHasChildrenQuery = `SELECT EXISTS(SELECT 1 FROM organizations WHERE parent_id = $1)`
)

type PgOrganizationRepository struct{}

func NewOrganizationRepository() organization.Repository {
	return &PgOrganizationRepository{}
}

func (r *PgOrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	org, err := r.scanOrganization(tx.QueryRow(ctx, orgFindByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, organization.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get organization")
	}
	return org, nil
}

func (r *PgOrganizationRepository) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := tx.QueryRow(ctx, orgSlugExistsQuery, slug, excludeID).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "failed to check slug")
	}
	return exists, nil
}

func (r *PgOrganizationRepository) Create(ctx context.Context, org *organization.Organization) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	row, err := toDBOrganization(org)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		orgInsertQuery,
		row.ID,
		row.Name,
		row.Slug,
		row.OrgType,
		row.ParentID,
		row.IsActive,
		row.Settings,
		row.RevenueSharePercent,
		row.MaxUsers,
		row.MaxClients,
		row.Tier,
		row.ContactEmail,
		row.ContactPhone,
		row.BillingAddress,
		row.CreatedAt,
		row.UpdatedAt,
	); err != nil {
		return errors.Wrap(err, "failed to insert organization")
	}
	return nil
}

func (r *PgOrganizationRepository) Update(ctx context.Context, org *organization.Organization) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	row, err := toDBOrganization(org)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(
		ctx,
		orgUpdateQuery,
		row.ID,
		row.Name,
		row.Slug,
		row.OrgType,
		row.ParentID,
		row.IsActive,
		row.Settings,
		row.RevenueSharePercent,
		row.MaxUsers,
		row.MaxClients,
		row.Tier,
		row.ContactEmail,
		row.ContactPhone,
		row.BillingAddress,
		row.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update organization")
	}
	if tag.RowsAffected() == 0 {
		return organization.ErrNotFound
	}
	return nil
}

func (r *PgOrganizationRepository) Roots(ctx context.Context) ([]*organization.Organization, error) {
	return r.queryOrganizations(ctx, orgRootsQuery)
}

func (r *PgOrganizationRepository) ChildrenOf(ctx context.Context, parentID uuid.UUID) ([]*organization.Organization, error) {
	return r.queryOrganizations(ctx, orgChildrenQuery, parentID)
}

func (r *PgOrganizationRepository) Descendants(ctx context.Context, id uuid.UUID) ([]*organization.Organization, error) {
	return r.queryOrganizations(ctx, orgDescendantsQuery, id)
}

func (r *PgOrganizationRepository) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := tx.QueryRow(ctx, orgHasChildrenQuery, id).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "failed to check children")
	}
	return exists, nil
}

func (r *PgOrganizationRepository) queryOrganizations(ctx context.Context, query string, args ...interface{}) ([]*organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query organizations")
	}
	defer rows.Close()

	out := make([]*organization.Organization, 0)
	for rows.Next() {
		org, err := r.scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, org)
	}
	return out, rows.Err()
}

func (r *PgOrganizationRepository) scanOrganization(row pgx.Row) (*organization.Organization, error) {
	var m models.Organization
	if err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Slug,
		&m.OrgType,
		&m.ParentID,
		&m.IsActive,
		&m.Settings,
		&m.RevenueSharePercent,
		&m.MaxUsers,
		&m.MaxClients,
		&m.Tier,
		&m.ContactEmail,
		&m.ContactPhone,
		&m.BillingAddress,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return toDomainOrganization(&m)
}
