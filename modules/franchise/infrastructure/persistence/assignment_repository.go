package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/assignment"
	"github.com/creditpath/franchise-sdk/modules/franchise/infrastructure/persistence/models"
	"github.com/creditpath/franchise-sdk/pkg/composables"
)

const (
	assignmentSelectQuery = `
		SELECT
			id,
			client_id,
			organization_id,
			assigned_by,
			created_at
		FROM client_assignments`

	assignmentFindQuery = assignmentSelectQuery + ` WHERE client_id = $1 AND organization_id = $2`

	assignmentExistsQuery = `SELECT EXISTS(SELECT 1 FROM client_assignments WHERE client_id = $1 AND organization_id = $2)`

	assignmentInsertQuery = `
		INSERT INTO client_assignments (id, client_id, organization_id, assigned_by, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	assignmentDeleteQuery = `DELETE FROM client_assignments WHERE client_id = $1 AND organization_id = $2`

	assignmentByOrgQuery = assignmentSelectQuery + ` WHERE organization_id = $1 ORDER BY created_at`

	assignmentByOrgsQuery = assignmentSelectQuery + ` WHERE organization_id = ANY($1) ORDER BY created_at`

	assignmentByClientQuery = assignmentSelectQuery + ` WHERE client_id = $1 ORDER BY created_at`

	assignmentCountByOrgQuery = `SELECT COUNT(*) FROM client_assignments WHERE organization_id = $1`
)

type PgAssignmentRepository struct{}

func NewAssignmentRepository() assignment.Repository {
	return &PgAssignmentRepository{}
}

func (r *PgAssignmentRepository) Get(ctx context.Context, clientID int64, orgID uuid.UUID) (*assignment.ClientAssignment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	a, err := r.scanAssignment(tx.QueryRow(ctx, assignmentFindQuery, clientID, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, assignment.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get client assignment")
	}
	return a, nil
}

func (r *PgAssignmentRepository) Exists(ctx context.Context, clientID int64, orgID uuid.UUID) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := tx.QueryRow(ctx, assignmentExistsQuery, clientID, orgID).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "failed to check client assignment")
	}
	return exists, nil
}

func (r *PgAssignmentRepository) Create(ctx context.Context, a *assignment.ClientAssignment) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	row := toDBAssignment(a)
	if _, err := tx.Exec(
		ctx,
		assignmentInsertQuery,
		row.ID,
		row.ClientID,
		row.OrganizationID,
		row.AssignedBy,
		row.CreatedAt,
	); err != nil {
		return errors.Wrap(err, "failed to insert client assignment")
	}
	return nil
}

func (r *PgAssignmentRepository) Delete(ctx context.Context, clientID int64, orgID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, assignmentDeleteQuery, clientID, orgID)
	if err != nil {
		return errors.Wrap(err, "failed to delete client assignment")
	}
	if tag.RowsAffected() == 0 {
		return assignment.ErrNotFound
	}
	return nil
}

func (r *PgAssignmentRepository) ByOrg(ctx context.Context, orgID uuid.UUID) ([]*assignment.ClientAssignment, error) {
	return r.queryAssignments(ctx, assignmentByOrgQuery, orgID)
}

func (r *PgAssignmentRepository) ByOrgs(ctx context.Context, orgIDs []uuid.UUID) ([]*assignment.ClientAssignment, error) {
	if len(orgIDs) == 0 {
		return []*assignment.ClientAssignment{}, nil
	}
	return r.queryAssignments(ctx, assignmentByOrgsQuery, orgIDs)
}

func (r *PgAssignmentRepository) ByClient(ctx context.Context, clientID int64) ([]*assignment.ClientAssignment, error) {
	return r.queryAssignments(ctx, assignmentByClientQuery, clientID)
}

func (r *PgAssignmentRepository) CountByOrg(ctx context.Context, orgID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, assignmentCountByOrgQuery, orgID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count client assignments")
	}
	return count, nil
}

func (r *PgAssignmentRepository) queryAssignments(ctx context.Context, query string, args ...interface{}) ([]*assignment.ClientAssignment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query client assignments")
	}
	defer rows.Close()

	out := make([]*assignment.ClientAssignment, 0)
	for rows.Next() {
		a, err := r.scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PgAssignmentRepository) scanAssignment(row pgx.Row) (*assignment.ClientAssignment, error) {
	var m models.ClientAssignment
	if err := row.Scan(
		&m.ID,
		&m.ClientID,
		&m.OrganizationID,
		&m.AssignedBy,
		&m.CreatedAt,
	); err != nil {
		return nil, err
	}
	return toDomainAssignment(&m), nil
}
