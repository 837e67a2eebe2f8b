package persistence

import (
	"context"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/transfer"
	"github.com/creditpath/franchise-sdk/modules/franchise/infrastructure/persistence/models"
	"github.com/creditpath/franchise-sdk/pkg/composables"
)

const (
	transferSelectQuery = `
		SELECT
			id,
			client_id,
			from_org_id,
			to_org_id,
			transfer_type,
			reason,
			requested_by,
			status,
			approved_by,
			completed_at,
			created_at
		FROM transfers`

	transferFindByIDQuery = transferSelectQuery + ` WHERE id = $1`

	transferInsertQuery = `
		INSERT INTO transfers (
			id,
			client_id,
			from_org_id,
			to_org_id,
			transfer_type,
			reason,
			requested_by,
			status,
			approved_by,
			completed_at,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	transferUpdateQuery = `
		UPDATE transfers
		SET status = $2, approved_by = $3, completed_at = $4
		WHERE id = $1`

	transferHasPendingQuery = `SELECT EXISTS(SELECT 1 FROM transfers WHERE client_id = $1 AND status = 'pending')`

	transferPendingAllQuery = transferSelectQuery + ` WHERE status = 'pending' ORDER BY created_at`

	transferPendingIncomingQuery = transferSelectQuery + ` WHERE status = 'pending' AND to_org_id = $1 ORDER BY created_at`

	transferPendingOutgoingQuery = transferSelectQuery + ` WHERE status = 'pending' AND from_org_id = $1 ORDER BY created_at`

	transferPendingBothQuery = transferSelectQuery + ` WHERE status = 'pending' AND (from_org_id = $1 OR to_org_id = $1) ORDER BY created_at`

	transferCountPendingIncomingQuery = `SELECT COUNT(*) FROM transfers WHERE status = 'pending' AND to_org_id = $1`

	transferCountPendingOutgoingQuery = `SELECT COUNT(*) FROM transfers WHERE status = 'pending' AND from_org_id = $1`
)

type PgTransferRepository struct{}

func NewTransferRepository() transfer.Repository {
	return &PgTransferRepository{}
}

func (r *PgTransferRepository) GetByID(ctx context.Context, id uuid.UUID) (*transfer.Transfer, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	t, err := r.scanTransfer(tx.QueryRow(ctx, transferFindByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transfer.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get transfer")
	}
	return t, nil
}

func (r *PgTransferRepository) Create(ctx context.Context, t *transfer.Transfer) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	row := toDBTransfer(t)
	if _, err := tx.Exec(
		ctx,
		transferInsertQuery,
		row.ID,
		row.ClientID,
		row.FromOrgID,
		row.ToOrgID,
		row.TransferType,
		row.Reason,
		row.RequestedBy,
		row.Status,
		row.ApprovedBy,
		row.CompletedAt,
		row.CreatedAt,
	); err != nil {
		return errors.Wrap(err, "failed to insert transfer")
	}
	return nil
}

func (r *PgTransferRepository) Update(ctx context.Context, t *transfer.Transfer) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	row := toDBTransfer(t)
	tag, err := tx.Exec(ctx, transferUpdateQuery, row.ID, row.Status, row.ApprovedBy, row.CompletedAt)
	if err != nil {
		return errors.Wrap(err, "failed to update transfer")
	}
	if tag.RowsAffected() == 0 {
		return transfer.ErrNotFound
	}
	return nil
}

func (r *PgTransferRepository) HasPending(ctx context.Context, clientID int64) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := tx.QueryRow(ctx, transferHasPendingQuery, clientID).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "failed to check pending transfer")
	}
	return exists, nil
}

func (r *PgTransferRepository) Pending(ctx context.Context, orgID uuid.UUID, direction transfer.Direction) ([]*transfer.Transfer, error) {
	if orgID == uuid.Nil {
		return r.queryTransfers(ctx, transferPendingAllQuery)
	}
	switch direction {
	case transfer.DirectionIncoming:
		return r.queryTransfers(ctx, transferPendingIncomingQuery, orgID)
	case transfer.DirectionOutgoing:
		return r.queryTransfers(ctx, transferPendingOutgoingQuery, orgID)
	default:
		return r.queryTransfers(ctx, transferPendingBothQuery, orgID)
	}
}

func (r *PgTransferRepository) History(ctx context.Context, params *transfer.FindParams) ([]*transfer.Transfer, error) {
	query := transferSelectQuery
	where := ""
	args := make([]interface{}, 0, 3)
	if params.OrgID != nil {
		args = append(args, *params.OrgID)
		n := strconv.Itoa(len(args))
		where = ` WHERE (from_org_id = $` + n + ` OR to_org_id = $` + n + `)`
	}
	if params.ClientID != nil {
		args = append(args, *params.ClientID)
		n := strconv.Itoa(len(args))
		if where == "" {
			where = ` WHERE client_id = $` + n
		} else {
			where += ` AND client_id = $` + n
		}
	}
	query += where + ` ORDER BY created_at DESC`
	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	return r.queryTransfers(ctx, query, args...)
}

func (r *PgTransferRepository) CountPendingIncoming(ctx context.Context, orgID uuid.UUID) (int64, error) {
	return r.countTransfers(ctx, transferCountPendingIncomingQuery, orgID)
}

func (r *PgTransferRepository) CountPendingOutgoing(ctx context.Context, orgID uuid.UUID) (int64, error) {
	return r.countTransfers(ctx, transferCountPendingOutgoingQuery, orgID)
}

func (r *PgTransferRepository) countTransfers(ctx context.Context, query string, orgID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, query, orgID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count transfers")
	}
	return count, nil
}

func (r *PgTransferRepository) queryTransfers(ctx context.Context, query string, args ...interface{}) ([]*transfer.Transfer, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query transfers")
	}
	defer rows.Close()

	out := make([]*transfer.Transfer, 0)
	for rows.Next() {
		t, err := r.scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PgTransferRepository) scanTransfer(row pgx.Row) (*transfer.Transfer, error) {
	var m models.Transfer
	if err := row.Scan(
		&m.ID,
		&m.ClientID,
		&m.FromOrgID,
		&m.ToOrgID,
		&m.TransferType,
		&m.Reason,
		&m.RequestedBy,
		&m.Status,
		&m.ApprovedBy,
		&m.CompletedAt,
		&m.CreatedAt,
	); err != nil {
		return nil, err
	}
	return toDomainTransfer(&m), nil
}
