package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/client"
	"github.com/creditpath/franchise-sdk/pkg/composables"
)

const (
	clientFindByIDQuery = `SELECT id, status FROM clients WHERE id = $1`
	clientExistsQuery   = `SELECT EXISTS(SELECT 1 FROM clients WHERE id = $1)`
)

type PgClientRepository struct{}

func NewClientRepository() client.Repository {
	return &PgClientRepository{}
}

func (r *PgClientRepository) GetByID(ctx context.Context, id int64) (*client.Client, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var c client.Client
	if err := tx.QueryRow(ctx, clientFindByIDQuery, id).Scan(&c.ID, &c.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, client.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get client")
	}
	return &c, nil
}

func (r *PgClientRepository) Exists(ctx context.Context, id int64) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := tx.QueryRow(ctx, clientExistsQuery, id).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "failed to check client")
	}
	return exists, nil
}
