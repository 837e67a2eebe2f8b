package persistence

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/creditpath/franchise-sdk/modules/franchise/services"
	"github.com/creditpath/franchise-sdk/pkg/composables"
)

const (
	settlementCompletedQuery = `
		SELECT client_id, settlement_type, amount, completed_at
		FROM settlements
		WHERE client_id = ANY($1)
			AND status = 'completed'
			AND completed_at >= $2
			AND completed_at <= $3
		ORDER BY completed_at`

	caseCountsQuery = `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'active')
		FROM cases
		WHERE client_id = ANY($1)`

	activeClientCountQuery = `SELECT COUNT(*) FROM clients WHERE id = ANY($1) AND status = 'active'`
)

// PgRevenueRepository is the read model over settlements and cases owned
// by other modules.
type PgRevenueRepository struct{}

func NewRevenueRepository() services.RevenueReadRepository {
	return &PgRevenueRepository{}
}

func (r *PgRevenueRepository) CompletedSettlements(ctx context.Context, clientIDs []int64, from, to time.Time) ([]services.SettlementRow, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, settlementCompletedQuery, clientIDs, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query settlements")
	}
	defer rows.Close()

	out := make([]services.SettlementRow, 0)
	for rows.Next() {
		var row services.SettlementRow
		if err := rows.Scan(&row.ClientID, &row.SettlementType, &row.Amount, &row.CompletedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan settlement")
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *PgRevenueRepository) CaseCounts(ctx context.Context, clientIDs []int64) (int64, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, 0, err
	}
	var total, active int64
	if err := tx.QueryRow(ctx, caseCountsQuery, clientIDs).Scan(&total, &active); err != nil {
		return 0, 0, errors.Wrap(err, "failed to count cases")
	}
	return total, active, nil
}

func (r *PgRevenueRepository) ActiveClientCount(ctx context.Context, clientIDs []int64) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, activeClientCountQuery, clientIDs).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count active clients")
	}
	return count, nil
}
