package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/creditpath/franchise-sdk/modules/franchise/domain/aggregates/organization"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/assignment"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/client"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/staff"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/transfer"
	"github.com/creditpath/franchise-sdk/pkg/eventbus"
)

// TransferService runs the request/approve/reject workflow that moves a
// client between organizations.
type TransferService struct {
	repo        transfer.Repository
	assignments assignment.Repository
	orgs        organization.Repository
	clients     client.Repository
	staff       staff.Repository
	publisher   eventbus.EventBus
}

func NewTransferService(
	repo transfer.Repository,
	assignments assignment.Repository,
	orgs organization.Repository,
	clients client.Repository,
	staffRepo staff.Repository,
	publisher eventbus.EventBus,
) *TransferService {
	return &TransferService{
		repo:        repo,
		assignments: assignments,
		orgs:        orgs,
		clients:     clients,
		staff:       staffRepo,
		publisher:   publisher,
	}
}

type RequestTransferInput struct {
	ClientID    int64
	FromOrgID   uuid.UUID
	ToOrgID     uuid.UUID
	Type        transfer.Type
	Reason      string
	RequestedBy int64
}

func (s *TransferService) Request(ctx context.Context, in RequestTransferInput) (*transfer.Transfer, error) {
	if !in.Type.IsValid() {
		return nil, errValidation("unknown transfer_type: " + string(in.Type))
	}
	if in.FromOrgID == in.ToOrgID {
		return nil, errValidation("source and destination organizations must differ")
	}

	t, err := inTx(ctx, func(txCtx context.Context) (*transfer.Transfer, error) {
		exists, err := s.clients.Exists(txCtx, in.ClientID)
		if err != nil {
			return nil, mapPgError(err)
		}
		if !exists {
			return nil, errNotFound("client not found", nil)
		}
		for _, orgID := range []uuid.UUID{in.FromOrgID, in.ToOrgID} {
			if _, err := s.orgs.GetByID(txCtx, orgID); err != nil {
				if errors.Is(err, organization.ErrNotFound) {
					return nil, errNotFound("organization not found", err)
				}
				return nil, mapPgError(err)
			}
		}

		assigned, err := s.assignments.Exists(txCtx, in.ClientID, in.FromOrgID)
		if err != nil {
			return nil, mapPgError(err)
		}
		if !assigned {
			return nil, errValidation("client is not assigned to the source organization")
		}

		// One pending transfer per client; the partial unique index
		// backstops this check under concurrent requests.
		pending, err := s.repo.HasPending(txCtx, in.ClientID)
		if err != nil {
			return nil, mapPgError(err)
		}
		if pending {
			return nil, errConflict(CodeDuplicatePending, "client already has a pending transfer")
		}

		t := transfer.New(
			in.ClientID,
			in.FromOrgID,
			in.ToOrgID,
			in.Type,
			in.RequestedBy,
			transfer.WithReason(in.Reason),
		)
		if err := s.repo.Create(txCtx, t); err != nil {
			return nil, mapPgError(err)
		}
		return t, nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(transfer.NewRequestedEvent(t))
	return t, nil
}

// Approve finalizes a pending transfer. Approval swaps the client's
// assignment from source to destination in the same transaction as the
// status change; rejection leaves the ledger untouched.
func (s *TransferService) Approve(ctx context.Context, transferID uuid.UUID, approvedBy int64, approve bool) (*transfer.Transfer, error) {
	t, err := inTx(ctx, func(txCtx context.Context) (*transfer.Transfer, error) {
		t, err := s.repo.GetByID(txCtx, transferID)
		if err != nil {
			if errors.Is(err, transfer.ErrNotFound) {
				return nil, errNotFound("transfer not found", err)
			}
			return nil, mapPgError(err)
		}
		exists, err := s.staff.Exists(txCtx, approvedBy)
		if err != nil {
			return nil, mapPgError(err)
		}
		if !exists {
			return nil, errNotFound("staff member not found", nil)
		}
		if !t.IsPending() {
			return nil, errConflict(CodeInvalidTransition, "transfer is not pending")
		}

		now := time.Now()
		if !approve {
			if err := t.Reject(approvedBy, now); err != nil {
				return nil, errConflict(CodeInvalidTransition, err.Error())
			}
			if err := s.repo.Update(txCtx, t); err != nil {
				return nil, mapPgError(err)
			}
			return t, nil
		}

		if err := s.assignments.Delete(txCtx, t.ClientID(), t.FromOrgID()); err != nil {
			if errors.Is(err, assignment.ErrNotFound) {
				return nil, errValidation("client is no longer assigned to the source organization")
			}
			return nil, mapPgError(err)
		}
		moved := assignment.New(t.ClientID(), t.ToOrgID(), assignment.WithAssignedBy(&approvedBy))
		if err := s.assignments.Create(txCtx, moved); err != nil {
			return nil, mapPgError(err)
		}
		if err := t.Approve(approvedBy, now); err != nil {
			return nil, errConflict(CodeInvalidTransition, err.Error())
		}
		if err := s.repo.Update(txCtx, t); err != nil {
			return nil, mapPgError(err)
		}
		return t, nil
	})
	if err != nil {
		return nil, err
	}

	if t.Status() == transfer.StatusApproved {
		s.publisher.Publish(transfer.NewApprovedEvent(t))
	} else {
		s.publisher.Publish(transfer.NewRejectedEvent(t))
	}
	return t, nil
}

// Pending lists pending transfers for an organization; a nil orgID means
// all organizations.
func (s *TransferService) Pending(ctx context.Context, orgID *uuid.UUID, direction transfer.Direction) ([]*transfer.Transfer, error) {
	if direction == "" {
		direction = transfer.DirectionBoth
	}
	switch direction {
	case transfer.DirectionIncoming, transfer.DirectionOutgoing, transfer.DirectionBoth:
	default:
		return nil, errValidation("unknown direction: " + string(direction))
	}

	id := uuid.Nil
	if orgID != nil {
		id = *orgID
	}
	out, err := s.repo.Pending(ctx, id, direction)
	if err != nil {
		return nil, mapPgError(err)
	}
	return out, nil
}

func (s *TransferService) History(ctx context.Context, params *transfer.FindParams) ([]*transfer.Transfer, error) {
	if params == nil {
		params = &transfer.FindParams{}
	}
	if params.Limit <= 0 {
		params.Limit = 50
	}
	out, err := s.repo.History(ctx, params)
	if err != nil {
		return nil, mapPgError(err)
	}
	return out, nil
}
