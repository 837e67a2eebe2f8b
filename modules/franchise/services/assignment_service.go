package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/creditpath/franchise-sdk/modules/franchise/domain/access"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/aggregates/organization"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/assignment"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/client"
	"github.com/creditpath/franchise-sdk/pkg/eventbus"
)

// AssignmentService tracks which organization owns each client.
type AssignmentService struct {
	repo        assignment.Repository
	orgs        organization.Repository
	clients     client.Repository
	permissions *PermissionService
	publisher   eventbus.EventBus
}

func NewAssignmentService(
	repo assignment.Repository,
	orgs organization.Repository,
	clients client.Repository,
	permissionSvc *PermissionService,
	publisher eventbus.EventBus,
) *AssignmentService {
	return &AssignmentService{
		repo:        repo,
		orgs:        orgs,
		clients:     clients,
		permissions: permissionSvc,
		publisher:   publisher,
	}
}

func (s *AssignmentService) Assign(ctx context.Context, clientID int64, orgID uuid.UUID, assignedBy *int64) (*assignment.ClientAssignment, error) {
	a, err := inTx(ctx, func(txCtx context.Context) (*assignment.ClientAssignment, error) {
		exists, err := s.clients.Exists(txCtx, clientID)
		if err != nil {
			return nil, mapPgError(err)
		}
		if !exists {
			return nil, errNotFound("client not found", nil)
		}
		if _, err := s.orgs.GetByID(txCtx, orgID); err != nil {
			if errors.Is(err, organization.ErrNotFound) {
				return nil, errNotFound("organization not found", err)
			}
			return nil, mapPgError(err)
		}

		already, err := s.repo.Exists(txCtx, clientID, orgID)
		if err != nil {
			return nil, mapPgError(err)
		}
		if already {
			return nil, errConflict(CodeAlreadyAssigned, "client already assigned to organization")
		}

		a := assignment.New(clientID, orgID, assignment.WithAssignedBy(assignedBy))
		if err := s.repo.Create(txCtx, a); err != nil {
			return nil, mapPgError(err)
		}
		return a, nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(assignment.NewAssignedEvent(a))
	return a, nil
}

func (s *AssignmentService) Unassign(ctx context.Context, clientID int64, orgID uuid.UUID) (bool, error) {
	a, err := inTx(ctx, func(txCtx context.Context) (*assignment.ClientAssignment, error) {
		a, err := s.repo.Get(txCtx, clientID, orgID)
		if err != nil {
			if errors.Is(err, assignment.ErrNotFound) {
				return nil, errNotFound("client assignment not found", err)
			}
			return nil, mapPgError(err)
		}
		if err := s.repo.Delete(txCtx, clientID, orgID); err != nil {
			return nil, mapPgError(err)
		}
		return a, nil
	})
	if err != nil {
		return false, err
	}

	s.publisher.Publish(assignment.NewUnassignedEvent(a))
	return true, nil
}

// ClientsOf lists the organization's assignments, optionally unioned
// with every descendant organization's assignments.
func (s *AssignmentService) ClientsOf(ctx context.Context, orgID uuid.UUID, includeDescendants bool) ([]*assignment.ClientAssignment, error) {
	if _, err := s.orgs.GetByID(ctx, orgID); err != nil {
		if errors.Is(err, organization.ErrNotFound) {
			return nil, errNotFound("organization not found", err)
		}
		return nil, mapPgError(err)
	}

	if !includeDescendants {
		out, err := s.repo.ByOrg(ctx, orgID)
		if err != nil {
			return nil, mapPgError(err)
		}
		return out, nil
	}

	ids := []uuid.UUID{orgID}
	descendants, err := s.orgs.Descendants(ctx, orgID)
	if err != nil {
		return nil, mapPgError(err)
	}
	for _, d := range descendants {
		ids = append(ids, d.ID())
	}
	out, err := s.repo.ByOrgs(ctx, ids)
	if err != nil {
		return nil, mapPgError(err)
	}
	return out, nil
}

// FilterForAccess exposes the ledger-side view of the resolver's org
// scope; downstream query builders intersect client rows against it.
// Clients with no assignment at all are visible to everyone.
func (s *AssignmentService) FilterForAccess(ctx context.Context, staffID int64) (access.OrgScope, error) {
	return s.permissions.FilterForAccess(ctx, staffID)
}
