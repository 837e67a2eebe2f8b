package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/creditpath/franchise-sdk/modules/franchise/domain/aggregates/organization"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/membership"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/staff"
	"github.com/creditpath/franchise-sdk/pkg/eventbus"
)

// MembershipService maps staff members onto organizations and enforces
// the single-primary-membership rule.
type MembershipService struct {
	repo      membership.Repository
	orgs      organization.Repository
	staff     staff.Repository
	publisher eventbus.EventBus
}

func NewMembershipService(
	repo membership.Repository,
	orgs organization.Repository,
	staffRepo staff.Repository,
	publisher eventbus.EventBus,
) *MembershipService {
	return &MembershipService{
		repo:      repo,
		orgs:      orgs,
		staff:     staffRepo,
		publisher: publisher,
	}
}

type AddMemberInput struct {
	OrgID       uuid.UUID
	StaffID     int64
	Role        membership.Role
	Permissions []string
	IsPrimary   bool
}

func (s *MembershipService) AddMember(ctx context.Context, in AddMemberInput) (*membership.Membership, error) {
	if !in.Role.IsValid() {
		return nil, errValidation("unknown role: " + string(in.Role))
	}

	m, err := inTx(ctx, func(txCtx context.Context) (*membership.Membership, error) {
		if _, err := s.orgs.GetByID(txCtx, in.OrgID); err != nil {
			if errors.Is(err, organization.ErrNotFound) {
				return nil, errNotFound("organization not found", err)
			}
			return nil, mapPgError(err)
		}
		exists, err := s.staff.Exists(txCtx, in.StaffID)
		if err != nil {
			return nil, mapPgError(err)
		}
		if !exists {
			return nil, errNotFound("staff member not found", nil)
		}

		already, err := s.repo.Exists(txCtx, in.OrgID, in.StaffID)
		if err != nil {
			return nil, mapPgError(err)
		}
		if already {
			return nil, errConflict(CodeAlreadyMember, "staff member already belongs to organization")
		}

		if in.IsPrimary {
			if err := s.repo.ClearPrimary(txCtx, in.StaffID); err != nil {
				return nil, mapPgError(err)
			}
		}

		m := membership.New(
			in.OrgID,
			in.StaffID,
			in.Role,
			membership.WithPermissions(in.Permissions),
			membership.WithIsPrimary(in.IsPrimary),
		)
		if err := s.repo.Create(txCtx, m); err != nil {
			return nil, mapPgError(err)
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(membership.NewAddedEvent(m))
	return m, nil
}

type UpdateMemberInput struct {
	Role        *membership.Role
	Permissions *[]string
	IsPrimary   *bool
}

func (s *MembershipService) UpdateMember(ctx context.Context, orgID uuid.UUID, staffID int64, in UpdateMemberInput) (*membership.Membership, error) {
	if in.Role != nil && !in.Role.IsValid() {
		return nil, errValidation("unknown role: " + string(*in.Role))
	}

	m, err := inTx(ctx, func(txCtx context.Context) (*membership.Membership, error) {
		m, err := s.repo.Get(txCtx, orgID, staffID)
		if err != nil {
			if errors.Is(err, membership.ErrNotFound) {
				return nil, errNotFound("membership not found", err)
			}
			return nil, mapPgError(err)
		}

		if in.Role != nil {
			m.SetRole(*in.Role)
		}
		if in.Permissions != nil {
			m.SetPermissions(*in.Permissions)
		}
		if in.IsPrimary != nil {
			if *in.IsPrimary && !m.IsPrimary() {
				if err := s.repo.ClearPrimary(txCtx, staffID); err != nil {
					return nil, mapPgError(err)
				}
			}
			m.SetPrimary(*in.IsPrimary)
		}

		if err := s.repo.Update(txCtx, m); err != nil {
			return nil, mapPgError(err)
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(membership.NewUpdatedEvent(m))
	return m, nil
}

func (s *MembershipService) RemoveMember(ctx context.Context, orgID uuid.UUID, staffID int64) error {
	m, err := inTx(ctx, func(txCtx context.Context) (*membership.Membership, error) {
		m, err := s.repo.Get(txCtx, orgID, staffID)
		if err != nil {
			if errors.Is(err, membership.ErrNotFound) {
				return nil, errNotFound("membership not found", err)
			}
			return nil, mapPgError(err)
		}
		if err := s.repo.Delete(txCtx, orgID, staffID); err != nil {
			return nil, mapPgError(err)
		}
		return m, nil
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(membership.NewRemovedEvent(m))
	return nil
}

func (s *MembershipService) MembersOf(ctx context.Context, orgID uuid.UUID) ([]*membership.Membership, error) {
	if _, err := s.orgs.GetByID(ctx, orgID); err != nil {
		if errors.Is(err, organization.ErrNotFound) {
			return nil, errNotFound("organization not found", err)
		}
		return nil, mapPgError(err)
	}
	members, err := s.repo.ByOrg(ctx, orgID)
	if err != nil {
		return nil, mapPgError(err)
	}
	return members, nil
}

// StaffOrg pairs an organization with the staff member's membership in it.
type StaffOrg struct {
	Org        *organization.Organization
	Membership *membership.Membership
}

func (s *MembershipService) OrgsOf(ctx context.Context, staffID int64) ([]*StaffOrg, error) {
	memberships, err := s.repo.ByStaff(ctx, staffID)
	if err != nil {
		return nil, mapPgError(err)
	}
	out := make([]*StaffOrg, 0, len(memberships))
	for _, m := range memberships {
		org, err := s.orgs.GetByID(ctx, m.OrgID())
		if err != nil {
			return nil, mapPgError(err)
		}
		out = append(out, &StaffOrg{Org: org, Membership: m})
	}
	return out, nil
}
