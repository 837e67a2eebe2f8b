package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/creditpath/franchise-sdk/modules/franchise/domain/access"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/aggregates/organization"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/membership"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/staff"
	"github.com/creditpath/franchise-sdk/modules/franchise/permissions"
)

// PermissionService resolves what a staff member may do in an
// organization. Resolution order: direct membership, platform admin,
// then ownership inheritance through ancestor organizations.
type PermissionService struct {
	memberships membership.Repository
	orgs        organization.Repository
	staff       staff.Repository
}

func NewPermissionService(
	memberships membership.Repository,
	orgs organization.Repository,
	staffRepo staff.Repository,
) *PermissionService {
	return &PermissionService{
		memberships: memberships,
		orgs:        orgs,
		staff:       staffRepo,
	}
}

type PermissionContext struct {
	StaffID         int64
	OrgID           uuid.UUID
	Permissions     access.Permissions
	Role            membership.Role
	IsDirectMember  bool
	IsPlatformAdmin bool
	// InheritedFrom is set when access comes through an owner/manager
	// membership at an ancestor organization.
	InheritedFrom *uuid.UUID
}

func (s *PermissionService) Check(ctx context.Context, staffID int64, orgID uuid.UUID, permission string) (bool, error) {
	pc, err := s.Context(ctx, staffID, orgID)
	if err != nil {
		return false, err
	}
	return pc.Permissions.Has(permission), nil
}

func (s *PermissionService) Context(ctx context.Context, staffID int64, orgID uuid.UUID) (*PermissionContext, error) {
	if _, err := s.orgs.GetByID(ctx, orgID); err != nil {
		if errors.Is(err, organization.ErrNotFound) {
			return nil, errNotFound("organization not found", err)
		}
		return nil, mapPgError(err)
	}
	st, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, staff.ErrNotFound) {
			return nil, errNotFound("staff member not found", err)
		}
		return nil, mapPgError(err)
	}

	pc := &PermissionContext{
		StaffID:     staffID,
		OrgID:       orgID,
		Permissions: access.NewPermissions(),
	}

	direct, err := s.memberships.Get(ctx, orgID, staffID)
	if err != nil && !errors.Is(err, membership.ErrNotFound) {
		return nil, mapPgError(err)
	}
	if direct != nil {
		pc.IsDirectMember = true
		pc.Role = direct.Role()
		pc.Permissions = permissions.ForRole(direct.Role()).
			Union(access.NewPermissions(direct.Permissions()...))
		return pc, nil
	}

	if st.PlatformAdmin {
		pc.IsPlatformAdmin = true
		pc.Permissions = access.AllPermissions()
		return pc, nil
	}

	memberships, err := s.memberships.ByStaff(ctx, staffID)
	if err != nil {
		return nil, mapPgError(err)
	}
	for _, m := range memberships {
		if !m.Role().InheritsDownward() {
			continue
		}
		dominates, err := s.orgInSubtree(ctx, m.OrgID(), orgID)
		if err != nil {
			return nil, err
		}
		if dominates {
			// The inherited grant is the ancestor role's base set only;
			// per-membership extras do not flow down.
			orgIDCopy := m.OrgID()
			pc.Role = m.Role()
			pc.InheritedFrom = &orgIDCopy
			pc.Permissions = permissions.ForRole(m.Role())
			return pc, nil
		}
	}

	return pc, nil
}

// FilterForAccess returns the organizations whose clients the staff
// member may see. Platform admins see everything; owners/managers see
// their organizations plus descendants; everyone else falls back to
// their primary organization, then any membership, then nothing.
func (s *PermissionService) FilterForAccess(ctx context.Context, staffID int64) (access.OrgScope, error) {
	st, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, staff.ErrNotFound) {
			return access.Orgs(), errNotFound("staff member not found", err)
		}
		return access.Orgs(), mapPgError(err)
	}
	if st.PlatformAdmin {
		return access.AllOrgs(), nil
	}

	memberships, err := s.memberships.ByStaff(ctx, staffID)
	if err != nil {
		return access.Orgs(), mapPgError(err)
	}

	var reachable []uuid.UUID
	for _, m := range memberships {
		if !m.Role().InheritsDownward() {
			continue
		}
		reachable = append(reachable, m.OrgID())
		descendants, err := s.orgs.Descendants(ctx, m.OrgID())
		if err != nil {
			return access.Orgs(), mapPgError(err)
		}
		for _, d := range descendants {
			reachable = append(reachable, d.ID())
		}
	}
	if len(reachable) > 0 {
		return access.Orgs(reachable...), nil
	}

	for _, m := range memberships {
		if m.IsPrimary() {
			return access.Orgs(m.OrgID()), nil
		}
	}
	if len(memberships) > 0 {
		return access.Orgs(memberships[0].OrgID()), nil
	}
	return access.Orgs(), nil
}

func (s *PermissionService) orgInSubtree(ctx context.Context, rootID, targetID uuid.UUID) (bool, error) {
	descendants, err := s.orgs.Descendants(ctx, rootID)
	if err != nil {
		return false, mapPgError(err)
	}
	for _, d := range descendants {
		if d.ID() == targetID {
			return true, nil
		}
	}
	return false, nil
}
