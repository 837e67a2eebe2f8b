package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/creditpath/franchise-sdk/modules/franchise/domain/aggregates/organization"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/assignment"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/client"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/membership"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/staff"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/transfer"
)

type memOrgRepository struct {
	orgs map[uuid.UUID]*organization.Organization
}

func newMemOrgRepository() *memOrgRepository {
	return &memOrgRepository{orgs: map[uuid.UUID]*organization.Organization{}}
}

func (r *memOrgRepository) GetByID(_ context.Context, id uuid.UUID) (*organization.Organization, error) {
	org, ok := r.orgs[id]
	if !ok {
		return nil, organization.ErrNotFound
	}
	return org, nil
}

func (r *memOrgRepository) SlugExists(_ context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	for _, org := range r.orgs {
		if org.Slug() == slug && org.ID() != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memOrgRepository) Create(_ context.Context, org *organization.Organization) error {
	r.orgs[org.ID()] = org
	return nil
}

func (r *memOrgRepository) Update(_ context.Context, org *organization.Organization) error {
	if _, ok := r.orgs[org.ID()]; !ok {
		return organization.ErrNotFound
	}
	r.orgs[org.ID()] = org
	return nil
}

func (r *memOrgRepository) Roots(_ context.Context) ([]*organization.Organization, error) {
	out := []*organization.Organization{}
	for _, org := range r.orgs {
		if org.ParentID() == nil && org.IsActive() {
			out = append(out, org)
		}
	}
	return out, nil
}

func (r *memOrgRepository) ChildrenOf(_ context.Context, parentID uuid.UUID) ([]*organization.Organization, error) {
	out := []*organization.Organization{}
	for _, org := range r.orgs {
		if org.ParentID() != nil && *org.ParentID() == parentID && org.IsActive() {
			out = append(out, org)
		}
	}
	return out, nil
}

func (r *memOrgRepository) Descendants(ctx context.Context, id uuid.UUID) ([]*organization.Organization, error) {
	children, err := r.ChildrenOf(ctx, id)
	if err != nil {
		return nil, err
	}
	out := []*organization.Organization{}
	for _, child := range children {
		out = append(out, child)
		grandchildren, err := r.Descendants(ctx, child.ID())
		if err != nil {
			return nil, err
		}
		out = append(out, grandchildren...)
	}
	return out, nil
}

func (r *memOrgRepository) HasChildren(_ context.Context, id uuid.UUID) (bool, error) {
	for _, org := range r.orgs {
		if org.ParentID() != nil && *org.ParentID() == id {
			return true, nil
		}
	}
	return false, nil
}

// memMembershipRepository keeps memberships in a slice so reads come
// back in insertion order, matching the created_at ordering of the pg
// repository.
type memMembershipRepository struct {
	memberships []*membership.Membership
}

func newMemMembershipRepository() *memMembershipRepository {
	return &memMembershipRepository{}
}

func (r *memMembershipRepository) Get(_ context.Context, orgID uuid.UUID, staffID int64) (*membership.Membership, error) {
	for _, m := range r.memberships {
		if m.OrgID() == orgID && m.StaffID() == staffID {
			return m, nil
		}
	}
	return nil, membership.ErrNotFound
}

func (r *memMembershipRepository) Exists(ctx context.Context, orgID uuid.UUID, staffID int64) (bool, error) {
	_, err := r.Get(ctx, orgID, staffID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *memMembershipRepository) Create(_ context.Context, m *membership.Membership) error {
	r.memberships = append(r.memberships, m)
	return nil
}

func (r *memMembershipRepository) Update(_ context.Context, m *membership.Membership) error {
	for i, existing := range r.memberships {
		if existing.ID() == m.ID() {
			r.memberships[i] = m
			return nil
		}
	}
	return membership.ErrNotFound
}

func (r *memMembershipRepository) Delete(_ context.Context, orgID uuid.UUID, staffID int64) error {
	for i, m := range r.memberships {
		if m.OrgID() == orgID && m.StaffID() == staffID {
			r.memberships = append(r.memberships[:i], r.memberships[i+1:]...)
			return nil
		}
	}
	return membership.ErrNotFound
}

func (r *memMembershipRepository) ByOrg(_ context.Context, orgID uuid.UUID) ([]*membership.Membership, error) {
	out := []*membership.Membership{}
	for _, m := range r.memberships {
		if m.OrgID() == orgID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMembershipRepository) ByStaff(_ context.Context, staffID int64) ([]*membership.Membership, error) {
	out := []*membership.Membership{}
	for _, m := range r.memberships {
		if m.StaffID() == staffID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMembershipRepository) ClearPrimary(_ context.Context, staffID int64) error {
	for _, m := range r.memberships {
		if m.StaffID() == staffID && m.IsPrimary() {
			m.SetPrimary(false)
		}
	}
	return nil
}

func (r *memMembershipRepository) CountByOrg(ctx context.Context, orgID uuid.UUID) (int64, error) {
	members, err := r.ByOrg(ctx, orgID)
	if err != nil {
		return 0, err
	}
	return int64(len(members)), nil
}

type memAssignmentRepository struct {
	assignments map[uuid.UUID]*assignment.ClientAssignment
}

func newMemAssignmentRepository() *memAssignmentRepository {
	return &memAssignmentRepository{assignments: map[uuid.UUID]*assignment.ClientAssignment{}}
}

func (r *memAssignmentRepository) Get(_ context.Context, clientID int64, orgID uuid.UUID) (*assignment.ClientAssignment, error) {
	for _, a := range r.assignments {
		if a.ClientID() == clientID && a.OrgID() == orgID {
			return a, nil
		}
	}
	return nil, assignment.ErrNotFound
}

func (r *memAssignmentRepository) Exists(ctx context.Context, clientID int64, orgID uuid.UUID) (bool, error) {
	_, err := r.Get(ctx, clientID, orgID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *memAssignmentRepository) Create(_ context.Context, a *assignment.ClientAssignment) error {
	r.assignments[a.ID()] = a
	return nil
}

func (r *memAssignmentRepository) Delete(_ context.Context, clientID int64, orgID uuid.UUID) error {
	for id, a := range r.assignments {
		if a.ClientID() == clientID && a.OrgID() == orgID {
			delete(r.assignments, id)
			return nil
		}
	}
	return assignment.ErrNotFound
}

func (r *memAssignmentRepository) ByOrg(_ context.Context, orgID uuid.UUID) ([]*assignment.ClientAssignment, error) {
	out := []*assignment.ClientAssignment{}
	for _, a := range r.assignments {
		if a.OrgID() == orgID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAssignmentRepository) ByOrgs(ctx context.Context, orgIDs []uuid.UUID) ([]*assignment.ClientAssignment, error) {
	out := []*assignment.ClientAssignment{}
	for _, orgID := range orgIDs {
		byOrg, err := r.ByOrg(ctx, orgID)
		if err != nil {
			return nil, err
		}
		out = append(out, byOrg...)
	}
	return out, nil
}

func (r *memAssignmentRepository) ByClient(_ context.Context, clientID int64) ([]*assignment.ClientAssignment, error) {
	out := []*assignment.ClientAssignment{}
	for _, a := range r.assignments {
		if a.ClientID() == clientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAssignmentRepository) CountByOrg(ctx context.Context, orgID uuid.UUID) (int64, error) {
	byOrg, err := r.ByOrg(ctx, orgID)
	if err != nil {
		return 0, err
	}
	return int64(len(byOrg)), nil
}

type memTransferRepository struct {
	transfers map[uuid.UUID]*transfer.Transfer
}

func newMemTransferRepository() *memTransferRepository {
	return &memTransferRepository{transfers: map[uuid.UUID]*transfer.Transfer{}}
}

func (r *memTransferRepository) GetByID(_ context.Context, id uuid.UUID) (*transfer.Transfer, error) {
	t, ok := r.transfers[id]
	if !ok {
		return nil, transfer.ErrNotFound
	}
	return t, nil
}

func (r *memTransferRepository) Create(_ context.Context, t *transfer.Transfer) error {
	r.transfers[t.ID()] = t
	return nil
}

func (r *memTransferRepository) Update(_ context.Context, t *transfer.Transfer) error {
	if _, ok := r.transfers[t.ID()]; !ok {
		return transfer.ErrNotFound
	}
	r.transfers[t.ID()] = t
	return nil
}

func (r *memTransferRepository) HasPending(_ context.Context, clientID int64) (bool, error) {
	for _, t := range r.transfers {
		if t.ClientID() == clientID && t.IsPending() {
			return true, nil
		}
	}
	return false, nil
}

func (r *memTransferRepository) Pending(_ context.Context, orgID uuid.UUID, direction transfer.Direction) ([]*transfer.Transfer, error) {
	out := []*transfer.Transfer{}
	for _, t := range r.transfers {
		if !t.IsPending() {
			continue
		}
		if orgID == uuid.Nil {
			out = append(out, t)
			continue
		}
		switch direction {
		case transfer.DirectionIncoming:
			if t.ToOrgID() == orgID {
				out = append(out, t)
			}
		case transfer.DirectionOutgoing:
			if t.FromOrgID() == orgID {
				out = append(out, t)
			}
		default:
			if t.FromOrgID() == orgID || t.ToOrgID() == orgID {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (r *memTransferRepository) History(_ context.Context, params *transfer.FindParams) ([]*transfer.Transfer, error) {
	out := []*transfer.Transfer{}
	for _, t := range r.transfers {
		if params.OrgID != nil && t.FromOrgID() != *params.OrgID && t.ToOrgID() != *params.OrgID {
			continue
		}
		if params.ClientID != nil && t.ClientID() != *params.ClientID {
			continue
		}
		out = append(out, t)
	}
	if params.Limit > 0 && len(out) > params.Limit {
		out = out[:params.Limit]
	}
	return out, nil
}

func (r *memTransferRepository) CountPendingIncoming(_ context.Context, orgID uuid.UUID) (int64, error) {
	var count int64
	for _, t := range r.transfers {
		if t.IsPending() && t.ToOrgID() == orgID {
			count++
		}
	}
	return count, nil
}

func (r *memTransferRepository) CountPendingOutgoing(_ context.Context, orgID uuid.UUID) (int64, error) {
	var count int64
	for _, t := range r.transfers {
		if t.IsPending() && t.FromOrgID() == orgID {
			count++
		}
	}
	return count, nil
}

type memStaffRepository struct {
	staff map[int64]*staff.Staff
}

func newMemStaffRepository() *memStaffRepository {
	return &memStaffRepository{staff: map[int64]*staff.Staff{}}
}

func (r *memStaffRepository) add(s *staff.Staff) {
	r.staff[s.ID] = s
}

func (r *memStaffRepository) GetByID(_ context.Context, id int64) (*staff.Staff, error) {
	s, ok := r.staff[id]
	if !ok {
		return nil, staff.ErrNotFound
	}
	return s, nil
}

func (r *memStaffRepository) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.staff[id]
	return ok, nil
}

type memClientRepository struct {
	clients map[int64]*client.Client
}

func newMemClientRepository() *memClientRepository {
	return &memClientRepository{clients: map[int64]*client.Client{}}
}

func (r *memClientRepository) add(c *client.Client) {
	r.clients[c.ID] = c
}

func (r *memClientRepository) GetByID(_ context.Context, id int64) (*client.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, client.ErrNotFound
	}
	return c, nil
}

func (r *memClientRepository) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.clients[id]
	return ok, nil
}

type memRevenueRepository struct {
	settlements []SettlementRow
	cases       map[int64][]string
	active      map[int64]bool
}

func newMemRevenueRepository() *memRevenueRepository {
	return &memRevenueRepository{
		cases:  map[int64][]string{},
		active: map[int64]bool{},
	}
}

func (r *memRevenueRepository) CompletedSettlements(_ context.Context, clientIDs []int64, from, to time.Time) ([]SettlementRow, error) {
	ids := map[int64]struct{}{}
	for _, id := range clientIDs {
		ids[id] = struct{}{}
	}
	out := []SettlementRow{}
	for _, row := range r.settlements {
		if _, ok := ids[row.ClientID]; !ok {
			continue
		}
		if row.CompletedAt.Before(from) || row.CompletedAt.After(to) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *memRevenueRepository) CaseCounts(_ context.Context, clientIDs []int64) (int64, int64, error) {
	var total, active int64
	for _, id := range clientIDs {
		for _, status := range r.cases[id] {
			total++
			if status == "active" {
				active++
			}
		}
	}
	return total, active, nil
}

func (r *memRevenueRepository) ActiveClientCount(_ context.Context, clientIDs []int64) (int64, error) {
	var count int64
	for _, id := range clientIDs {
		if r.active[id] {
			count++
		}
	}
	return count, nil
}
