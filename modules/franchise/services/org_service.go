package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/creditpath/franchise-sdk/modules/franchise/domain/aggregates/organization"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/assignment"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/membership"
	"github.com/creditpath/franchise-sdk/pkg/eventbus"
)

var hundred = decimal.NewFromInt(100)

// OrgService owns the organization tree: creation, updates, soft
// deletion and hierarchy reads.
type OrgService struct {
	repo        organization.Repository
	memberships membership.Repository
	assignments assignment.Repository
	publisher   eventbus.EventBus
}

func NewOrgService(
	repo organization.Repository,
	memberships membership.Repository,
	assignments assignment.Repository,
	publisher eventbus.EventBus,
) *OrgService {
	return &OrgService{
		repo:        repo,
		memberships: memberships,
		assignments: assignments,
		publisher:   publisher,
	}
}

type CreateOrgInput struct {
	Name                string
	Type                organization.Type
	ParentID            *uuid.UUID
	Slug                string
	Settings            map[string]any
	RevenueSharePercent decimal.Decimal
	MaxUsers            *int
	MaxClients          *int
	Tier                organization.Tier
	ContactEmail        string
	ContactPhone        string
	BillingAddress      string
}

func (s *OrgService) Create(ctx context.Context, in CreateOrgInput) (*organization.Organization, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, errValidation("name is required")
	}
	if !in.Type.IsValid() {
		return nil, errValidation("unknown org_type: " + string(in.Type))
	}
	if in.Tier == "" {
		in.Tier = organization.TierStarter
	}
	if !in.Tier.IsValid() {
		return nil, errValidation("unknown subscription tier: " + string(in.Tier))
	}
	if in.RevenueSharePercent.IsNegative() || in.RevenueSharePercent.GreaterThan(hundred) {
		return nil, errValidation("revenue_share_percent must be between 0 and 100")
	}

	org, err := inTx(ctx, func(txCtx context.Context) (*organization.Organization, error) {
		if in.ParentID != nil {
			parent, err := s.repo.GetByID(txCtx, *in.ParentID)
			if err != nil {
				if errors.Is(err, organization.ErrNotFound) {
					return nil, errNotFound("parent organization not found", err)
				}
				return nil, mapPgError(err)
			}
			if in.Type.Level() <= parent.Level() {
				return nil, errHierarchyViolation("child level must be deeper than parent level")
			}
		}

		slug, err := s.resolveSlug(txCtx, in.Slug, in.Name, uuid.Nil)
		if err != nil {
			return nil, err
		}

		maxUsers := in.Tier.DefaultMaxUsers()
		if in.MaxUsers != nil {
			maxUsers = *in.MaxUsers
		}
		maxClients := in.Tier.DefaultMaxClients()
		if in.MaxClients != nil {
			maxClients = *in.MaxClients
		}
		settings := in.Settings
		if settings == nil {
			settings = map[string]any{}
		}

		org := organization.New(
			in.Name,
			in.Type,
			organization.WithSlug(slug),
			organization.WithParentID(in.ParentID),
			organization.WithSettings(settings),
			organization.WithRevenueSharePercent(in.RevenueSharePercent),
			organization.WithQuotas(maxUsers, maxClients),
			organization.WithTier(in.Tier),
			organization.WithContact(in.ContactEmail, in.ContactPhone, in.BillingAddress),
		)
		if err := s.repo.Create(txCtx, org); err != nil {
			return nil, mapPgError(err)
		}
		return org, nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(organization.NewCreatedEvent(org))
	return org, nil
}

type UpdateOrgInput struct {
	Name                *string
	Type                *organization.Type
	ParentID            **uuid.UUID
	Slug                *string
	IsActive            *bool
	Settings            map[string]any
	RevenueSharePercent *decimal.Decimal
	MaxUsers            *int
	MaxClients          *int
	Tier                *organization.Tier
	ContactEmail        *string
	ContactPhone        *string
	BillingAddress      *string
}

func (s *OrgService) Update(ctx context.Context, id uuid.UUID, in UpdateOrgInput) (*organization.Organization, error) {
	if in.Type != nil && !in.Type.IsValid() {
		return nil, errValidation("unknown org_type: " + string(*in.Type))
	}
	if in.Tier != nil && !in.Tier.IsValid() {
		return nil, errValidation("unknown subscription tier: " + string(*in.Tier))
	}
	if in.RevenueSharePercent != nil &&
		(in.RevenueSharePercent.IsNegative() || in.RevenueSharePercent.GreaterThan(hundred)) {
		return nil, errValidation("revenue_share_percent must be between 0 and 100")
	}

	org, err := inTx(ctx, func(txCtx context.Context) (*organization.Organization, error) {
		org, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, organization.ErrNotFound) {
				return nil, errNotFound("organization not found", err)
			}
			return nil, mapPgError(err)
		}

		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return nil, errValidation("name is required")
			}
			org.SetName(name)
		}
		if in.Type != nil {
			org.SetType(*in.Type)
		}
		if in.ParentID != nil {
			org.SetParentID(*in.ParentID)
		}

		// Level depth is re-validated whenever the parent or type
		// changed, upward against the parent and downward against
		// existing children, so neither re-parenting nor a type change
		// can break the hierarchy.
		if in.ParentID != nil || in.Type != nil {
			if org.ParentID() != nil {
				parent, err := s.repo.GetByID(txCtx, *org.ParentID())
				if err != nil {
					if errors.Is(err, organization.ErrNotFound) {
						return nil, errNotFound("parent organization not found", err)
					}
					return nil, mapPgError(err)
				}
				if parent.ID() == org.ID() {
					return nil, errHierarchyViolation("organization cannot be its own parent")
				}
				if org.Level() <= parent.Level() {
					return nil, errHierarchyViolation("child level must be deeper than parent level")
				}
			}
			if in.Type != nil {
				children, err := s.repo.ChildrenOf(txCtx, org.ID())
				if err != nil {
					return nil, mapPgError(err)
				}
				for _, child := range children {
					if child.Level() <= org.Level() {
						return nil, errHierarchyViolation("existing children would not be deeper than parent level")
					}
				}
			}
		}

		if in.Slug != nil {
			slug, err := s.resolveSlug(txCtx, *in.Slug, org.Name(), org.ID())
			if err != nil {
				return nil, err
			}
			org.SetSlug(slug)
		}
		if in.IsActive != nil {
			org.SetActive(*in.IsActive)
		}
		if in.Settings != nil {
			org.SetSettings(in.Settings)
		}
		if in.RevenueSharePercent != nil {
			org.SetRevenueSharePercent(*in.RevenueSharePercent)
		}
		if in.MaxUsers != nil || in.MaxClients != nil {
			maxUsers, maxClients := org.MaxUsers(), org.MaxClients()
			if in.MaxUsers != nil {
				maxUsers = *in.MaxUsers
			}
			if in.MaxClients != nil {
				maxClients = *in.MaxClients
			}
			org.SetQuotas(maxUsers, maxClients)
		}
		if in.Tier != nil {
			org.SetTier(*in.Tier)
		}
		if in.ContactEmail != nil || in.ContactPhone != nil || in.BillingAddress != nil {
			email, phone, billing := org.ContactEmail(), org.ContactPhone(), org.BillingAddress()
			if in.ContactEmail != nil {
				email = *in.ContactEmail
			}
			if in.ContactPhone != nil {
				phone = *in.ContactPhone
			}
			if in.BillingAddress != nil {
				billing = *in.BillingAddress
			}
			org.SetContact(email, phone, billing)
		}

		if err := s.repo.Update(txCtx, org); err != nil {
			return nil, mapPgError(err)
		}
		return org, nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(organization.NewUpdatedEvent(org))
	return org, nil
}

// Delete soft-deletes an organization. Organizations with children
// cannot be deleted; rows are never removed.
func (s *OrgService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	org, err := inTx(ctx, func(txCtx context.Context) (*organization.Organization, error) {
		org, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, organization.ErrNotFound) {
				return nil, errNotFound("organization not found", err)
			}
			return nil, mapPgError(err)
		}
		hasChildren, err := s.repo.HasChildren(txCtx, id)
		if err != nil {
			return nil, mapPgError(err)
		}
		if hasChildren {
			return nil, errConflict(CodeHasChildren, "organization has child organizations")
		}
		org.SetActive(false)
		if err := s.repo.Update(txCtx, org); err != nil {
			return nil, mapPgError(err)
		}
		return org, nil
	})
	if err != nil {
		return false, err
	}

	s.publisher.Publish(organization.NewDeletedEvent(org))
	return true, nil
}

func (s *OrgService) GetByID(ctx context.Context, id uuid.UUID) (*organization.Organization, error) {
	org, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, organization.ErrNotFound) {
			return nil, errNotFound("organization not found", err)
		}
		return nil, mapPgError(err)
	}
	return org, nil
}

// OrgTreeNode is one node of the nested hierarchy, carrying aggregate
// counts for the organization itself.
type OrgTreeNode struct {
	Org         *organization.Organization
	MemberCount int64
	ClientCount int64
	Children    []*OrgTreeNode
}

// Hierarchy builds the nested tree depth-first. With a nil root it
// builds one tree per top-level organization.
func (s *OrgService) Hierarchy(ctx context.Context, rootID *uuid.UUID) ([]*OrgTreeNode, error) {
	var roots []*organization.Organization
	if rootID == nil {
		var err error
		roots, err = s.repo.Roots(ctx)
		if err != nil {
			return nil, mapPgError(err)
		}
	} else {
		org, err := s.GetByID(ctx, *rootID)
		if err != nil {
			return nil, err
		}
		roots = []*organization.Organization{org}
	}

	nodes := make([]*OrgTreeNode, 0, len(roots))
	for _, root := range roots {
		node, err := s.buildTree(ctx, root)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (s *OrgService) buildTree(ctx context.Context, org *organization.Organization) (*OrgTreeNode, error) {
	memberCount, err := s.memberships.CountByOrg(ctx, org.ID())
	if err != nil {
		return nil, mapPgError(err)
	}
	clientCount, err := s.assignments.CountByOrg(ctx, org.ID())
	if err != nil {
		return nil, mapPgError(err)
	}

	node := &OrgTreeNode{
		Org:         org,
		MemberCount: memberCount,
		ClientCount: clientCount,
	}

	children, err := s.repo.ChildrenOf(ctx, org.ID())
	if err != nil {
		return nil, mapPgError(err)
	}
	for _, child := range children {
		childNode, err := s.buildTree(ctx, child)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, childNode)
	}
	return node, nil
}

// Descendants returns one level of children, or the whole subtree when
// recursive is true.
func (s *OrgService) Descendants(ctx context.Context, id uuid.UUID, recursive bool) ([]*organization.Organization, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if !recursive {
		children, err := s.repo.ChildrenOf(ctx, id)
		if err != nil {
			return nil, mapPgError(err)
		}
		return children, nil
	}
	descendants, err := s.repo.Descendants(ctx, id)
	if err != nil {
		return nil, mapPgError(err)
	}
	return descendants, nil
}

// resolveSlug returns the slug to store. A caller-supplied slug must be
// free; a generated one gets numeric suffixes until it is unique.
func (s *OrgService) resolveSlug(ctx context.Context, supplied, name string, excludeID uuid.UUID) (string, error) {
	if supplied != "" {
		taken, err := s.repo.SlugExists(ctx, supplied, excludeID)
		if err != nil {
			return "", mapPgError(err)
		}
		if taken {
			return "", errConflict(CodeDuplicateSlug, "slug already exists: "+supplied)
		}
		return supplied, nil
	}

	base := organization.Slugify(name)
	if base == "" {
		base = "org"
	}
	candidate := base
	for n := 1; ; n++ {
		taken, err := s.repo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", mapPgError(err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = organization.SlugWithSuffix(base, n)
	}
}
