package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/creditpath/franchise-sdk/modules/franchise/domain/aggregates/organization"
)

func TestOrgService_Create_GeneratesUniqueSlugs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.orgSvc.Create(ctx, CreateOrgInput{
		Name: "Test & Co.",
		Type: organization.TypeHeadquarters,
	})
	require.NoError(t, err)
	require.Equal(t, "test-co", first.Slug())

	second, err := env.orgSvc.Create(ctx, CreateOrgInput{
		Name: "Test & Co.",
		Type: organization.TypeHeadquarters,
	})
	require.NoError(t, err)
	require.Equal(t, "test-co-1", second.Slug())

	third, err := env.orgSvc.Create(ctx, CreateOrgInput{
		Name: "Test & Co.",
		Type: organization.TypeHeadquarters,
	})
	require.NoError(t, err)
	require.Equal(t, "test-co-2", third.Slug())
}

func TestOrgService_Create_ExplicitSlugConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.orgSvc.Create(ctx, CreateOrgInput{
		Name: "First",
		Type: organization.TypeHeadquarters,
		Slug: "taken",
	})
	require.NoError(t, err)

	_, err = env.orgSvc.Create(ctx, CreateOrgInput{
		Name: "Second",
		Type: organization.TypeHeadquarters,
		Slug: "taken",
	})
	requireServiceError(t, err, CodeDuplicateSlug)
}

func TestOrgService_Create_LevelInvariant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	hq, err := env.orgSvc.Create(ctx, CreateOrgInput{
		Name: "HQ",
		Type: organization.TypeHeadquarters,
	})
	require.NoError(t, err)

	hqID := hq.ID()
	_, err = env.orgSvc.Create(ctx, CreateOrgInput{
		Name:     "Second HQ",
		Type:     organization.TypeHeadquarters,
		ParentID: &hqID,
	})
	requireServiceError(t, err, CodeHierarchyViolation)

	branch, err := env.orgSvc.Create(ctx, CreateOrgInput{
		Name:     "Branch",
		Type:     organization.TypeBranch,
		ParentID: &hqID,
	})
	require.NoError(t, err)

	branchID := branch.ID()
	_, err = env.orgSvc.Create(ctx, CreateOrgInput{
		Name:     "Region under branch",
		Type:     organization.TypeRegional,
		ParentID: &branchID,
	})
	requireServiceError(t, err, CodeHierarchyViolation)
}

func TestOrgService_Create_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.orgSvc.Create(ctx, CreateOrgInput{Name: "  ", Type: organization.TypeBranch})
	requireServiceError(t, err, CodeValidation)

	_, err = env.orgSvc.Create(ctx, CreateOrgInput{Name: "X", Type: organization.Type("cooperative")})
	requireServiceError(t, err, CodeValidation)

	_, err = env.orgSvc.Create(ctx, CreateOrgInput{
		Name:                "X",
		Type:                organization.TypeBranch,
		RevenueSharePercent: decimal.NewFromInt(150),
	})
	requireServiceError(t, err, CodeValidation)

	missing := uuid.New()
	_, err = env.orgSvc.Create(ctx, CreateOrgInput{
		Name:     "X",
		Type:     organization.TypeBranch,
		ParentID: &missing,
	})
	requireServiceError(t, err, CodeNotFound)
}

func TestOrgService_Create_TierDefaultsQuotas(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	starter, err := env.orgSvc.Create(ctx, CreateOrgInput{
		Name: "Starter Org",
		Type: organization.TypeHeadquarters,
	})
	require.NoError(t, err)
	require.Equal(t, organization.TierStarter, starter.Tier())
	require.Equal(t, 5, starter.MaxUsers())
	require.Equal(t, 100, starter.MaxClients())

	maxUsers := 3
	custom, err := env.orgSvc.Create(ctx, CreateOrgInput{
		Name:     "Custom Org",
		Type:     organization.TypeHeadquarters,
		Tier:     organization.TierEnterprise,
		MaxUsers: &maxUsers,
	})
	require.NoError(t, err)
	require.Equal(t, 3, custom.MaxUsers())
	require.Equal(t, 0, custom.MaxClients())
}

func TestOrgService_Update_ReparentRevalidatesLevel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	hq, err := env.orgSvc.Create(ctx, CreateOrgInput{Name: "HQ", Type: organization.TypeHeadquarters})
	require.NoError(t, err)
	hqID := hq.ID()

	region, err := env.orgSvc.Create(ctx, CreateOrgInput{
		Name:     "Region",
		Type:     organization.TypeRegional,
		ParentID: &hqID,
	})
	require.NoError(t, err)
	regionID := region.ID()

	branch, err := env.orgSvc.Create(ctx, CreateOrgInput{
		Name:     "Branch",
		Type:     organization.TypeBranch,
		ParentID: &regionID,
	})
	require.NoError(t, err)
	branchID := branch.ID()

	// Region cannot move under a branch.
	newParent := &branchID
	_, err = env.orgSvc.Update(ctx, regionID, UpdateOrgInput{ParentID: &newParent})
	requireServiceError(t, err, CodeHierarchyViolation)

	// A branch can move between regions.
	region2, err := env.orgSvc.Create(ctx, CreateOrgInput{
		Name:     "Region Two",
		Type:     organization.TypeRegional,
		ParentID: &hqID,
	})
	require.NoError(t, err)
	region2ID := region2.ID()

	moveTo := &region2ID
	updated, err := env.orgSvc.Update(ctx, branchID, UpdateOrgInput{ParentID: &moveTo})
	require.NoError(t, err)
	require.Equal(t, region2ID, *updated.ParentID())
}

func TestOrgService_Update_TypeChangeRevalidatesChildLevels(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	hq, err := env.orgSvc.Create(ctx, CreateOrgInput{Name: "HQ", Type: organization.TypeHeadquarters})
	require.NoError(t, err)
	hqID := hq.ID()

	region, err := env.orgSvc.Create(ctx, CreateOrgInput{
		Name:     "Region",
		Type:     organization.TypeRegional,
		ParentID: &hqID,
	})
	require.NoError(t, err)
	regionID := region.ID()

	_, err = env.orgSvc.Create(ctx, CreateOrgInput{
		Name:     "Branch",
		Type:     organization.TypeBranch,
		ParentID: &regionID,
	})
	require.NoError(t, err)

	// Region has a branch child, so demoting it to branch would leave
	// the child at the same level as its parent.
	demote := organization.TypeBranch
	_, err = env.orgSvc.Update(ctx, regionID, UpdateOrgInput{Type: &demote})
	requireServiceError(t, err, CodeHierarchyViolation)

	// A childless branch directly under HQ can be promoted.
	lone, err := env.orgSvc.Create(ctx, CreateOrgInput{
		Name:     "Lone Branch",
		Type:     organization.TypeBranch,
		ParentID: &hqID,
	})
	require.NoError(t, err)

	promote := organization.TypeRegional
	updated, err := env.orgSvc.Update(ctx, lone.ID(), UpdateOrgInput{Type: &promote})
	require.NoError(t, err)
	require.Equal(t, organization.TypeRegional, updated.Type())
}

func TestOrgService_Update_SlugExcludesSelf(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	org, err := env.orgSvc.Create(ctx, CreateOrgInput{Name: "Alpha", Type: organization.TypeHeadquarters})
	require.NoError(t, err)

	slug := "alpha"
	updated, err := env.orgSvc.Update(ctx, org.ID(), UpdateOrgInput{Slug: &slug})
	require.NoError(t, err)
	require.Equal(t, "alpha", updated.Slug())
}

func TestOrgService_Delete_SoftDeletesLeaf(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	hq, err := env.orgSvc.Create(ctx, CreateOrgInput{Name: "HQ", Type: organization.TypeHeadquarters})
	require.NoError(t, err)
	hqID := hq.ID()

	branch, err := env.orgSvc.Create(ctx, CreateOrgInput{
		Name:     "Branch",
		Type:     organization.TypeBranch,
		ParentID: &hqID,
	})
	require.NoError(t, err)

	_, err = env.orgSvc.Delete(ctx, hqID)
	requireServiceError(t, err, CodeHasChildren)

	ok, err := env.orgSvc.Delete(ctx, branch.ID())
	require.NoError(t, err)
	require.True(t, ok)

	got, err := env.orgSvc.GetByID(ctx, branch.ID())
	require.NoError(t, err)
	require.False(t, got.IsActive())

	// The soft-deleted branch row still has the parent, so the parent
	// keeps refusing deletion.
	_, err = env.orgSvc.Delete(ctx, hqID)
	requireServiceError(t, err, CodeHasChildren)
}

func TestOrgService_Hierarchy_BuildsTreeWithCounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	hq, err := env.orgSvc.Create(ctx, CreateOrgInput{Name: "HQ", Type: organization.TypeHeadquarters})
	require.NoError(t, err)
	hqID := hq.ID()

	region, err := env.orgSvc.Create(ctx, CreateOrgInput{
		Name:     "Region",
		Type:     organization.TypeRegional,
		ParentID: &hqID,
	})
	require.NoError(t, err)
	regionID := region.ID()

	_, err = env.orgSvc.Create(ctx, CreateOrgInput{
		Name:     "Branch",
		Type:     organization.TypeBranch,
		ParentID: &regionID,
	})
	require.NoError(t, err)

	nodes, err := env.orgSvc.Hierarchy(ctx, nil)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Equal(t, hqID, nodes[0].Org.ID())
	require.Len(t, nodes[0].Children, 1)
	require.Len(t, nodes[0].Children[0].Children, 1)

	subtree, err := env.orgSvc.Hierarchy(ctx, &regionID)
	require.NoError(t, err)
	require.Len(t, subtree, 1)
	require.Equal(t, regionID, subtree[0].Org.ID())
}
