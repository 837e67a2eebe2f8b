package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/creditpath/franchise-sdk/modules/franchise/domain/aggregates/organization"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/transfer"
)

// twoBranches builds HQ with two branches and one client assigned to the
// first branch.
func twoBranches(t *testing.T, env *testEnv) (branch1, branch2 *organization.Organization) {
	t.Helper()
	ctx := context.Background()

	hq, err := env.orgSvc.Create(ctx, CreateOrgInput{Name: "HQ", Type: organization.TypeHeadquarters})
	require.NoError(t, err)
	hqID := hq.ID()

	branch1, err = env.orgSvc.Create(ctx, CreateOrgInput{
		Name: "Branch One", Type: organization.TypeBranch, ParentID: &hqID,
	})
	require.NoError(t, err)
	branch2, err = env.orgSvc.Create(ctx, CreateOrgInput{
		Name: "Branch Two", Type: organization.TypeBranch, ParentID: &hqID,
	})
	require.NoError(t, err)

	env.addStaff(1, false)
	env.addClient(100)
	_, err = env.assignmentSvc.Assign(ctx, 100, branch1.ID(), nil)
	require.NoError(t, err)
	return branch1, branch2
}

func TestTransferService_Request(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	branch1, branch2 := twoBranches(t, env)

	tr, err := env.transferSvc.Request(ctx, RequestTransferInput{
		ClientID:    100,
		FromOrgID:   branch1.ID(),
		ToOrgID:     branch2.ID(),
		Type:        transfer.TypeReferral,
		Reason:      "client moved cities",
		RequestedBy: 1,
	})
	require.NoError(t, err)
	require.True(t, tr.IsPending())
	require.Equal(t, transfer.TypeReferral, tr.Type())
}

func TestTransferService_Request_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	branch1, branch2 := twoBranches(t, env)

	_, err := env.transferSvc.Request(ctx, RequestTransferInput{
		ClientID: 100, FromOrgID: branch1.ID(), ToOrgID: branch2.ID(),
		Type: transfer.Type("demotion"), RequestedBy: 1,
	})
	requireServiceError(t, err, CodeValidation)

	_, err = env.transferSvc.Request(ctx, RequestTransferInput{
		ClientID: 100, FromOrgID: branch1.ID(), ToOrgID: branch1.ID(),
		Type: transfer.TypeReferral, RequestedBy: 1,
	})
	requireServiceError(t, err, CodeValidation)

	// Client assigned elsewhere, not to the claimed source.
	_, err = env.transferSvc.Request(ctx, RequestTransferInput{
		ClientID: 100, FromOrgID: branch2.ID(), ToOrgID: branch1.ID(),
		Type: transfer.TypeReferral, RequestedBy: 1,
	})
	requireServiceError(t, err, CodeValidation)

	_, err = env.transferSvc.Request(ctx, RequestTransferInput{
		ClientID: 999, FromOrgID: branch1.ID(), ToOrgID: branch2.ID(),
		Type: transfer.TypeReferral, RequestedBy: 1,
	})
	requireServiceError(t, err, CodeNotFound)
}

func TestTransferService_DuplicatePending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	branch1, branch2 := twoBranches(t, env)

	_, err := env.transferSvc.Request(ctx, RequestTransferInput{
		ClientID: 100, FromOrgID: branch1.ID(), ToOrgID: branch2.ID(),
		Type: transfer.TypeReferral, RequestedBy: 1,
	})
	require.NoError(t, err)

	_, err = env.transferSvc.Request(ctx, RequestTransferInput{
		ClientID: 100, FromOrgID: branch1.ID(), ToOrgID: branch2.ID(),
		Type: transfer.TypeEscalation, RequestedBy: 1,
	})
	requireServiceError(t, err, CodeDuplicatePending)
}

func TestTransferService_ApproveMovesClient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	branch1, branch2 := twoBranches(t, env)
	env.addStaff(2, false)

	tr, err := env.transferSvc.Request(ctx, RequestTransferInput{
		ClientID: 100, FromOrgID: branch1.ID(), ToOrgID: branch2.ID(),
		Type: transfer.TypeReassignment, RequestedBy: 1,
	})
	require.NoError(t, err)

	approved, err := env.transferSvc.Approve(ctx, tr.ID(), 2, true)
	require.NoError(t, err)
	require.Equal(t, transfer.StatusApproved, approved.Status())
	require.Equal(t, int64(2), *approved.ApprovedBy())
	require.NotNil(t, approved.CompletedAt())

	fromClients, err := env.assignmentSvc.ClientsOf(ctx, branch1.ID(), false)
	require.NoError(t, err)
	require.Empty(t, fromClients)

	toClients, err := env.assignmentSvc.ClientsOf(ctx, branch2.ID(), false)
	require.NoError(t, err)
	require.Len(t, toClients, 1)
	require.Equal(t, int64(100), toClients[0].ClientID())
	require.Equal(t, int64(2), *toClients[0].AssignedBy())

	clientID := int64(100)
	history, err := env.transferSvc.History(ctx, &transfer.FindParams{ClientID: &clientID})
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, transfer.StatusApproved, history[0].Status())
}

func TestTransferService_RejectLeavesLedgerUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	branch1, branch2 := twoBranches(t, env)
	env.addStaff(2, false)

	tr, err := env.transferSvc.Request(ctx, RequestTransferInput{
		ClientID: 100, FromOrgID: branch1.ID(), ToOrgID: branch2.ID(),
		Type: transfer.TypeReferral, RequestedBy: 1,
	})
	require.NoError(t, err)

	rejected, err := env.transferSvc.Approve(ctx, tr.ID(), 2, false)
	require.NoError(t, err)
	require.Equal(t, transfer.StatusRejected, rejected.Status())

	fromClients, err := env.assignmentSvc.ClientsOf(ctx, branch1.ID(), false)
	require.NoError(t, err)
	require.Len(t, fromClients, 1)

	toClients, err := env.assignmentSvc.ClientsOf(ctx, branch2.ID(), false)
	require.NoError(t, err)
	require.Empty(t, toClients)
}

func TestTransferService_ApproveNonPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	branch1, branch2 := twoBranches(t, env)
	env.addStaff(2, false)

	tr, err := env.transferSvc.Request(ctx, RequestTransferInput{
		ClientID: 100, FromOrgID: branch1.ID(), ToOrgID: branch2.ID(),
		Type: transfer.TypeReferral, RequestedBy: 1,
	})
	require.NoError(t, err)

	_, err = env.transferSvc.Approve(ctx, tr.ID(), 2, false)
	require.NoError(t, err)

	_, err = env.transferSvc.Approve(ctx, tr.ID(), 2, true)
	requireServiceError(t, err, CodeInvalidTransition)
}

func TestTransferService_Pending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	branch1, branch2 := twoBranches(t, env)

	_, err := env.transferSvc.Request(ctx, RequestTransferInput{
		ClientID: 100, FromOrgID: branch1.ID(), ToOrgID: branch2.ID(),
		Type: transfer.TypeReferral, RequestedBy: 1,
	})
	require.NoError(t, err)

	branch1ID := branch1.ID()
	outgoing, err := env.transferSvc.Pending(ctx, &branch1ID, transfer.DirectionOutgoing)
	require.NoError(t, err)
	require.Len(t, outgoing, 1)

	incoming, err := env.transferSvc.Pending(ctx, &branch1ID, transfer.DirectionIncoming)
	require.NoError(t, err)
	require.Empty(t, incoming)

	all, err := env.transferSvc.Pending(ctx, nil, "")
	require.NoError(t, err)
	require.Len(t, all, 1)

	_, err = env.transferSvc.Pending(ctx, &branch1ID, transfer.Direction("sideways"))
	requireServiceError(t, err, CodeValidation)
}
