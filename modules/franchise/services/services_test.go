package services

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/client"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/staff"
	"github.com/creditpath/franchise-sdk/pkg/eventbus"
)

// testEnv wires every service against in-memory stores. No pool is bound
// to the context, so transactional sections run inline.
type testEnv struct {
	orgs        *memOrgRepository
	memberships *memMembershipRepository
	assignments *memAssignmentRepository
	transfers   *memTransferRepository
	staff       *memStaffRepository
	clients     *memClientRepository
	revenue     *memRevenueRepository

	orgSvc        *OrgService
	membershipSvc *MembershipService
	permissionSvc *PermissionService
	assignmentSvc *AssignmentService
	transferSvc   *TransferService
	revenueSvc    *RevenueService
	limitsSvc     *LimitsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	publisher := eventbus.NewEventPublisher(logger)

	env := &testEnv{
		orgs:        newMemOrgRepository(),
		memberships: newMemMembershipRepository(),
		assignments: newMemAssignmentRepository(),
		transfers:   newMemTransferRepository(),
		staff:       newMemStaffRepository(),
		clients:     newMemClientRepository(),
		revenue:     newMemRevenueRepository(),
	}
	env.orgSvc = NewOrgService(env.orgs, env.memberships, env.assignments, publisher)
	env.membershipSvc = NewMembershipService(env.memberships, env.orgs, env.staff, publisher)
	env.permissionSvc = NewPermissionService(env.memberships, env.orgs, env.staff)
	env.assignmentSvc = NewAssignmentService(env.assignments, env.orgs, env.clients, env.permissionSvc, publisher)
	env.transferSvc = NewTransferService(env.transfers, env.assignments, env.orgs, env.clients, env.staff, publisher)
	env.revenueSvc = NewRevenueService(env.orgs, env.assignments, env.memberships, env.transfers, env.revenue)
	env.limitsSvc = NewLimitsService(env.orgs, env.memberships, env.assignments)
	return env
}

func (e *testEnv) addStaff(id int64, platformAdmin bool) {
	e.staff.add(&staff.Staff{ID: id, Email: "staff@test", PlatformAdmin: platformAdmin})
}

func (e *testEnv) addClient(id int64) {
	e.clients.add(&client.Client{ID: id, Status: client.StatusActive})
}

func requireServiceError(t *testing.T, err error, code string) *ServiceError {
	t.Helper()
	require.Error(t, err)
	svcErr, ok := err.(*ServiceError)
	require.True(t, ok, "expected *ServiceError, got %T: %v", err, err)
	require.Equal(t, code, svcErr.Code)
	return svcErr
}
