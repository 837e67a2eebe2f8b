package permissions

import (
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/access"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/membership"
)

const (
	OrgView          = "org.view"
	OrgManage        = "org.manage"
	MembersView      = "members.view"
	MembersManage    = "members.manage"
	ClientsView      = "clients.view"
	ClientsManage    = "clients.manage"
	TransfersRequest = "transfers.request"
	TransfersApprove = "transfers.approve"
	ReportsView      = "reports.view"
	BillingManage    = "billing.manage"
)

// Base permission sets per role. Owner covers everything an organization
// can do; manager everything but billing and org structure; staff the
// day-to-day client work.
var rolePermissions = map[membership.Role][]string{
	membership.RoleOwner: {
		OrgView, OrgManage,
		MembersView, MembersManage,
		ClientsView, ClientsManage,
		TransfersRequest, TransfersApprove,
		ReportsView, BillingManage,
	},
	membership.RoleManager: {
		OrgView,
		MembersView, MembersManage,
		ClientsView, ClientsManage,
		TransfersRequest, TransfersApprove,
		ReportsView,
	},
	membership.RoleStaff: {
		OrgView,
		ClientsView, ClientsManage,
		TransfersRequest,
	},
}

// ForRole returns the role's base permission set.
func ForRole(role membership.Role) access.Permissions {
	return access.NewPermissions(rolePermissions[role]...)
}
