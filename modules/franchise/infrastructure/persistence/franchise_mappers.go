package persistence

import (
	"encoding/json"

	"github.com/go-faster/errors"

	"github.com/creditpath/franchise-sdk/modules/franchise/domain/aggregates/organization"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/assignment"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/membership"
	"github.com/creditpath/franchise-sdk/modules/franchise/domain/entities/transfer"
	"github.com/creditpath/franchise-sdk/modules/franchise/infrastructure/persistence/models"
)

func toDomainOrganization(row *models.Organization) (*organization.Organization, error) {
	settings := map[string]any{}
	if len(row.Settings) > 0 {
		if err := json.Unmarshal(row.Settings, &settings); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal organization settings")
		}
	}
	return organization.New(
		row.Name,
		organization.Type(row.OrgType),
		organization.WithID(row.ID),
		organization.WithSlug(row.Slug),
		organization.WithParentID(row.ParentID),
		organization.WithIsActive(row.IsActive),
		organization.WithSettings(settings),
		organization.WithRevenueSharePercent(row.RevenueSharePercent),
		organization.WithQuotas(row.MaxUsers, row.MaxClients),
		organization.WithTier(organization.Tier(row.Tier)),
		organization.WithContact(row.ContactEmail, row.ContactPhone, row.BillingAddress),
		organization.WithCreatedAt(row.CreatedAt),
		organization.WithUpdatedAt(row.UpdatedAt),
	), nil
}

func toDBOrganization(org *organization.Organization) (*models.Organization, error) {
	settings, err := json.Marshal(org.Settings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal organization settings")
	}
	return &models.Organization{
		ID:                  org.ID(),
		Name:                org.Name(),
		Slug:                org.Slug(),
		OrgType:             string(org.Type()),
		ParentID:            org.ParentID(),
		IsActive:            org.IsActive(),
		Settings:            settings,
		RevenueSharePercent: org.RevenueSharePercent(),
		MaxUsers:            org.MaxUsers(),
		MaxClients:          org.MaxClients(),
		Tier:                string(org.Tier()),
		ContactEmail:        org.ContactEmail(),
		ContactPhone:        org.ContactPhone(),
		BillingAddress:      org.BillingAddress(),
		CreatedAt:           org.CreatedAt(),
		UpdatedAt:           org.UpdatedAt(),
	}, nil
}

func toDomainMembership(row *models.Membership) *membership.Membership {
	return membership.New(
		row.OrganizationID,
		row.StaffID,
		membership.Role(row.Role),
		membership.WithID(row.ID),
		membership.WithPermissions(row.Permissions),
		membership.WithIsPrimary(row.IsPrimary),
		membership.WithCreatedAt(row.CreatedAt),
		membership.WithUpdatedAt(row.UpdatedAt),
	)
}

func toDBMembership(m *membership.Membership) *models.Membership {
	return &models.Membership{
		ID:             m.ID(),
		OrganizationID: m.OrgID(),
		StaffID:        m.StaffID(),
		Role:           string(m.Role()),
		Permissions:    m.Permissions(),
		IsPrimary:      m.IsPrimary(),
		CreatedAt:      m.CreatedAt(),
		UpdatedAt:      m.UpdatedAt(),
	}
}

func toDomainAssignment(row *models.ClientAssignment) *assignment.ClientAssignment {
	return assignment.New(
		row.ClientID,
		row.OrganizationID,
		assignment.WithID(row.ID),
		assignment.WithAssignedBy(row.AssignedBy),
		assignment.WithCreatedAt(row.CreatedAt),
	)
}

func toDBAssignment(a *assignment.ClientAssignment) *models.ClientAssignment {
	return &models.ClientAssignment{
		ID:             a.ID(),
		ClientID:       a.ClientID(),
		OrganizationID: a.OrgID(),
		AssignedBy:     a.AssignedBy(),
		CreatedAt:      a.CreatedAt(),
	}
}

func toDomainTransfer(row *models.Transfer) *transfer.Transfer {
	return transfer.New(
		row.ClientID,
		row.FromOrgID,
		row.ToOrgID,
		transfer.Type(row.TransferType),
		row.RequestedBy,
		transfer.WithID(row.ID),
		transfer.WithReason(row.Reason),
		transfer.WithStatus(transfer.Status(row.Status)),
		transfer.WithApprovedBy(row.ApprovedBy),
		transfer.WithCompletedAt(row.CompletedAt),
		transfer.WithCreatedAt(row.CreatedAt),
	)
}

func toDBTransfer(t *transfer.Transfer) *models.Transfer {
	return &models.Transfer{
		ID:           t.ID(),
		ClientID:     t.ClientID(),
		FromOrgID:    t.FromOrgID(),
		ToOrgID:      t.ToOrgID(),
		TransferType: string(t.Type()),
		Reason:       t.Reason(),
		RequestedBy:  t.RequestedBy(),
		Status:       string(t.Status()),
		ApprovedBy:   t.ApprovedBy(),
		CompletedAt:  t.CompletedAt(),
		CreatedAt:    t.CreatedAt(),
	}
}
