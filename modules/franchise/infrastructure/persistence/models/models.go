package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Organization struct {
	ID                  uuid.UUID
	Name                string
	Slug                string
	OrgType             string
	ParentID            *uuid.UUID
	IsActive            bool
	Settings            []byte
	RevenueSharePercent decimal.Decimal
	MaxUsers            int
	MaxClients          int
	Tier                string
	ContactEmail        string
	ContactPhone        string
	BillingAddress      string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type Membership struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	StaffID        int64
	Role           string
	Permissions    []string
	IsPrimary      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type ClientAssignment struct {
	ID             uuid.UUID
	ClientID       int64
	OrganizationID uuid.UUID
	AssignedBy     *int64
	CreatedAt      time.Time
}

type Transfer struct {
	ID           uuid.UUID
	ClientID     int64
	FromOrgID    uuid.UUID
	ToOrgID      uuid.UUID
	TransferType string
	Reason       string
	RequestedBy  int64
	Status       string
	ApprovedBy   *int64
	CompletedAt  *time.Time
	CreatedAt    time.Time
}
