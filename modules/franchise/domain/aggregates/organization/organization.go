package organization

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type is the organization's place in the franchise hierarchy. Levels are
// strict: a child's level must be greater than its parent's.
type Type string

const (
	TypeHeadquarters Type = "headquarters"
	TypeRegional     Type = "regional"
	TypeBranch       Type = "branch"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeHeadquarters, TypeRegional, TypeBranch:
		return true
	}
	return false
}

// Level returns the numeric depth of the type, -1 for unknown types.
func (t Type) Level() int {
	switch t {
	case TypeHeadquarters:
		return 0
	case TypeRegional:
		return 1
	case TypeBranch:
		return 2
	}
	return -1
}

// Tier is the subscription tier controlling member/client quotas.
type Tier string

const (
	TierStarter      Tier = "starter"
	TierProfessional Tier = "professional"
	TierEnterprise   Tier = "enterprise"
)

func (t Tier) IsValid() bool {
	switch t {
	case TierStarter, TierProfessional, TierEnterprise:
		return true
	}
	return false
}

// DefaultMaxUsers returns the tier's user quota. 0 means unlimited.
func (t Tier) DefaultMaxUsers() int {
	switch t {
	case TierStarter:
		return 5
	case TierProfessional:
		return 25
	}
	return 0
}

// DefaultMaxClients returns the tier's client quota. 0 means unlimited.
func (t Tier) DefaultMaxClients() int {
	switch t {
	case TierStarter:
		return 100
	case TierProfessional:
		return 1000
	}
	return 0
}

type Organization struct {
	id                  uuid.UUID
	name                string
	slug                string
	orgType             Type
	parentID            *uuid.UUID
	isActive            bool
	settings            map[string]any
	revenueSharePercent decimal.Decimal
	maxUsers            int
	maxClients          int
	tier                Tier
	contactEmail        string
	contactPhone        string
	billingAddress      string
	createdAt           time.Time
	updatedAt           time.Time
}

type Option func(*Organization)

func WithID(id uuid.UUID) Option {
	return func(o *Organization) {
		o.id = id
	}
}

func WithSlug(slug string) Option {
	return func(o *Organization) {
		o.slug = slug
	}
}

func WithParentID(parentID *uuid.UUID) Option {
	return func(o *Organization) {
		o.parentID = parentID
	}
}

func WithIsActive(isActive bool) Option {
	return func(o *Organization) {
		o.isActive = isActive
	}
}

func WithSettings(settings map[string]any) Option {
	return func(o *Organization) {
		o.settings = settings
	}
}

func WithRevenueSharePercent(percent decimal.Decimal) Option {
	return func(o *Organization) {
		o.revenueSharePercent = percent
	}
}

func WithQuotas(maxUsers, maxClients int) Option {
	return func(o *Organization) {
		o.maxUsers = maxUsers
		o.maxClients = maxClients
	}
}

func WithTier(tier Tier) Option {
	return func(o *Organization) {
		o.tier = tier
	}
}

func WithContact(email, phone, billingAddress string) Option {
	return func(o *Organization) {
		o.contactEmail = email
		o.contactPhone = phone
		o.billingAddress = billingAddress
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(o *Organization) {
		o.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(o *Organization) {
		o.updatedAt = updatedAt
	}
}

func New(name string, orgType Type, opts ...Option) *Organization {
	o := &Organization{
		id:        uuid.New(),
		name:      name,
		orgType:   orgType,
		isActive:  true,
		settings:  map[string]any{},
		tier:      TierStarter,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Organization) ID() uuid.UUID { return o.id }

func (o *Organization) Name() string { return o.name }

func (o *Organization) Slug() string { return o.slug }

func (o *Organization) Type() Type { return o.orgType }

// Level is the numeric depth of the organization's type.
func (o *Organization) Level() int { return o.orgType.Level() }

func (o *Organization) ParentID() *uuid.UUID { return o.parentID }

func (o *Organization) IsActive() bool { return o.isActive }

func (o *Organization) Settings() map[string]any { return o.settings }

func (o *Organization) RevenueSharePercent() decimal.Decimal { return o.revenueSharePercent }

func (o *Organization) MaxUsers() int { return o.maxUsers }

func (o *Organization) MaxClients() int { return o.maxClients }

func (o *Organization) Tier() Tier { return o.tier }

func (o *Organization) ContactEmail() string { return o.contactEmail }

func (o *Organization) ContactPhone() string { return o.contactPhone }

func (o *Organization) BillingAddress() string { return o.billingAddress }

func (o *Organization) CreatedAt() time.Time { return o.createdAt }

func (o *Organization) UpdatedAt() time.Time { return o.updatedAt }

func (o *Organization) SetName(name string) {
	o.name = name
	o.touch()
}

func (o *Organization) SetSlug(slug string) {
	o.slug = slug
	o.touch()
}

func (o *Organization) SetType(orgType Type) {
	o.orgType = orgType
	o.touch()
}

func (o *Organization) SetParentID(parentID *uuid.UUID) {
	o.parentID = parentID
	o.touch()
}

func (o *Organization) SetActive(isActive bool) {
	o.isActive = isActive
	o.touch()
}

func (o *Organization) SetSettings(settings map[string]any) {
	o.settings = settings
	o.touch()
}

func (o *Organization) SetRevenueSharePercent(percent decimal.Decimal) {
	o.revenueSharePercent = percent
	o.touch()
}

func (o *Organization) SetQuotas(maxUsers, maxClients int) {
	o.maxUsers = maxUsers
	o.maxClients = maxClients
	o.touch()
}

func (o *Organization) SetTier(tier Tier) {
	o.tier = tier
	o.touch()
}

func (o *Organization) SetContact(email, phone, billingAddress string) {
	o.contactEmail = email
	o.contactPhone = phone
	o.billingAddress = billingAddress
	o.touch()
}

func (o *Organization) touch() {
	o.updatedAt = time.Now()
}
