package membership

import (
	"time"

	"github.com/google/uuid"
)

// Role is the staff member's role inside one organization.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleStaff:
		return true
	}
	return false
}

// InheritsDownward reports whether the role's authority extends over
// descendant organizations.
func (r Role) InheritsDownward() bool {
	return r == RoleOwner || r == RoleManager
}

type Membership struct {
	id          uuid.UUID
	orgID       uuid.UUID
	staffID     int64
	role        Role
	permissions []string
	isPrimary   bool
	createdAt   time.Time
	updatedAt   time.Time
}

type Option func(*Membership)

func WithID(id uuid.UUID) Option {
	return func(m *Membership) {
		m.id = id
	}
}

func WithPermissions(permissions []string) Option {
	return func(m *Membership) {
		m.permissions = permissions
	}
}

func WithIsPrimary(isPrimary bool) Option {
	return func(m *Membership) {
		m.isPrimary = isPrimary
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(m *Membership) {
		m.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(m *Membership) {
		m.updatedAt = updatedAt
	}
}

func New(orgID uuid.UUID, staffID int64, role Role, opts ...Option) *Membership {
	m := &Membership{
		id:        uuid.New(),
		orgID:     orgID,
		staffID:   staffID,
		role:      role,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Membership) ID() uuid.UUID { return m.id }

func (m *Membership) OrgID() uuid.UUID { return m.orgID }

func (m *Membership) StaffID() int64 { return m.staffID }

func (m *Membership) Role() Role { return m.role }

// Permissions are extra grants on top of the role's base set.
func (m *Membership) Permissions() []string { return m.permissions }

func (m *Membership) IsPrimary() bool { return m.isPrimary }

func (m *Membership) CreatedAt() time.Time { return m.createdAt }

func (m *Membership) UpdatedAt() time.Time { return m.updatedAt }

func (m *Membership) SetRole(role Role) {
	m.role = role
	m.updatedAt = time.Now()
}

func (m *Membership) SetPermissions(permissions []string) {
	m.permissions = permissions
	m.updatedAt = time.Now()
}

func (m *Membership) SetPrimary(isPrimary bool) {
	m.isPrimary = isPrimary
	m.updatedAt = time.Now()
}
