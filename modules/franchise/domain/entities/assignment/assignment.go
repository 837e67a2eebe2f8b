package assignment

import (
	"time"

	"github.com/google/uuid"
)

// ClientAssignment records which organization owns a client. A client has
// one assignment row per organization it was explicitly placed in.
type ClientAssignment struct {
	id         uuid.UUID
	clientID   int64
	orgID      uuid.UUID
	assignedBy *int64
	createdAt  time.Time
}

type Option func(*ClientAssignment)

func WithID(id uuid.UUID) Option {
	return func(a *ClientAssignment) {
		a.id = id
	}
}

func WithAssignedBy(staffID *int64) Option {
	return func(a *ClientAssignment) {
		a.assignedBy = staffID
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(a *ClientAssignment) {
		a.createdAt = createdAt
	}
}

func New(clientID int64, orgID uuid.UUID, opts ...Option) *ClientAssignment {
	a := &ClientAssignment{
		id:        uuid.New(),
		clientID:  clientID,
		orgID:     orgID,
		createdAt: time.Now(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *ClientAssignment) ID() uuid.UUID { return a.id }

func (a *ClientAssignment) ClientID() int64 { return a.clientID }

func (a *ClientAssignment) OrgID() uuid.UUID { return a.orgID }

func (a *ClientAssignment) AssignedBy() *int64 { return a.assignedBy }

func (a *ClientAssignment) CreatedAt() time.Time { return a.createdAt }
