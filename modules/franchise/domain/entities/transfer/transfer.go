package transfer

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Status follows pending -> {approved, rejected}; both outcomes are
// terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Type string

const (
	TypeReferral     Type = "referral"
	TypeEscalation   Type = "escalation"
	TypeReassignment Type = "reassignment"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeReferral, TypeEscalation, TypeReassignment:
		return true
	}
	return false
}

// Direction selects which side of a transfer an organization is on when
// listing.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
	DirectionBoth     Direction = "both"
)

var ErrNotPending = errors.New("transfer is not pending")

type Transfer struct {
	id           uuid.UUID
	clientID     int64
	fromOrgID    uuid.UUID
	toOrgID      uuid.UUID
	transferType Type
	reason       string
	requestedBy  int64
	status       Status
	approvedBy   *int64
	completedAt  *time.Time
	createdAt    time.Time
}

type Option func(*Transfer)

func WithID(id uuid.UUID) Option {
	return func(t *Transfer) {
		t.id = id
	}
}

func WithReason(reason string) Option {
	return func(t *Transfer) {
		t.reason = reason
	}
}

func WithStatus(status Status) Option {
	return func(t *Transfer) {
		t.status = status
	}
}

func WithApprovedBy(staffID *int64) Option {
	return func(t *Transfer) {
		t.approvedBy = staffID
	}
}

func WithCompletedAt(completedAt *time.Time) Option {
	return func(t *Transfer) {
		t.completedAt = completedAt
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(t *Transfer) {
		t.createdAt = createdAt
	}
}

func New(clientID int64, fromOrgID, toOrgID uuid.UUID, transferType Type, requestedBy int64, opts ...Option) *Transfer {
	t := &Transfer{
		id:           uuid.New(),
		clientID:     clientID,
		fromOrgID:    fromOrgID,
		toOrgID:      toOrgID,
		transferType: transferType,
		requestedBy:  requestedBy,
		status:       StatusPending,
		createdAt:    time.Now(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Transfer) ID() uuid.UUID { return t.id }

func (t *Transfer) ClientID() int64 { return t.clientID }

func (t *Transfer) FromOrgID() uuid.UUID { return t.fromOrgID }

func (t *Transfer) ToOrgID() uuid.UUID { return t.toOrgID }

func (t *Transfer) Type() Type { return t.transferType }

func (t *Transfer) Reason() string { return t.reason }

func (t *Transfer) RequestedBy() int64 { return t.requestedBy }

func (t *Transfer) Status() Status { return t.status }

func (t *Transfer) ApprovedBy() *int64 { return t.approvedBy }

func (t *Transfer) CompletedAt() *time.Time { return t.completedAt }

func (t *Transfer) CreatedAt() time.Time { return t.createdAt }

func (t *Transfer) IsPending() bool { return t.status == StatusPending }

// Approve moves the transfer to its approved terminal state.
func (t *Transfer) Approve(approvedBy int64, completedAt time.Time) error {
	if t.status != StatusPending {
		return ErrNotPending
	}
	t.status = StatusApproved
	t.approvedBy = &approvedBy
	t.completedAt = &completedAt
	return nil
}

// Reject moves the transfer to its rejected terminal state.
func (t *Transfer) Reject(approvedBy int64, completedAt time.Time) error {
	if t.status != StatusPending {
		return ErrNotPending
	}
	t.status = StatusRejected
	t.approvedBy = &approvedBy
	t.completedAt = &completedAt
	return nil
}
