package organization

type CreatedEvent struct {
	Org *Organization
}

type UpdatedEvent struct {
	Org *Organization
}

type DeletedEvent struct {
	Org *Organization
}

func NewCreatedEvent(org *Organization) *CreatedEvent {
	return &CreatedEvent{Org: org}
}

func NewUpdatedEvent(org *Organization) *UpdatedEvent {
	return &UpdatedEvent{Org: org}
}

func NewDeletedEvent(org *Organization) *DeletedEvent {
	return &DeletedEvent{Org: org}
}
