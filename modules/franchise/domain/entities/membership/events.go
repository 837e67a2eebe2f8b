package membership

type AddedEvent struct {
	Member *Membership
}

type UpdatedEvent struct {
	Member *Membership
}

type RemovedEvent struct {
	Member *Membership
}

func NewAddedEvent(m *Membership) *AddedEvent {
	return &AddedEvent{Member: m}
}

func NewUpdatedEvent(m *Membership) *UpdatedEvent {
	return &UpdatedEvent{Member: m}
}

func NewRemovedEvent(m *Membership) *RemovedEvent {
	return &RemovedEvent{Member: m}
}
