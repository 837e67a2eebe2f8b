package transfer

type RequestedEvent struct {
	Transfer *Transfer
}

type ApprovedEvent struct {
	Transfer *Transfer
}

type RejectedEvent struct {
	Transfer *Transfer
}

func NewRequestedEvent(t *Transfer) *RequestedEvent {
	return &RequestedEvent{Transfer: t}
}

func NewApprovedEvent(t *Transfer) *ApprovedEvent {
	return &ApprovedEvent{Transfer: t}
}

func NewRejectedEvent(t *Transfer) *RejectedEvent {
	return &RejectedEvent{Transfer: t}
}
