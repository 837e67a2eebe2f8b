package assignment

type AssignedEvent struct {
	Assignment *ClientAssignment
}

type UnassignedEvent struct {
	Assignment *ClientAssignment
}

func NewAssignedEvent(a *ClientAssignment) *AssignedEvent {
	return &AssignedEvent{Assignment: a}
}

func NewUnassignedEvent(a *ClientAssignment) *UnassignedEvent {
	return &UnassignedEvent{Assignment: a}
}
