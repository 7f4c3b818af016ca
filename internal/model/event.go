package model

import "time"

// EventUserCreated is the event kind emitted after a user is committed.
const EventUserCreated = "USER_CREATED"

// UserCreatedEvent is the message body published to the user.created queue.
// The ID is a ULID assigned by the publisher so consumers can de-duplicate.
type UserCreatedEvent struct {
	ID        string    `json:"id"`
	Event     string    `json:"event"`
	Data      *User     `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}
