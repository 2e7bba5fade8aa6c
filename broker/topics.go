package broker

const (
	TodoEventsTopic = "todo_events"
)

// EventType names a change event published to the broker.
type EventType string

const (
	TodoCreated EventType = "todo.created"
	TodoUpdated EventType = "todo.updated"
	TodoDeleted EventType = "todo.deleted"
)
