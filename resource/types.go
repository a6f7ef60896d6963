package resource

// Resource is a native object with an initialize/clear lifecycle.
// Both report whether the native call succeeded.
type Resource interface {
	Initialize() bool
	Clear() bool
}

// Event types for resource lifecycle notifications.
type EventType uint8

const (
	EventInitialized EventType = iota
	EventInitFailed
	EventCleared
	EventClearFailed
)

func (t EventType) String() string {
	switch t {
	case EventInitialized:
		return "initialized"
	case EventInitFailed:
		return "init_failed"
	case EventCleared:
		return "cleared"
	case EventClearFailed:
		return "clear_failed"
	default:
		return "unknown"
	}
}

// Event represents a resource lifecycle event.
type Event struct {
	Value any
	Kind  string // resource type, e.g. "*mecab.Mecab"
	Type  EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnResourceEvent(e Event) { f(e) }
