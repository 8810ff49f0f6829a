package models

// Priority is the urgency level of a task.
type Priority int

// Priority levels, lowest to highest.
const (
	PriorityNone Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

// DefaultPriority is assigned to tasks created without an explicit priority.
const DefaultPriority = PriorityNone

// Valid reports whether p is a known priority level.
func (p Priority) Valid() bool {
	return p >= PriorityNone && p <= PriorityCritical
}

// String returns the lowercase display name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "none"
	}
}

// Color returns the hex color used to render the priority in the TUI.
func (p Priority) Color() string {
	switch p {
	case PriorityLow:
		return "#22C55E"
	case PriorityMedium:
		return "#EAB308"
	case PriorityHigh:
		return "#F97316"
	case PriorityCritical:
		return "#EF4444"
	default:
		return "#6B7280"
	}
}

// ParsePriority converts a display name back to a Priority.
// Unknown names map to PriorityNone.
func ParsePriority(s string) Priority {
	switch s {
	case "low":
		return PriorityLow
	case "medium":
		return PriorityMedium
	case "high":
		return PriorityHigh
	case "critical":
		return PriorityCritical
	default:
		return PriorityNone
	}
}
