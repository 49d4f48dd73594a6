package types

import "time"

// Activity event kinds published to the event feed.
const (
	EventGoalCreated    = "goal.created"
	EventProgressLogged = "goal.progress"
)

// ActivityEvent is the payload published to the activity feed whenever a
// goal is created or progress is logged. Consumers must tolerate unknown
// fields; the feed is append-only and best-effort.
type ActivityEvent struct {
	// Type is one of the Event* constants.
	Type string `json:"type"`

	// UserID identifies the acting user.
	UserID int `json:"userId"`

	// GoalID identifies the goal the event concerns.
	GoalID int `json:"goalId"`

	// Value is the logged increment. Zero for goal.created.
	Value float64 `json:"value,omitempty"`

	// CurrentValue is the goal's running total after the event.
	CurrentValue float64 `json:"currentValue,omitempty"`

	// OccurredAt is the server-side time of the event.
	OccurredAt time.Time `json:"occurredAt"`
}
