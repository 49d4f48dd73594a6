package types

import "time"

// Goal represents a target a user is tracking.
// Progress toward the target accumulates through append-only progress-log
// entries; the goal row carries the running total.
type Goal struct {
	// ID is the unique identifier of the goal.
	ID int `json:"goalId" db:"id"`

	// UserID identifies the owning user. Every goal belongs to exactly one
	// user and only that user may read or mutate it.
	UserID int `json:"userId" db:"user_id"`

	// Name is the human-readable name of the goal.
	Name string `json:"goalName" db:"name"`

	// Category is a free-form label used for grouping in analytics.
	// The label set is open-ended and case-sensitive.
	Category string `json:"category" db:"category"`

	// TargetValue is the value the user is working toward. Always positive.
	TargetValue float64 `json:"targetValue" db:"target_value"`

	// CurrentValue is the accumulated progress. Starts at zero and only
	// grows; it may exceed TargetValue.
	CurrentValue float64 `json:"currentValue" db:"current_value"`

	// Deadline is the calendar day the user wants the goal done by.
	Deadline Date `json:"deadline" db:"deadline"`

	// Progress is CurrentValue/TargetValue expressed as a percentage.
	// Computed at read time, never stored. May exceed 100.
	Progress float64 `json:"progress" db:"-"`

	// DaysRemaining is the number of whole days until the deadline.
	// Computed at read time; negative once the deadline has passed.
	DaysRemaining int `json:"daysRemaining" db:"-"`

	// CreatedAt is the timestamp when the goal was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ProgressPercent returns CurrentValue as a percentage of TargetValue.
func (g Goal) ProgressPercent() float64 {
	if g.TargetValue == 0 {
		return 0
	}
	return g.CurrentValue / g.TargetValue * 100
}

// ProgressEntry is one record in the append-only progress ledger.
// Multiple entries on the same day are legal and summed.
type ProgressEntry struct {
	// ID is the unique identifier of the entry.
	ID int `json:"id" db:"id"`

	// GoalID identifies the goal this entry belongs to.
	GoalID int `json:"goalId" db:"goal_id"`

	// RecordedOn is the calendar day the increment was logged.
	RecordedOn Date `json:"recordedOn" db:"recorded_on"`

	// Value is the increment. Always positive.
	Value float64 `json:"value" db:"value"`
}

// Analytics is the aggregate view of a user's goals.
type Analytics struct {
	// TotalGoals is the number of goals the user owns.
	TotalGoals int `json:"totalGoals"`

	// CompletedGoals is the number of goals whose progress is at least 100%.
	CompletedGoals int `json:"completedGoals"`

	// AverageProgress is the mean progress percentage across all goals.
	// Zero when the user has no goals.
	AverageProgress float64 `json:"averageProgress"`

	// ByCategory maps each category label to the number of goals carrying it.
	ByCategory map[string]int `json:"byCategory"`
}
