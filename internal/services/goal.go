package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/stridetrack/apiserver/internal/mq"
	"github.com/stridetrack/apiserver/types"
)

// ErrInvalidTarget is returned when a goal's target value is not positive.
var ErrInvalidTarget = errors.New("target value must be positive")

// ErrInvalidIncrement is returned when a progress increment is not positive.
var ErrInvalidIncrement = errors.New("progress value must be positive")

// GoalRepository defines persistence operations for goals and progress.
type GoalRepository interface {
	Create(ctx context.Context, goal types.Goal) (types.Goal, error)
	GetOwned(ctx context.Context, goalID, userID int) (types.Goal, error)
	ListByUser(ctx context.Context, userID int) ([]types.Goal, error)
	AddProgress(ctx context.Context, goalID int, day types.Date, value float64) (current, target float64, err error)
	ListProgress(ctx context.Context, goalID int) ([]types.ProgressEntry, error)
	Analytics(ctx context.Context, userID int) (types.Analytics, error)
}

// GoalService encapsulates goal use-cases. An optional activity feed
// receives goal.created and goal.progress events.
type GoalService struct {
	repo GoalRepository
	feed *mq.MQ
	now  func() time.Time
}

func NewGoalService(repo GoalRepository) *GoalService {
	return &GoalService{repo: repo, now: time.Now}
}

// WithActivityFeed attaches an event feed. Publishing is best-effort and
// never fails the request.
func (s *GoalService) WithActivityFeed(feed *mq.MQ) *GoalService {
	s.feed = feed
	return s
}

// Create inserts a goal with a zero current value. The target must be
// positive so the progress ratio is well defined.
func (s *GoalService) Create(ctx context.Context, goal types.Goal) (types.Goal, error) {
	if goal.TargetValue <= 0 {
		return types.Goal{}, ErrInvalidTarget
	}

	created, err := s.repo.Create(ctx, goal)
	if err != nil {
		return types.Goal{}, err
	}

	s.publish(ctx, types.ActivityEvent{
		Type:       types.EventGoalCreated,
		UserID:     created.UserID,
		GoalID:     created.ID,
		OccurredAt: s.now(),
	})
	return created, nil
}

// LogProgress appends a dated increment to the goal's ledger and returns the
// new progress percentage and current value. The goal lookup is filtered by
// owner, so a foreign goal id fails with the store's not-found error rather
// than anything that would confirm its existence.
func (s *GoalService) LogProgress(ctx context.Context, userID, goalID int, value float64) (progress, current float64, err error) {
	if value <= 0 {
		return 0, 0, ErrInvalidIncrement
	}

	goal, err := s.repo.GetOwned(ctx, goalID, userID)
	if err != nil {
		return 0, 0, err
	}

	current, target, err := s.repo.AddProgress(ctx, goal.ID, types.DateOf(s.now()), value)
	if err != nil {
		return 0, 0, err
	}

	s.publish(ctx, types.ActivityEvent{
		Type:         types.EventProgressLogged,
		UserID:       userID,
		GoalID:       goal.ID,
		Value:        value,
		CurrentValue: current,
		OccurredAt:   s.now(),
	})
	return current / target * 100, current, nil
}

// History returns the progress ledger for one of the caller's goals. The
// same owner-filtered lookup as LogProgress guards it, so a foreign goal id
// fails with the store's not-found error.
func (s *GoalService) History(ctx context.Context, userID, goalID int) ([]types.ProgressEntry, error) {
	goal, err := s.repo.GetOwned(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListProgress(ctx, goal.ID)
}

// List returns the user's goals soonest-deadline first, with progress and
// days-remaining filled in as of today.
func (s *GoalService) List(ctx context.Context, userID int) ([]types.Goal, error) {
	goals, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := types.DateOf(s.now())
	for i := range goals {
		goals[i].Progress = goals[i].ProgressPercent()
		goals[i].DaysRemaining = today.DaysUntil(goals[i].Deadline)
	}
	return goals, nil
}

func (s *GoalService) Analytics(ctx context.Context, userID int) (types.Analytics, error) {
	return s.repo.Analytics(ctx, userID)
}

func (s *GoalService) publish(ctx context.Context, event types.ActivityEvent) {
	if s.feed == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	// Best-effort: a broker outage must not fail the write that already
	// committed.
	_, _ = s.feed.Publish(ctx, event.Type, data, map[string]string{"event": event.Type})
}
