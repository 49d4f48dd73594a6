package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stridetrack/apiserver/internal/mq"
	"github.com/stridetrack/apiserver/internal/store"
	"github.com/stridetrack/apiserver/types"
)

type memGoalRepo struct {
	mu     sync.Mutex
	nextID int
	goals  map[int]*types.Goal
	ledger []types.ProgressEntry
}

func newMemGoalRepo() *memGoalRepo {
	return &memGoalRepo{nextID: 1, goals: make(map[int]*types.Goal)}
}

func (r *memGoalRepo) Create(ctx context.Context, goal types.Goal) (types.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	goal.ID = r.nextID
	r.nextID++
	goal.CurrentValue = 0
	r.goals[goal.ID] = &goal
	return goal, nil
}

func (r *memGoalRepo) GetOwned(ctx context.Context, goalID, userID int) (types.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	goal, ok := r.goals[goalID]
	if !ok || goal.UserID != userID {
		return types.Goal{}, store.ErrNotFound
	}
	return *goal, nil
}

func (r *memGoalRepo) ListByUser(ctx context.Context, userID int) ([]types.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var goals []types.Goal
	for _, goal := range r.goals {
		if goal.UserID == userID {
			goals = append(goals, *goal)
		}
	}
	return goals, nil
}

func (r *memGoalRepo) AddProgress(ctx context.Context, goalID int, day types.Date, value float64) (float64, float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	goal, ok := r.goals[goalID]
	if !ok {
		return 0, 0, store.ErrNotFound
	}
	r.ledger = append(r.ledger, types.ProgressEntry{GoalID: goalID, RecordedOn: day, Value: value})
	goal.CurrentValue += value
	return goal.CurrentValue, goal.TargetValue, nil
}

func (r *memGoalRepo) ListProgress(ctx context.Context, goalID int) ([]types.ProgressEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var entries []types.ProgressEntry
	for _, entry := range r.ledger {
		if entry.GoalID == goalID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (r *memGoalRepo) Analytics(ctx context.Context, userID int) (types.Analytics, error) {
	return types.Analytics{ByCategory: map[string]int{}}, nil
}

// recordingBackend captures published feed messages.
type recordingBackend struct {
	mu       sync.Mutex
	messages map[string][][]byte
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{messages: make(map[string][][]byte)}
}

func (b *recordingBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages[channel] = append(b.messages[channel], data)
	return "msg-1", nil
}

func (b *recordingBackend) Subscribe(ctx context.Context, channel string, handler mq.Handler) error {
	return errors.New("not implemented")
}

func (b *recordingBackend) Close() error { return nil }

func fixedClock(t *testing.T) func() time.Time {
	t.Helper()
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func TestCreateRejectsNonPositiveTarget(t *testing.T) {
	service := NewGoalService(newMemGoalRepo())

	for _, target := range []float64{0, -5} {
		_, err := service.Create(context.Background(), types.Goal{UserID: 1, Name: "Bad", TargetValue: target})
		if !errors.Is(err, ErrInvalidTarget) {
			t.Errorf("target %v: expected ErrInvalidTarget, got %v", target, err)
		}
	}
}

func TestLogProgressLedgerMatchesCurrentValue(t *testing.T) {
	repo := newMemGoalRepo()
	service := NewGoalService(repo)
	service.now = fixedClock(t)

	goal, err := service.Create(context.Background(), types.Goal{UserID: 1, Name: "Read", TargetValue: 10, Deadline: types.NewDate(2025, time.July, 1)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	increments := []float64{4, 3, 3}
	var sum float64
	var current float64
	for _, value := range increments {
		sum += value
		_, current, err = service.LogProgress(context.Background(), 1, goal.ID, value)
		if err != nil {
			t.Fatalf("log progress %v: %v", value, err)
		}
	}

	if current != sum {
		t.Fatalf("current value %v does not match ledger sum %v", current, sum)
	}
	var ledgerSum float64
	for _, entry := range repo.ledger {
		ledgerSum += entry.Value
	}
	if ledgerSum != current {
		t.Fatalf("ledger sum %v does not match current value %v", ledgerSum, current)
	}
}

func TestListComputesDerivedFields(t *testing.T) {
	repo := newMemGoalRepo()
	service := NewGoalService(repo)
	service.now = fixedClock(t)

	goal, err := service.Create(context.Background(), types.Goal{
		UserID:      1,
		Name:        "Read",
		TargetValue: 10,
		Deadline:    types.NewDate(2025, time.June, 11),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, _, err := service.LogProgress(context.Background(), 1, goal.ID, 4); err != nil {
		t.Fatalf("log progress: %v", err)
	}

	goals, err := service.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(goals) != 1 {
		t.Fatalf("expected 1 goal, got %d", len(goals))
	}
	if goals[0].Progress != 40 {
		t.Fatalf("expected progress 40, got %v", goals[0].Progress)
	}
	if goals[0].DaysRemaining != 10 {
		t.Fatalf("expected 10 days remaining, got %d", goals[0].DaysRemaining)
	}
}

func TestActivityFeedReceivesEvents(t *testing.T) {
	repo := newMemGoalRepo()
	backend := newRecordingBackend()
	service := NewGoalService(repo).WithActivityFeed(mq.New(backend))
	service.now = fixedClock(t)

	goal, err := service.Create(context.Background(), types.Goal{UserID: 7, Name: "Run", TargetValue: 100, Deadline: types.NewDate(2025, time.December, 31)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, _, err := service.LogProgress(context.Background(), 7, goal.ID, 12); err != nil {
		t.Fatalf("log progress: %v", err)
	}

	created := backend.messages[types.EventGoalCreated]
	if len(created) != 1 {
		t.Fatalf("expected 1 goal.created event, got %d", len(created))
	}

	logged := backend.messages[types.EventProgressLogged]
	if len(logged) != 1 {
		t.Fatalf("expected 1 goal.progress event, got %d", len(logged))
	}
	var event types.ActivityEvent
	if err := json.Unmarshal(logged[0], &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event.UserID != 7 || event.GoalID != goal.ID || event.Value != 12 || event.CurrentValue != 12 {
		t.Fatalf("unexpected event: %+v", event)
	}
}
