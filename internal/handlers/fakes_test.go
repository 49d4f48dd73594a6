package handlers

import (
	"context"
	"sort"
	"sync"

	"github.com/stridetrack/apiserver/internal/store"
	"github.com/stridetrack/apiserver/types"
)

// In-memory repositories implementing the service interfaces, mirroring the
// SQL-backed behavior in internal/store.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  []types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrDuplicateEmail
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users = append(r.users, user)
	return user, nil
}

type fakeGoalRepo struct {
	mu      sync.Mutex
	nextID  int
	goals   []types.Goal
	entries []types.ProgressEntry
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{nextID: 1}
}

func (r *fakeGoalRepo) Create(ctx context.Context, goal types.Goal) (types.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	goal.ID = r.nextID
	r.nextID++
	goal.CurrentValue = 0
	r.goals = append(r.goals, goal)
	return goal, nil
}

func (r *fakeGoalRepo) GetOwned(ctx context.Context, goalID, userID int) (types.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, goal := range r.goals {
		if goal.ID == goalID && goal.UserID == userID {
			return goal, nil
		}
	}
	return types.Goal{}, store.ErrNotFound
}

func (r *fakeGoalRepo) ListByUser(ctx context.Context, userID int) ([]types.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	goals := make([]types.Goal, 0)
	for _, goal := range r.goals {
		if goal.UserID == userID {
			goals = append(goals, goal)
		}
	}
	sort.SliceStable(goals, func(i, j int) bool {
		return goals[i].Deadline.Before(goals[j].Deadline)
	})
	return goals, nil
}

func (r *fakeGoalRepo) AddProgress(ctx context.Context, goalID int, day types.Date, value float64) (current, target float64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.goals {
		if r.goals[i].ID == goalID {
			r.entries = append(r.entries, types.ProgressEntry{
				ID:         len(r.entries) + 1,
				GoalID:     goalID,
				RecordedOn: day,
				Value:      value,
			})
			r.goals[i].CurrentValue += value
			return r.goals[i].CurrentValue, r.goals[i].TargetValue, nil
		}
	}
	return 0, 0, store.ErrNotFound
}

func (r *fakeGoalRepo) ListProgress(ctx context.Context, goalID int) ([]types.ProgressEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]types.ProgressEntry, 0)
	for _, entry := range r.entries {
		if entry.GoalID == goalID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (r *fakeGoalRepo) Analytics(ctx context.Context, userID int) (types.Analytics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	analytics := types.Analytics{ByCategory: make(map[string]int)}
	var sum float64
	for _, goal := range r.goals {
		if goal.UserID != userID {
			continue
		}
		analytics.TotalGoals++
		progress := goal.ProgressPercent()
		sum += progress
		if progress >= 100 {
			analytics.CompletedGoals++
		}
		analytics.ByCategory[goal.Category]++
	}
	if analytics.TotalGoals > 0 {
		analytics.AverageProgress = sum / float64(analytics.TotalGoals)
	}
	return analytics, nil
}
