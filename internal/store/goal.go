package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/stridetrack/apiserver/types"
)

// GoalRepository handles persistence for goals and their progress log.
type GoalRepository struct {
	db *sql.DB
}

func NewGoalRepository(db *sql.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) Create(ctx context.Context, goal types.Goal) (types.Goal, error) {
	goal.CreatedAt = time.Now()

	const query = `
		INSERT INTO goals (user_id, name, category, target_value, current_value, deadline, created_at)
		VALUES ($1, $2, $3, $4, 0, $5, $6)
		RETURNING id`
	err := r.db.QueryRowContext(
		ctx,
		query,
		goal.UserID,
		goal.Name,
		goal.Category,
		goal.TargetValue,
		goal.Deadline,
		goal.CreatedAt,
	).Scan(&goal.ID)
	if err != nil {
		return types.Goal{}, err
	}
	goal.CurrentValue = 0
	return goal, nil
}

// GetOwned fetches a goal filtered by both goal id and owner id. This is the
// authorization check: a goal owned by another user yields ErrNotFound, the
// same as a goal that does not exist.
func (r *GoalRepository) GetOwned(ctx context.Context, goalID, userID int) (types.Goal, error) {
	const query = `
		SELECT id, user_id, name, category, target_value, current_value, deadline, created_at
		FROM goals
		WHERE id = $1 AND user_id = $2`
	var goal types.Goal
	err := r.db.QueryRowContext(ctx, query, goalID, userID).Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Name,
		&goal.Category,
		&goal.TargetValue,
		&goal.CurrentValue,
		&goal.Deadline,
		&goal.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Goal{}, ErrNotFound
		}
		return types.Goal{}, err
	}
	return goal, nil
}

// ListByUser returns every goal owned by the user, soonest deadline first.
func (r *GoalRepository) ListByUser(ctx context.Context, userID int) ([]types.Goal, error) {
	const query = `
		SELECT id, user_id, name, category, target_value, current_value, deadline, created_at
		FROM goals
		WHERE user_id = $1
		ORDER BY deadline ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := make([]types.Goal, 0)
	for rows.Next() {
		var goal types.Goal
		if err := rows.Scan(
			&goal.ID,
			&goal.UserID,
			&goal.Name,
			&goal.Category,
			&goal.TargetValue,
			&goal.CurrentValue,
			&goal.Deadline,
			&goal.CreatedAt,
		); err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return goals, nil
}

// AddProgress appends a progress-log entry and bumps the goal's running
// total in a single transaction, so the sum of log entries always equals
// current_value. Returns the updated current and target values.
func (r *GoalRepository) AddProgress(ctx context.Context, goalID int, day types.Date, value float64) (current, target float64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertQuery = `
		INSERT INTO progress_log (goal_id, recorded_on, value)
		VALUES ($1, $2, $3)`
	if _, err = tx.ExecContext(ctx, insertQuery, goalID, day, value); err != nil {
		return 0, 0, err
	}

	const updateQuery = `
		UPDATE goals
		SET current_value = current_value + $1
		WHERE id = $2
		RETURNING current_value, target_value`
	if err = tx.QueryRowContext(ctx, updateQuery, value, goalID).Scan(&current, &target); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return 0, 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit progress update: %w", err)
	}
	return current, target, nil
}

// ListProgress returns the progress ledger for a goal in insertion order.
func (r *GoalRepository) ListProgress(ctx context.Context, goalID int) ([]types.ProgressEntry, error) {
	const query = `
		SELECT id, goal_id, recorded_on, value
		FROM progress_log
		WHERE goal_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]types.ProgressEntry, 0)
	for rows.Next() {
		var entry types.ProgressEntry
		if err := rows.Scan(&entry.ID, &entry.GoalID, &entry.RecordedOn, &entry.Value); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Analytics aggregates the user's goals. AverageProgress coalesces to zero
// when the user has no goals.
func (r *GoalRepository) Analytics(ctx context.Context, userID int) (types.Analytics, error) {
	const summaryQuery = `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE current_value / target_value * 100 >= 100),
			COALESCE(AVG(current_value / target_value * 100), 0)
		FROM goals
		WHERE user_id = $1`
	var analytics types.Analytics
	err := r.db.QueryRowContext(ctx, summaryQuery, userID).Scan(
		&analytics.TotalGoals,
		&analytics.CompletedGoals,
		&analytics.AverageProgress,
	)
	if err != nil {
		return types.Analytics{}, err
	}

	const categoryQuery = `
		SELECT category, COUNT(*)
		FROM goals
		WHERE user_id = $1
		GROUP BY category`
	rows, err := r.db.QueryContext(ctx, categoryQuery, userID)
	if err != nil {
		return types.Analytics{}, err
	}
	defer rows.Close()

	analytics.ByCategory = make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return types.Analytics{}, err
		}
		analytics.ByCategory[category] = count
	}
	if err := rows.Err(); err != nil {
		return types.Analytics{}, err
	}
	return analytics, nil
}
