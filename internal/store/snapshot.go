package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/stridetrack/apiserver/types"
)

// Snapshot is a full dump of the persisted state, used by the backup command.
type Snapshot struct {
	TakenAt  time.Time             `json:"taken_at"`
	Users    []SnapshotUser        `json:"users"`
	Goals    []types.Goal          `json:"goals"`
	Progress []types.ProgressEntry `json:"progress"`
}

// SnapshotUser mirrors types.User for backup serialization. types.User hides
// the password hash from API responses; a restorable backup must keep it.
type SnapshotUser struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// SnapshotRepository reads whole tables for backup purposes.
type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Dump reads users, goals and the progress log inside one read-only
// transaction so the snapshot is internally consistent.
func (r *SnapshotRepository) Dump(ctx context.Context) (Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return Snapshot{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	snapshot := Snapshot{TakenAt: time.Now()}

	rows, err := tx.QueryContext(ctx, `SELECT id, name, email, password_hash, created_at FROM users ORDER BY id`)
	if err != nil {
		return Snapshot{}, err
	}
	for rows.Next() {
		var user SnapshotUser
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
			rows.Close()
			return Snapshot{}, err
		}
		snapshot.Users = append(snapshot.Users, user)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return Snapshot{}, err
	}
	rows.Close()

	rows, err = tx.QueryContext(ctx, `SELECT id, user_id, name, category, target_value, current_value, deadline, created_at FROM goals ORDER BY id`)
	if err != nil {
		return Snapshot{}, err
	}
	for rows.Next() {
		var goal types.Goal
		if err := rows.Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.Category, &goal.TargetValue, &goal.CurrentValue, &goal.Deadline, &goal.CreatedAt); err != nil {
			rows.Close()
			return Snapshot{}, err
		}
		snapshot.Goals = append(snapshot.Goals, goal)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return Snapshot{}, err
	}
	rows.Close()

	rows, err = tx.QueryContext(ctx, `SELECT id, goal_id, recorded_on, value FROM progress_log ORDER BY id`)
	if err != nil {
		return Snapshot{}, err
	}
	for rows.Next() {
		var entry types.ProgressEntry
		if err := rows.Scan(&entry.ID, &entry.GoalID, &entry.RecordedOn, &entry.Value); err != nil {
			rows.Close()
			return Snapshot{}, err
		}
		snapshot.Progress = append(snapshot.Progress, entry)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return Snapshot{}, err
	}
	rows.Close()

	return snapshot, nil
}
