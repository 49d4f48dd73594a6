package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stridetrack/apiserver/types"
)

func TestSnapshotKeepsPasswordHash(t *testing.T) {
	snapshot := Snapshot{
		TakenAt: time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC),
		Users: []SnapshotUser{
			{
				ID:           1,
				Name:         "Ana",
				Email:        "ana@x.com",
				PasswordHash: "$2a$10$bcrypt-hash",
				CreatedAt:    time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		Goals: []types.Goal{
			{ID: 1, UserID: 1, Name: "Read", Category: "personal", TargetValue: 10, CurrentValue: 4, Deadline: types.NewDate(2025, time.July, 1)},
		},
		Progress: []types.ProgressEntry{
			{ID: 1, GoalID: 1, RecordedOn: types.NewDate(2025, time.June, 1), Value: 4},
		},
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}

	var restored Snapshot
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}

	if len(restored.Users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(restored.Users))
	}
	if restored.Users[0].PasswordHash != "$2a$10$bcrypt-hash" {
		t.Fatalf("password hash lost in round trip: %+v", restored.Users[0])
	}
	if len(restored.Goals) != 1 || restored.Goals[0].CurrentValue != 4 {
		t.Fatalf("goals lost in round trip: %+v", restored.Goals)
	}
	if len(restored.Progress) != 1 || restored.Progress[0].Value != 4 {
		t.Fatalf("progress lost in round trip: %+v", restored.Progress)
	}
}
