package qtable

import (
	"context"
	"path/filepath"
	"testing"

	"aegis-hq/aegis/pkg/remedy"
)

// storageBackends returns the backends under test.
func storageBackends(t *testing.T) map[string]Storage {
	t.Helper()

	sqlite, err := NewSQLiteStorage(SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "qtable.db"),
	})
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Storage{
		"sqlite": sqlite,
		"memory": NewMemoryStorage(),
	}
}

func TestStorage_LoadEmptyReturnsNil(t *testing.T) {
	for name, backend := range storageBackends(t) {
		t.Run(name, func(t *testing.T) {
			snapshot, err := backend.Load(context.Background())
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if snapshot != nil {
				t.Errorf("Load() on empty backend = %+v, want nil", snapshot)
			}
		})
	}
}

func TestStorage_SaveLoadRoundTrip(t *testing.T) {
	for name, backend := range storageBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			table := New()
			table.SetValue(StateDeploymentFailure, remedy.ActionRestart, 0.75)
			table.SetValue(StateLatencyIssue, remedy.ActionScaleUp, 0.5)

			snapshot := table.Snapshot()
			snapshot.Algorithm = "q_learning"

			if err := backend.Save(ctx, snapshot); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			loaded, err := backend.Load(ctx)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if loaded == nil {
				t.Fatal("Load() = nil after Save")
			}
			if loaded.Algorithm != "q_learning" {
				t.Errorf("Algorithm = %q, want q_learning", loaded.Algorithm)
			}
			if v := loaded.Values[StateDeploymentFailure][remedy.ActionRestart]; v != 0.75 {
				t.Errorf("loaded value = %v, want 0.75", v)
			}
			if v := loaded.Values[StateLatencyIssue][remedy.ActionScaleUp]; v != 0.5 {
				t.Errorf("loaded value = %v, want 0.5", v)
			}
		})
	}
}

func TestStorage_SaveOverwrites(t *testing.T) {
	for name, backend := range storageBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			table := New()
			table.SetValue(StateAnomalyScore, remedy.ActionRestart, 0.2)
			if err := backend.Save(ctx, table.Snapshot()); err != nil {
				t.Fatalf("first Save() error = %v", err)
			}

			table.SetValue(StateAnomalyScore, remedy.ActionRestart, 0.9)
			if err := backend.Save(ctx, table.Snapshot()); err != nil {
				t.Fatalf("second Save() error = %v", err)
			}

			loaded, err := backend.Load(ctx)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if v := loaded.Values[StateAnomalyScore][remedy.ActionRestart]; v != 0.9 {
				t.Errorf("loaded value = %v, want 0.9", v)
			}
		})
	}
}

func TestSQLiteStorage_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "qtable.db")

	first, err := NewSQLiteStorage(SQLiteConfig{Path: path})
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}

	table := New()
	table.SetValue(StateAnomalyHealth, remedy.ActionNoop, -1)
	snapshot := table.Snapshot()
	snapshot.Algorithm = "double_q"

	if err := first.Save(ctx, snapshot); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	second, err := NewSQLiteStorage(SQLiteConfig{Path: path})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer second.Close()

	loaded, err := second.Load(ctx)
	if err != nil {
		t.Fatalf("Load() after reopen error = %v", err)
	}
	if loaded == nil {
		t.Fatal("Load() after reopen = nil")
	}
	if loaded.Algorithm != "double_q" {
		t.Errorf("Algorithm = %q, want double_q", loaded.Algorithm)
	}
	if v := loaded.Values[StateAnomalyHealth][remedy.ActionNoop]; v != -1 {
		t.Errorf("loaded value = %v, want -1", v)
	}
}

func TestSQLiteStorage_Ping(t *testing.T) {
	storage, err := NewSQLiteStorage(SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "qtable.db"),
	})
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}

	if err := storage.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v, want nil on open database", err)
	}

	storage.Close()
	if err := storage.Ping(context.Background()); err == nil {
		t.Error("Ping() after Close = nil, want error")
	}
}

func TestCheckpointer_ImmediateCheckpoint(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryStorage()

	table := New()
	table.SetValue(StateLatencyIssue, remedy.ActionScaleUp, 0.4)

	cp := NewCheckpointer(table, backend, "q_learning", "")
	if err := cp.Start(ctx); err != nil {
		t.Fatalf("Start() with empty schedule error = %v", err)
	}

	if err := cp.Checkpoint(ctx); err != nil {
		t.Fatalf("Checkpoint() error = %v", err)
	}

	loaded, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded == nil || loaded.Values[StateLatencyIssue][remedy.ActionScaleUp] != 0.4 {
		t.Errorf("checkpointed snapshot = %+v, want latency_issue/scale_up = 0.4", loaded)
	}
	if loaded.Algorithm != "q_learning" {
		t.Errorf("Algorithm = %q, want q_learning", loaded.Algorithm)
	}
}

func TestCheckpointer_InvalidSchedule(t *testing.T) {
	cp := NewCheckpointer(New(), NewMemoryStorage(), "q_learning", "not a schedule")
	if err := cp.Start(context.Background()); err == nil {
		t.Fatal("Start() expected error for invalid schedule, got nil")
	}
}
