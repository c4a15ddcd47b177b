package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"homework_bot/internal/model"
)

var ignoreNotificationTS = cmpopts.IgnoreFields(model.Notification{}, "CreatedAt")

func newTestDB(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func int64Ptr(v int64) *int64 { return &v }

func TestCycles(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	started := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	cycles := []model.Cycle{
		{ID: "c1", FromDate: 0, CurrentDate: int64Ptr(1700000000), Outcome: model.OutcomeOK, StartedAt: started},
		{ID: "c2", FromDate: 1700000000, Outcome: model.OutcomeError, ErrorKind: "request", Error: "dial tcp: timeout", StartedAt: started.Add(10 * time.Minute)},
		{ID: "c3", FromDate: 1700000000, CurrentDate: int64Ptr(1700000600), Outcome: model.OutcomeError, ErrorKind: "unknown_status", Error: `undocumented homework status: "x"`, StartedAt: started.Add(20 * time.Minute)},
	}
	for i := range cycles {
		if err := s.RecordCycle(ctx, &cycles[i]); err != nil {
			t.Fatalf("record cycle %s: %v", cycles[i].ID, err)
		}
	}

	tests := []struct {
		name  string
		limit int
		want  []model.Cycle
	}{
		{name: "all newest first", limit: 10, want: []model.Cycle{cycles[2], cycles[1], cycles[0]}},
		{name: "limited", limit: 1, want: []model.Cycle{cycles[2]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListCycles(ctx, tt.limit)
			if err != nil {
				t.Fatalf("list cycles: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ListCycles mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecordCycleDefaultsStartedAt(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	c := model.Cycle{ID: "c1", Outcome: model.OutcomeOK}
	if err := s.RecordCycle(ctx, &c); err != nil {
		t.Fatalf("record cycle: %v", err)
	}
	if c.StartedAt.IsZero() {
		t.Error("expected StartedAt to be set")
	}
}

func TestRecordCycleDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	c := model.Cycle{ID: "dup", Outcome: model.OutcomeOK}
	if err := s.RecordCycle(ctx, &c); err != nil {
		t.Fatalf("record cycle: %v", err)
	}
	if err := s.RecordCycle(ctx, &c); err == nil {
		t.Fatal("expected error for duplicate cycle id")
	}
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	notes := []model.Notification{
		{CycleID: "c1", Text: "Новых статусов нет", Delivered: true},
		{CycleID: "c2", Text: `Изменился статус проверки работы "proj1". Работа взята на проверку ревьюером.`, Error: "send message to chat 1: Bad Request"},
	}
	for i := range notes {
		if err := s.RecordNotification(ctx, &notes[i]); err != nil {
			t.Fatalf("record notification %d: %v", i, err)
		}
		if notes[i].ID == 0 {
			t.Fatal("expected non-zero ID")
		}
	}

	got, err := s.ListNotifications(ctx, 10)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}

	want := []model.Notification{notes[1], notes[0]}
	if diff := cmp.Diff(want, got, ignoreNotificationTS); diff != "" {
		t.Errorf("ListNotifications mismatch (-want +got):\n%s", diff)
	}
}

func TestListEmpty(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	cycles, err := s.ListCycles(ctx, 5)
	if err != nil {
		t.Fatalf("list cycles: %v", err)
	}
	notes, err := s.ListNotifications(ctx, 5)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(cycles) != 0 || len(notes) != 0 {
		t.Errorf("expected empty journal, got %d cycles and %d notifications", len(cycles), len(notes))
	}
}

// Ensure the Storage interface is satisfied.
var _ Storage = (*SQLite)(nil)

func TestOpenReadOnly(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	rw, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	if err := rw.RecordNotification(ctx, &model.Notification{CycleID: "c1", Text: "hello", Delivered: true}); err != nil {
		t.Fatalf("record notification: %v", err)
	}
	if err := rw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	ro, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("open read-only: %v", err)
	}
	t.Cleanup(func() { _ = ro.Close() })

	got, err := ro.ListNotifications(ctx, 10)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	want := []model.Notification{{ID: 1, CycleID: "c1", Text: "hello", Delivered: true}}
	if diff := cmp.Diff(want, got, ignoreNotificationTS); diff != "" {
		t.Errorf("notifications mismatch (-want +got):\n%s", diff)
	}

	if err := ro.RecordCycle(ctx, &model.Cycle{ID: "c2", Outcome: model.OutcomeOK}); err == nil {
		t.Error("expected write on read-only journal to fail")
	}
}

func TestOpenReadOnlyMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.db")

	if _, err := OpenReadOnly(path); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected %v, got %v", fs.ErrNotExist, err)
	}
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("journal file was created: %v", err)
	}
}

func TestOpenReadOnlySkipsMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.db")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("write blank db: %v", err)
	}

	ro, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("open read-only: %v", err)
	}
	t.Cleanup(func() { _ = ro.Close() })

	if _, err := ro.ListCycles(context.Background(), 10); err == nil {
		t.Error("expected missing cycles table, schema was created")
	}
}
