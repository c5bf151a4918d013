package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/satprep/internal/audit"
	"github.com/abhisek/satprep/internal/bank"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "satprep.db")
	s, err := Open(context.Background(), DriverSQLite, path)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	if _, err := Open(context.Background(), Driver("mysql"), "x"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func sampleRecord(created time.Time) *RunRecord {
	return &RunRecord{
		Run: Run{
			CreatedAt:       created,
			Source:          "data/questions.json",
			TargetPerBucket: 40,
			Total:           2,
			Warnings:        1,
			Errors:          1,
		},
		Issues: []bank.Issue{
			{
				Level: bank.LevelError, Code: bank.CodeAnswerMismatch, Message: "expected 40",
				ID: "g1", Section: bank.SectionMath, Topic: bank.TopicGeometry, Difficulty: bank.DifficultyEasy,
				Context: map[string]any{"expected": "40", "recorded": "35"},
			},
			{
				Level: bank.LevelWarn, Code: bank.CodeBucketUnderTarget, Message: "short",
				Section: bank.SectionMath, Topic: bank.TopicGeometry, Difficulty: bank.DifficultyEasy,
			},
		},
		Rows: []audit.MatrixRow{
			{ID: "g1", Section: "math", Topic: "Geometry", Difficulty: "easy", Template: "rectangle_area",
				HasVisual: true, VisualType: "svg", VisualShape: "rectangle", AnswerIndex: 2,
				CorrectChoice: "35", Fingerprint: "abc", Valid: true},
			{ID: "g2", Section: "math", Topic: "Geometry", Difficulty: "easy", Template: "manual",
				AnswerIndex: 0, CorrectChoice: "1,200", Fingerprint: "def"},
		},
	}
}

func TestRunSaveAndList(t *testing.T) {
	s := openTestStore(t)
	repo := s.Runs()
	ctx := context.Background()

	runs, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("list (empty): %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got %d", len(runs))
	}

	now := time.Now().UTC().Truncate(time.Second)
	rec := sampleRecord(now)
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	if rec.Run.ID == "" {
		t.Fatal("expected a generated run id")
	}

	runs, err = repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	got := runs[0]
	if got.ID != rec.Run.ID || got.Total != 2 || got.Warnings != 1 || got.Errors != 1 || got.TargetPerBucket != 40 {
		t.Errorf("run = %+v, want %+v", got, rec.Run)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, now)
	}
}

func TestRunIssuesAndRows(t *testing.T) {
	s := openTestStore(t)
	repo := s.Runs()
	ctx := context.Background()

	rec := sampleRecord(time.Now())
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	issues, err := repo.Issues(ctx, rec.Run.ID)
	if err != nil {
		t.Fatalf("issues: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("issues = %d, want 2", len(issues))
	}
	if issues[0].Code != bank.CodeAnswerMismatch || issues[0].ID != "g1" || issues[0].Level != bank.LevelError {
		t.Errorf("issue[0] = %+v", issues[0])
	}
	if issues[0].Context["recorded"] != "35" {
		t.Errorf("issue[0] context = %v", issues[0].Context)
	}
	if issues[1].Context != nil {
		t.Errorf("issue[1] context = %v, want nil", issues[1].Context)
	}

	rows, err := repo.Rows(ctx, rec.Run.ID)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0] != rec.Rows[0] || rows[1] != rec.Rows[1] {
		t.Errorf("rows = %+v, want %+v", rows, rec.Rows)
	}

	none, err := repo.Issues(ctx, "missing")
	if err != nil {
		t.Fatalf("issues (missing run): %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no issues for unknown run, got %d", len(none))
	}
}

func TestRunListNewestFirstWithLimit(t *testing.T) {
	s := openTestStore(t)
	repo := s.Runs()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		rec := sampleRecord(base.Add(time.Duration(i) * time.Minute))
		rec.Run.Total = i + 1
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	runs, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if runs[0].Total != 3 || runs[1].Total != 2 {
		t.Errorf("order = %d, %d; want 3, 2", runs[0].Total, runs[1].Total)
	}
}

func TestRunPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.Runs()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	var oldest string
	for i := 0; i < 7; i++ {
		rec := sampleRecord(base.Add(time.Duration(i) * time.Minute))
		rec.Run.Total = i + 1
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		if i == 0 {
			oldest = rec.Run.ID
		}
	}

	if err := repo.Prune(ctx, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}

	runs, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 5 {
		t.Errorf("remaining runs = %d, want 5", len(runs))
	}
	if runs[0].Total != 7 {
		t.Errorf("newest total = %d, want 7", runs[0].Total)
	}

	var orphans int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM audit_issues WHERE run_id = ?`, oldest).Scan(&orphans); err != nil {
		t.Fatalf("count issues: %v", err)
	}
	if orphans != 0 {
		t.Errorf("issues left for pruned run = %d", orphans)
	}

	// Pruning with fewer runs than keep is a no-op.
	if err := repo.Prune(ctx, 10); err != nil {
		t.Fatalf("prune (no-op): %v", err)
	}
}

func TestResolveDSN(t *testing.T) {
	t.Setenv("SATPREP_DB", filepath.Join(t.TempDir(), "env", "satprep.db"))

	tests := []struct {
		in         string
		wantDriver Driver
	}{
		{"postgres://localhost:5432/satprep?sslmode=disable", DriverPostgres},
		{"postgresql://u@db/satprep", DriverPostgres},
		{"/tmp/audit.db", DriverSQLite},
		{"", DriverSQLite},
	}
	for _, tt := range tests {
		driver, dsn, err := ResolveDSN(tt.in)
		if err != nil {
			t.Fatalf("ResolveDSN(%q): %v", tt.in, err)
		}
		if driver != tt.wantDriver {
			t.Errorf("ResolveDSN(%q) driver = %s, want %s", tt.in, driver, tt.wantDriver)
		}
		if tt.in != "" && dsn != tt.in {
			t.Errorf("ResolveDSN(%q) dsn = %q", tt.in, dsn)
		}
	}
}

func TestDefaultDBPath(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		want := filepath.Join(t.TempDir(), "custom", "audit.db")
		t.Setenv("SATPREP_DB", want)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("xdg data home", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("SATPREP_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join(dir, "satprep", "satprep.db"); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: DriverPostgres}
	if got := pg.rebind("a = ? AND b = ?"); got != "a = $1 AND b = $2" {
		t.Errorf("postgres rebind = %q", got)
	}
	lite := &Store{driver: DriverSQLite}
	if got := lite.rebind("a = ?"); got != "a = ?" {
		t.Errorf("sqlite rebind = %q", got)
	}
}
