package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/guttosm/packflow/internal/domain/models"
)

type fakeImportLog struct {
	mu       sync.Mutex
	sums     map[string]string
	rows     map[string]int
	inserted []models.Payment
	started  []string
	err      error
}

func (f *fakeImportLog) ImportedChecksum(_ context.Context, filename string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, filename)
	return f.sums[filename], nil
}

func (f *fakeImportLog) RecordImport(_ context.Context, filename, sum string, payments []models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.sums == nil {
		f.sums, f.rows = map[string]string{}, map[string]int{}
	}
	f.inserted = append(f.inserted, payments...)
	f.sums[filename], f.rows[filename] = sum, len(payments)
	return nil
}

func useFakes(t *testing.T, l *fakeImportLog) {
	t.Helper()
	old := reposCtor
	reposCtor = func(*sql.DB) Repositories { return Repositories{ImportLog: l} }
	t.Cleanup(func() { reposCtor = old })
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

const header = "project_name,client_name,client_email,client_phone,work_period_start,work_period_end,hours_worked,rate,additional_fees,subtotal,total,status,created_at,accepted_at\n"

func sampleFile() string {
	return header +
		"Site,Acme,billing@acme.test,07123456789,2024-01-01,2024-01-31,10,50,0,500,500,paid,2024-02-01T09:00:00Z,2024-02-03\n" +
		"Logo,Globex,,,,,,,,,120,rejected,2024-02-05,\n"
}

func TestProcessDirectory_ImportsAndLogs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2024.csv", sampleFile())
	writeFile(t, dir, "notes.txt", "ignored")

	l := &fakeImportLog{}
	useFakes(t, l)

	if err := ProcessDirectory(context.Background(), dir, nil, Options{UserID: "u1", Parallel: 2}); err != nil {
		t.Fatalf("ProcessDirectory err: %v", err)
	}
	if len(l.inserted) != 2 || l.inserted[0].UserID != "u1" {
		t.Fatalf("inserted=%+v", l.inserted)
	}
	if l.rows["2024.csv"] != 2 || l.sums["2024.csv"] == "" {
		t.Fatalf("import log not updated: %+v", l)
	}
}

func TestProcessDirectory_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", sampleFile())
	l := &fakeImportLog{}
	useFakes(t, l)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := ProcessDirectory(ctx, dir, nil, Options{UserID: "u1"}); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if len(l.inserted) != 2 {
		t.Fatalf("second run should skip the file, inserted %d rows", len(l.inserted))
	}
}

func TestProcessDirectory_ChangedFileNeedsForce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", sampleFile())
	l := &fakeImportLog{sums: map[string]string{"a.csv": "stale"}, rows: map[string]int{}}
	useFakes(t, l)

	err := ProcessDirectory(context.Background(), dir, nil, Options{UserID: "u1"})
	if err == nil || !strings.Contains(err.Error(), "--force") {
		t.Fatalf("expected force hint, got %v", err)
	}
	if err := ProcessDirectory(context.Background(), dir, nil, Options{UserID: "u1", Force: true}); err != nil {
		t.Fatalf("forced import: %v", err)
	}
	if len(l.inserted) != 2 || l.sums["a.csv"] == "stale" {
		t.Fatalf("forced import did not run: rows=%d sum=%s", len(l.inserted), l.sums["a.csv"])
	}
}

func TestProcessDirectory_Errors(t *testing.T) {
	cases := []struct {
		name  string
		files map[string]string
		opts  Options
		log   *fakeImportLog
		want  string
	}{
		{name: "no user", files: map[string]string{"a.csv": sampleFile()}, opts: Options{}, want: "user id"},
		{name: "empty dir", opts: Options{UserID: "u1"}, want: "no .csv files"},
		{name: "bad header", files: map[string]string{"a.csv": "client,total\nAcme,1\n"}, opts: Options{UserID: "u1"}, want: "invalid header"},
		{name: "insert fails", files: map[string]string{"a.csv": sampleFile()}, opts: Options{UserID: "u1"}, log: &fakeImportLog{err: errors.New("copy failed")}, want: "copy failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tc.files {
				writeFile(t, dir, name, content)
			}
			l := tc.log
			if l == nil {
				l = &fakeImportLog{}
			}
			useFakes(t, l)
			err := ProcessDirectory(context.Background(), dir, nil, tc.opts)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestProcessDirectory_MissingDir(t *testing.T) {
	useFakes(t, &fakeImportLog{})
	if err := ProcessDirectory(context.Background(), filepath.Join(t.TempDir(), "nope"), nil, Options{UserID: "u1"}); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestProcessDirectory_BadRowLeavesNothingBehind(t *testing.T) {
	dir := t.TempDir()
	var sb strings.Builder
	sb.WriteString(header)
	for i := 0; i < 5001; i++ {
		sb.WriteString("Site,Acme,,,,,,,,,10,paid,2024-02-01,\n")
	}
	sb.WriteString("Site,Acme,,,,,,,,,oops,paid,2024-02-01,\n")
	writeFile(t, dir, "big.csv", sb.String())

	l := &fakeImportLog{}
	useFakes(t, l)
	ctx := context.Background()

	for run := 1; run <= 2; run++ {
		err := ProcessDirectory(ctx, dir, nil, Options{UserID: "u1"})
		if err == nil || !strings.Contains(err.Error(), "line 5003") {
			t.Fatalf("run %d: expected failure on the last line, got %v", run, err)
		}
		if len(l.inserted) != 0 || l.sums["big.csv"] != "" {
			t.Fatalf("run %d: failed file wrote rows=%d sum=%q", run, len(l.inserted), l.sums["big.csv"])
		}
	}

	writeFile(t, dir, "big.csv", strings.TrimSuffix(sb.String(), "Site,Acme,,,,,,,,,oops,paid,2024-02-01,\n"))
	if err := ProcessDirectory(ctx, dir, nil, Options{UserID: "u1"}); err != nil {
		t.Fatalf("fixed file: %v", err)
	}
	if len(l.inserted) != 5001 || l.rows["big.csv"] != 5001 {
		t.Fatalf("fixed file imported rows=%d logged=%d", len(l.inserted), l.rows["big.csv"])
	}
}

func TestProcessDirectory_StopsSchedulingAfterFailure(t *testing.T) {
	dir := t.TempDir()
	const files = 20
	writeFile(t, dir, "a00.csv", "client,total\nAcme,1\n")
	for i := 1; i < files; i++ {
		writeFile(t, dir, fmt.Sprintf("a%02d.csv", i), sampleFile())
	}

	l := &fakeImportLog{}
	useFakes(t, l)
	err := ProcessDirectory(context.Background(), dir, nil, Options{UserID: "u1", Parallel: 1})
	if err == nil || !strings.Contains(err.Error(), "a00.csv") {
		t.Fatalf("expected a00.csv failure, got %v", err)
	}
	if len(l.started) >= files {
		t.Fatalf("files kept being scheduled after the failure: %v", l.started)
	}
}

func TestProcessDirectory_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", sampleFile())
	l := &fakeImportLog{}
	useFakes(t, l)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := ProcessDirectory(ctx, dir, nil, Options{UserID: "u1"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if len(l.inserted) != 0 {
		t.Fatalf("cancelled import wrote %d rows", len(l.inserted))
	}
}
