package ingestion

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/guttosm/pulsefilter/internal/storage"
)

// pinned Friday 2025-09-19; the two previous business days are 18 and 17.
var pinnedNow = time.Date(2025, 9, 19, 15, 0, 0, 0, time.UTC)

func useFakes(t *testing.T, repo storage.TradesRepository) {
	t.Helper()
	oldRepo, oldNow := repoCtor, nowFn
	repoCtor = func(*sql.DB) storage.TradesRepository { return repo }
	nowFn = func() time.Time { return pinnedNow }
	t.Cleanup(func() { repoCtor, nowFn = oldRepo, oldNow })
}

func dayFile(d time.Time) string { return d.Format(fileDateLayout) + fileSuffix }

func sampleFile(d time.Time) string {
	row := ";E2E4;I;10,0;50;100000000;X;REG;" + d.Format(time.DateOnly) + ";B;S\n"
	return validHeader + row + row
}

func TestProcessDirectory_TableDriven(t *testing.T) {
	day := time.Date(2025, 9, 19, 0, 0, 0, 0, time.UTC)
	prev := time.Date(2025, 9, 18, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name        string
		opts        Options
		repo        *fakeRepo
		files       []time.Time
		wantErr     string
		wantRows    int
		wantSkipped int
		wantDeleted bool
	}{
		{name: "one day", opts: Options{Days: 1}, repo: &fakeRepo{}, files: []time.Time{day}, wantRows: 2},
		{name: "two days in parallel", opts: Options{Days: 2, Parallel: 2}, repo: &fakeRepo{}, files: []time.Time{day, prev}, wantRows: 4},
		{name: "days clamped to 1", opts: Options{Days: 0}, repo: &fakeRepo{}, files: []time.Time{day}, wantRows: 2},
		{name: "skip already ingested", opts: Options{Days: 1}, repo: &fakeRepo{logged: map[time.Time]int{day: 2}}, files: []time.Time{day}, wantSkipped: 1},
		{name: "force reprocess", opts: Options{Days: 1, Force: true}, repo: &fakeRepo{logged: map[time.Time]int{day: 2}}, files: []time.Time{day}, wantRows: 2, wantDeleted: true},
		{name: "missing file", opts: Options{Days: 2}, repo: &fakeRepo{}, files: []time.Time{day}, wantErr: "missing required files: " + dayFile(prev)},
		{name: "ingestion log check fails", opts: Options{Days: 1}, repo: &fakeRepo{hasErr: context.DeadlineExceeded}, files: []time.Time{day}, wantErr: "check ingestion log"},
		{name: "upsert log fails", opts: Options{Days: 1}, repo: &fakeRepo{upsertErr: context.Canceled}, files: []time.Time{day}, wantErr: "upsert ingestion log"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, d := range tc.files {
				writeTempFile(t, dir, dayFile(d), sampleFile(d))
			}
			useFakes(t, tc.repo)
			tc.opts.Dir = dir

			sum, err := ProcessDirectory(context.Background(), nil, tc.opts)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("want error containing %q, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if sum.Rows != tc.wantRows || tc.repo.rows() != tc.wantRows {
				t.Fatalf("rows: want %d got summary=%d repo=%d", tc.wantRows, sum.Rows, tc.repo.rows())
			}
			if sum.Skipped != tc.wantSkipped || sum.Files != len(tc.files) {
				t.Fatalf("unexpected summary %+v", sum)
			}
			if tc.repo.deleted[day] != tc.wantDeleted {
				t.Fatalf("deleted: want %v got %v", tc.wantDeleted, tc.repo.deleted[day])
			}
		})
	}
}

func TestProcessDirectory_LogsRowCount(t *testing.T) {
	day := time.Date(2025, 9, 19, 0, 0, 0, 0, time.UTC)
	dir := t.TempDir()
	writeTempFile(t, dir, dayFile(day), sampleFile(day))
	repo := &fakeRepo{}
	useFakes(t, repo)

	if _, err := ProcessDirectory(context.Background(), nil, Options{Dir: dir, Days: 1, Batch: 1}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.logged[day] != 2 || len(repo.batches) != 2 {
		t.Fatalf("want 2 rows logged in 2 batches, got logged=%v batches=%d", repo.logged, len(repo.batches))
	}
}

func TestProcessDirectory_CanceledContext(t *testing.T) {
	day := time.Date(2025, 9, 19, 0, 0, 0, 0, time.UTC)
	dir := t.TempDir()
	writeTempFile(t, dir, dayFile(day), sampleFile(day))
	useFakes(t, &fakeRepo{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ProcessDirectory(ctx, nil, Options{Dir: dir, Days: 1}); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestClamp(t *testing.T) {
	cases := []struct{ v, want int }{{-1, 1}, {0, 1}, {3, 3}, {7, 7}, {9, 7}}
	for _, c := range cases {
		if got := clamp(c.v, 1, maxDays); got != c.want {
			t.Fatalf("clamp(%d): want %d got %d", c.v, c.want, got)
		}
	}
}
