package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/guttosm/pulsefilter/config"
	"github.com/guttosm/pulsefilter/internal/ingestion"
)

type dummyHandler struct{}

func (d dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

// execute runs the command tree with an empty configuration and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	old := loadConfig
	loadConfig = func() { config.AppConfig = config.Config{Server: config.ServerConfig{Port: "0"}} }
	t.Cleanup(func() { loadConfig = old })

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), err
}

func TestStartServerAndShutdown(t *testing.T) {
	srv := startServer(dummyHandler{}, "0")
	if srv == nil {
		t.Fatalf("expected server")
	}
	time.Sleep(50 * time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
		t.Fatalf("shutdown err: %v", err)
	}
}

func TestGracefulShutdown_SignalPath(t *testing.T) {
	srv := startServer(dummyHandler{}, "0")

	cleaned := make(chan struct{})
	go gracefulShutdown(context.Background(), srv, func() { close(cleaned) })

	// let the goroutine register for signals
	time.Sleep(50 * time.Millisecond)

	p, _ := os.FindProcess(os.Getpid())
	_ = p.Signal(syscall.SIGTERM)

	select {
	case <-cleaned:
	case <-time.After(2 * time.Second):
		t.Fatalf("cleanup not called after SIGTERM")
	}
}

func TestGracefulShutdown_ContextPath(t *testing.T) {
	srv := startServer(dummyHandler{}, "0")
	ctx, cancel := context.WithCancel(context.Background())

	cleaned := make(chan struct{})
	go gracefulShutdown(ctx, srv, func() { close(cleaned) })
	cancel()

	select {
	case <-cleaned:
	case <-time.After(2 * time.Second):
		t.Fatalf("cleanup not called after context cancel")
	}
}

func TestFilterCommand(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "day.json")
	if err := os.WriteFile(file, []byte(`{"ticker":"PETR4","close":38.4,"volume":100}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cases := []struct {
		name    string
		stdin   string
		args    []string
		want    string
		wantErr string
	}{
		{
			name:  "stdin csv",
			stdin: `{"results":[{"ticker":"PETR4","close":38.4},{"ticker":"VALE3","close":61}]}`,
			args:  []string{"filter", "--fields", "ticker,close"},
			want:  "ticker,close\nPETR4,38.4\nVALE3,61\n",
		},
		{
			name:  "stdin dash with aggregate",
			stdin: `[{"close":1},{"close":2}]`,
			args:  []string{"filter", "-", "--aggregate", "last", "--output-format", "compact"},
			want:  "{\"close\":2}\n",
		},
		{
			name: "file compact",
			args: []string{"filter", file, "--fields", "close,volume", "--output-format", "compact"},
			want: "{\"close\":38.4,\"volume\":100}\n",
		},
		{name: "unknown preset", stdin: `{}`, args: []string{"filter", "--fields", "preset:bogus"}, wantErr: "bogus"},
		{name: "bad format", stdin: `{}`, args: []string{"filter", "--output-format", "xml"}, wantErr: "xml"},
		{name: "invalid json", stdin: `{`, args: []string{"filter"}, wantErr: "json"},
		{name: "missing file", args: []string{"filter", filepath.Join(dir, "nope.json")}, wantErr: "nope.json"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, tc.stdin, tc.args...)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(strings.ToLower(err.Error()), tc.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tc.want {
				t.Fatalf("output %q, want %q", out, tc.want)
			}
		})
	}
}

func TestPresetsCommand(t *testing.T) {
	out, err := execute(t, "", "presets")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if !strings.HasPrefix(lines[0], "details ") {
		t.Fatalf("expected sorted table starting with details, got %q", lines[0])
	}
	if !strings.Contains(out, "ohlcv") || !strings.Contains(out, "ticker,open,high,low,close,volume,timestamp") {
		t.Fatalf("ohlcv row missing:\n%s", out)
	}
}

func withDBOpener(t *testing.T, fn func(config.Config) (*sql.DB, error)) {
	t.Helper()
	old := dbOpener
	dbOpener = fn
	t.Cleanup(func() { dbOpener = old })
}

func TestMigrateCommand(t *testing.T) {
	t.Run("db error", func(t *testing.T) {
		withDBOpener(t, func(config.Config) (*sql.DB, error) { return nil, errors.New("refused") })
		if _, err := execute(t, "", "migrate"); err == nil || !strings.Contains(err.Error(), "db connect") {
			t.Fatalf("expected connect error, got %v", err)
		}
	})

	t.Run("runs and closes", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("sqlmock: %v", err)
		}
		mock.ExpectClose()
		withDBOpener(t, func(config.Config) (*sql.DB, error) { return db, nil })

		called := false
		old := runMigrate
		runMigrate = func(_ context.Context, got *sql.DB) error {
			called = got == db
			return nil
		}
		t.Cleanup(func() { runMigrate = old })

		if _, err := execute(t, "", "migrate"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !called {
			t.Fatalf("migrate not called with the opened db")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("db not closed: %v", err)
		}
	})
}

func TestIngestCommand_PassesFlags(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	mock.ExpectClose()
	withDBOpener(t, func(config.Config) (*sql.DB, error) { return db, nil })

	var got ingestion.Options
	migrated := false
	oldIngest, oldMigrate := runIngest, runMigrate
	runIngest = func(_ context.Context, _ *sql.DB, opts ingestion.Options) (ingestion.Summary, error) {
		got = opts
		return ingestion.Summary{Files: 3, Rows: 10}, nil
	}
	runMigrate = func(context.Context, *sql.DB) error { migrated = true; return nil }
	t.Cleanup(func() { runIngest, runMigrate = oldIngest, oldMigrate })

	_, err = execute(t, "", "ingest", "--dir", "/data", "--days", "3", "--parallel", "2", "--force", "--migrate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := ingestion.Options{Dir: "/data", Days: 3, Parallel: 2, Force: true}
	if got != want || !migrated {
		t.Fatalf("options %+v migrated=%v, want %+v", got, migrated, want)
	}
}

func TestIngestCommand_Failure(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	withDBOpener(t, func(config.Config) (*sql.DB, error) { return db, nil })
	old := runIngest
	runIngest = func(context.Context, *sql.DB, ingestion.Options) (ingestion.Summary, error) {
		return ingestion.Summary{}, errors.New("missing required files: 18-09-2025_NEGOCIOSAVISTA.txt")
	}
	t.Cleanup(func() { runIngest = old })

	if _, err := execute(t, "", "ingest"); err == nil || !strings.Contains(err.Error(), "ingestion failed") {
		t.Fatalf("expected ingestion error, got %v", err)
	}
}

func TestAPICommand(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("init error", func(t *testing.T) {
		old := appInit
		appInit = func() (*gin.Engine, func(), error) { return nil, nil, errors.New("no db") }
		t.Cleanup(func() { appInit = old })
		if _, err := execute(t, "", "api"); err == nil || !strings.Contains(err.Error(), "app init") {
			t.Fatalf("expected init error, got %v", err)
		}
	})

	t.Run("serves on configured port", func(t *testing.T) {
		oldInit, oldServe := appInit, serveRouter
		appInit = func() (*gin.Engine, func(), error) { return gin.New(), func() {}, nil }
		var port string
		serveRouter = func(_ context.Context, _ http.Handler, p string, cleanup func()) {
			port = p
			cleanup()
		}
		t.Cleanup(func() { appInit, serveRouter = oldInit, oldServe })

		if _, err := execute(t, "", "api", "--port", "9090"); err != nil || port != "9090" {
			t.Fatalf("port=%q err=%v", port, err)
		}
		if _, err := execute(t, "", "api"); err != nil || port != "0" {
			t.Fatalf("default port=%q err=%v", port, err)
		}
	})
}
