package app

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/guttosm/pulsefilter/config"
)

var testPG = config.Config{Postgres: config.PostgresConfig{User: "u", Password: "p", Host: "h", Port: 5432, DBName: "d", SSLMode: "disable"}}

func TestInitPostgres_TableDriven(t *testing.T) {
	cases := []struct {
		name    string
		opener  func(t *testing.T) func(string, string) (*sql.DB, error)
		wantErr string
	}{
		{
			name: "open error",
			opener: func(*testing.T) func(string, string) (*sql.DB, error) {
				return func(string, string) (*sql.DB, error) { return nil, errors.New("open failed") }
			},
			wantErr: "failed to open postgres",
		},
		{
			name: "ping error",
			opener: func(t *testing.T) func(string, string) (*sql.DB, error) {
				return func(string, string) (*sql.DB, error) {
					db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
					if err != nil {
						t.Fatalf("sqlmock new: %v", err)
					}
					mock.ExpectPing().WillReturnError(errors.New("ping failed"))
					mock.ExpectClose()
					return db, nil
				}
			},
			wantErr: "failed to ping postgres",
		},
		{
			name: "ok",
			opener: func(t *testing.T) func(string, string) (*sql.DB, error) {
				return func(driver, dsn string) (*sql.DB, error) {
					if driver != "postgres" || dsn != testPG.Postgres.DSN() {
						t.Fatalf("unexpected open(%q, %q)", driver, dsn)
					}
					db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
					if err != nil {
						t.Fatalf("sqlmock new: %v", err)
					}
					mock.ExpectPing()
					return db, nil
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			old := sqlOpener
			sqlOpener = tc.opener(t)
			t.Cleanup(func() { sqlOpener = old })

			db, err := InitPostgres(testPG)
			if tc.wantErr != "" {
				if err == nil || db != nil {
					t.Fatalf("expected %q, got db=%v err=%v", tc.wantErr, db, err)
				}
				return
			}
			if err != nil || db == nil {
				t.Fatalf("unexpected: %v", err)
			}
			_ = db.Close()
		})
	}
}

func TestInitRedis_TableDriven(t *testing.T) {
	rdb, err := InitRedis(config.Config{})
	if err != nil || rdb != nil {
		t.Fatalf("empty addr: want nil,nil got %v %v", rdb, err)
	}

	rdb, err = InitRedis(config.Config{Redis: config.RedisConfig{Addr: "127.0.0.1:1"}})
	if err == nil || rdb != nil {
		t.Fatalf("unreachable addr: want error, got %v %v", rdb, err)
	}
}

func TestNewFilterEngine(t *testing.T) {
	cases := []struct {
		name    string
		file    string
		want    string
		wantErr bool
	}{
		{name: "built-ins only", want: "ohlc"},
		{name: "extra preset", file: "presets:\n  tape: [price, size]\n", want: "tape"},
		{name: "empty file", file: "", want: "ohlc"},
		{name: "unknown key", file: "presetz: {}\n", wantErr: true},
		{name: "empty preset", file: "presets:\n  none: []\n", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var cfg config.Config
			if tc.name != "built-ins only" {
				cfg.Filter.PresetsFile = writePresets(t, tc.file)
			}
			engine, err := NewFilterEngine(cfg)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected: %v", err)
			}
			if _, err := engine.Presets().Resolve(tc.want); err != nil {
				t.Fatalf("preset %q missing: %v", tc.want, err)
			}
		})
	}
}
