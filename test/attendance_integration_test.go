//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	repo "github.com/company/simpleattendance/adapters/repository/postgres"
	"github.com/company/simpleattendance/core/admission"
	"github.com/company/simpleattendance/core/attendance"
	"github.com/company/simpleattendance/core/calendar"
	"github.com/company/simpleattendance/platform/config"
	pg "github.com/company/simpleattendance/platform/db/postgres"
)

const (
	migrationsDir = "../assets/migrations"
	seedsDir      = "../assets/seeds"

	seededEmployeeID = "00000000-0000-0000-0000-000000000001"
	seededBSSID      = "aa:bb:cc:dd:ee:ff"
)

func TestAttendanceFlowIntegration(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(configPathFromEnv())
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if !cfg.Database.Enabled() {
		t.Skip("database settings not configured")
	}

	if err := resetMigrations(cfg.Database.DSN(), migrationsDir); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	if err := applySeeds(cfg.Database.DSN(), seedsDir); err != nil {
		t.Fatalf("failed to apply seeds: %v", err)
	}

	ctx := context.Background()
	pool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	store := repo.NewAttendanceRepository(pool)
	zone := cfg.Attendance.Location

	checker := admission.NewChecker(store)
	approved, err := checker.Authorize(ctx, admission.NetworkState{
		PermissionGranted: true,
		RadioEnabled:      true,
		BSSID:             "AA:BB:CC:DD:EE:FF",
	})
	if err != nil {
		t.Fatalf("Authorize error: %v", err)
	}
	if approved.BSSID != seededBSSID {
		t.Fatalf("expected seeded network, got %+v", approved)
	}

	_, err = checker.Authorize(ctx, admission.NetworkState{
		PermissionGranted: true,
		RadioEnabled:      true,
		BSSID:             "11:22:33:44:55:66",
	})
	var notApproved *admission.NotApprovedError
	if !errors.As(err, &notApproved) {
		t.Fatalf("expected NotApprovedError, got %v", err)
	}

	clk := stubClock{now: time.Date(2025, 1, 20, 9, 15, 0, 0, zone)}
	svc := attendance.NewService(store, clk, zone)

	created, err := svc.MarkIn(ctx, seededEmployeeID)
	if err != nil {
		t.Fatalf("MarkIn error: %v", err)
	}
	wantIn := time.Date(2025, 1, 20, 10, 0, 0, 0, zone)
	if created.InTime == nil || !created.InTime.Equal(wantIn) {
		t.Fatalf("expected clamped in time %v, got %+v", wantIn, created.InTime)
	}

	if _, err := svc.MarkIn(ctx, seededEmployeeID); !errors.Is(err, attendance.ErrAlreadyMarkedIn) {
		t.Fatalf("expected ErrAlreadyMarkedIn, got %v", err)
	}

	clk.now = time.Date(2025, 1, 20, 20, 10, 0, 0, zone)
	svc = attendance.NewService(store, clk, zone)
	updated, err := svc.MarkOut(ctx, seededEmployeeID)
	if err != nil {
		t.Fatalf("MarkOut error: %v", err)
	}
	wantOut := time.Date(2025, 1, 20, 19, 30, 0, 0, zone)
	if updated.OutTime == nil || !updated.OutTime.Equal(wantOut) {
		t.Fatalf("expected clamped out time %v, got %+v", wantOut, updated.OutTime)
	}

	view, err := calendar.NewService(store, store, cfg.Attendance.WeeklyOff, zone).
		LoadMonth(ctx, seededEmployeeID, calendar.Month{Year: 2025, Month: time.January})
	if err != nil {
		t.Fatalf("LoadMonth error: %v", err)
	}
	if view.Partial {
		t.Fatal("expected complete month view")
	}
	if view.Days["2025-01-20"] != attendance.DayPending {
		t.Fatalf("expected DayPending on 2025-01-20, got %s", view.Days["2025-01-20"])
	}
	if view.Days["2025-01-26"] != attendance.DayHoliday {
		t.Fatalf("expected seeded holiday on 2025-01-26, got %s", view.Days["2025-01-26"])
	}
}

func resetMigrations(dsn, dir string) error {
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func applySeeds(dsn, dir string) error {
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func configPathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "../assets/local.yaml"
}

type stubClock struct {
	now time.Time
}

func (s stubClock) Now() time.Time {
	return s.now
}
