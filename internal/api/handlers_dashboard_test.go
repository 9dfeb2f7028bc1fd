package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/terraincognita07/myfit/internal/health"
	"github.com/terraincognita07/myfit/internal/services"
)

func fixedNow(env *testApp, now time.Time) {
	env.handler.now = func() time.Time { return now }
}

func TestDashboardReportsStreakLatestAndHealth(t *testing.T) {
	env := newTestAppWithProvider(t, health.StaticProvider{Available: true, EnergyBurned: 2100.5, StepCount: 52000})
	fixedNow(env, time.Date(2026, time.March, 10, 20, 0, 0, 0, time.UTC))
	token := env.registerAndLogin(t, "dashboard@example.com")

	env.addEntry(t, token, "2026-03-05T09:00:00Z", 100, 10)
	env.addEntry(t, token, "2026-03-08T09:00:00Z", 200, 20)
	env.addEntry(t, token, "2026-03-09T09:00:00Z", 300, 30)
	latest := env.addEntry(t, token, "2026-03-10T07:30:00Z", 400, 40)
	env.addEntry(t, token, "2026-03-10T06:00:00Z", 50, 5)

	response, body := env.do(t, http.MethodGet, "/api/dashboard", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", response.StatusCode, string(body))
	}
	view := dashboardView{}
	decodeJSON(t, body, &view)

	if view.Streak != 3 {
		t.Fatalf("expected streak 3, got %d", view.Streak)
	}
	if view.Latest == nil || view.Latest.Ref != latest.Ref {
		t.Fatalf("expected latest entry %s, got %+v", latest.Ref, view.Latest)
	}
	if view.WeeklyEnergyBurned.Value != 2100.5 || view.WeeklyEnergyBurned.Source != services.HealthSourceLive {
		t.Fatalf("unexpected energy reading %+v", view.WeeklyEnergyBurned)
	}
	if view.WeeklySteps.Value != 52000 || view.WeeklySteps.Source != services.HealthSourceLive {
		t.Fatalf("unexpected steps reading %+v", view.WeeklySteps)
	}
	if got := view.Window.End.Sub(view.Window.Start); got != 7*24*time.Hour {
		t.Fatalf("expected a seven day window, got %s", got)
	}
}

func TestDashboardWithoutEntriesOrProvider(t *testing.T) {
	env := newTestApp(t)
	token := env.registerAndLogin(t, "empty-dashboard@example.com")

	response, body := env.do(t, http.MethodGet, "/api/dashboard", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", response.StatusCode, string(body))
	}
	view := dashboardView{}
	decodeJSON(t, body, &view)

	if view.Streak != 0 || view.Latest != nil {
		t.Fatalf("expected empty dashboard, got streak %d latest %+v", view.Streak, view.Latest)
	}
	if view.WeeklyEnergyBurned.Source != services.HealthSourceNone || view.WeeklyEnergyBurned.Value != 0 {
		t.Fatalf("expected no energy reading, got %+v", view.WeeklyEnergyBurned)
	}
}

func TestDashboardFallsBackToLastKnownHealthValues(t *testing.T) {
	env := newTestAppWithProvider(t, health.StaticProvider{Available: true, EnergyBurned: 900, StepCount: 12000})
	token := env.registerAndLogin(t, "cached@example.com")

	if _, body := env.do(t, http.MethodGet, "/api/dashboard", token, nil); len(body) == 0 {
		t.Fatal("expected dashboard body")
	}

	failing := health.StaticProvider{EnergyBurnedErr: errors.New("offline"), StepCountErr: errors.New("offline")}
	env.deps.Dashboard = services.NewDashboardService(
		env.deps.Logs,
		services.NewWeeklyHealthReader(failing, env.deps.Repositories.HealthSnapshots, env.deps.Logger, env.deps.Metrics),
		time.UTC,
		services.MissingDateAsNow,
	)
	env.handler.dashboardService = env.deps.Dashboard

	response, body := env.do(t, http.MethodGet, "/api/dashboard", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", response.StatusCode, string(body))
	}
	view := dashboardView{}
	decodeJSON(t, body, &view)
	if view.WeeklyEnergyBurned.Value != 900 || view.WeeklyEnergyBurned.Source != services.HealthSourceCached {
		t.Fatalf("expected cached energy reading, got %+v", view.WeeklyEnergyBurned)
	}
	if view.WeeklySteps.Value != 12000 || view.WeeklySteps.Source != services.HealthSourceCached {
		t.Fatalf("expected cached steps reading, got %+v", view.WeeklySteps)
	}
	if view.WeeklySteps.FetchedAt == nil {
		t.Fatal("expected cached reading to carry its fetch time")
	}
}
