package api

import (
	"net/http"
	"testing"
	"time"
)

func TestAnalyticsGroupsEntriesInsideTheWindow(t *testing.T) {
	env := newTestApp(t)
	fixedNow(env, time.Date(2026, time.March, 10, 20, 0, 0, 0, time.UTC))
	token := env.registerAndLogin(t, "analytics@example.com")

	env.addEntry(t, token, "2026-03-03T12:00:00Z", 999, 99)
	env.addEntry(t, token, "2026-03-04T08:00:00Z", 300, 20)
	env.addEntry(t, token, "2026-03-07T08:00:00Z", 250, 15)
	env.addEntry(t, token, "2026-03-07T19:00:00Z", 450, 35)

	response, body := env.do(t, http.MethodGet, "/api/analytics?range=week", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", response.StatusCode, string(body))
	}
	view := trendView{}
	decodeJSON(t, body, &view)

	if view.Range != "week" || view.Label != "Past Week" {
		t.Fatalf("unexpected range %q label %q", view.Range, view.Label)
	}
	if len(view.Days) != 2 {
		t.Fatalf("expected two days in window, got %+v", view.Days)
	}
	if view.Days[0].Day != "2026-03-04" || view.Days[0].Calories != 300 {
		t.Fatalf("unexpected first day %+v", view.Days[0])
	}
	if view.Days[1].Day != "2026-03-07" || view.Days[1].Calories != 700 || view.Days[1].Protein != 50 {
		t.Fatalf("unexpected second day %+v", view.Days[1])
	}
	if len(view.Calories) != 2 || view.Protein[1].Value != 50 {
		t.Fatalf("unexpected series calories=%+v protein=%+v", view.Calories, view.Protein)
	}
}

func TestAnalyticsMonthRangeWidensTheWindow(t *testing.T) {
	env := newTestApp(t)
	fixedNow(env, time.Date(2026, time.March, 31, 12, 0, 0, 0, time.UTC))
	token := env.registerAndLogin(t, "analytics-month@example.com")

	env.addEntry(t, token, "2026-02-27T12:00:00Z", 100, 10)
	env.addEntry(t, token, "2026-03-01T12:00:00Z", 200, 20)

	_, body := env.do(t, http.MethodGet, "/api/analytics?range=month", token, nil)
	view := trendView{}
	decodeJSON(t, body, &view)

	if len(view.Days) != 1 || view.Days[0].Day != "2026-03-01" {
		t.Fatalf("expected only the day after the clamped month start, got %+v", view.Days)
	}
	if want := time.Date(2026, time.February, 28, 12, 0, 0, 0, time.UTC); !view.Start.Equal(want) {
		t.Fatalf("expected start %s, got %s", want, view.Start)
	}
}

func TestAnalyticsRejectsUnknownRange(t *testing.T) {
	env := newTestApp(t)
	token := env.registerAndLogin(t, "analytics-bad@example.com")

	response, body := env.do(t, http.MethodGet, "/api/analytics?range=decade", token, nil)
	assertAPIError(t, response, body, http.StatusBadRequest, "invalid range")
}

func TestCalendarMarksLoggedDays(t *testing.T) {
	env := newTestApp(t)
	fixedNow(env, time.Date(2026, time.March, 10, 20, 0, 0, 0, time.UTC))
	token := env.registerAndLogin(t, "calendar@example.com")

	env.addEntry(t, token, "2026-03-02T08:00:00Z", 500, 25)
	env.addEntry(t, token, "2026-03-02T18:00:00Z", 300, 15)

	response, body := env.do(t, http.MethodGet, "/api/calendar?month=2026-03", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", response.StatusCode, string(body))
	}
	view := calendarView{}
	decodeJSON(t, body, &view)

	if view.Month != "2026-03" || view.PrevMonth != "2026-02" || view.NextMonth != "2026-04" {
		t.Fatalf("unexpected month navigation %+v", view)
	}
	if len(view.Days)%7 != 0 {
		t.Fatalf("expected whole weeks, got %d days", len(view.Days))
	}

	var logged, today *calendarDayView
	for index := range view.Days {
		switch view.Days[index].Date {
		case "2026-03-02":
			logged = &view.Days[index]
		case "2026-03-10":
			today = &view.Days[index]
		}
	}
	if logged == nil || !logged.Logged || logged.Calories != 800 || logged.Protein != 40 {
		t.Fatalf("unexpected logged day %+v", logged)
	}
	if today == nil || !today.IsToday || today.Logged {
		t.Fatalf("unexpected today cell %+v", today)
	}

	response, body = env.do(t, http.MethodGet, "/api/calendar?month=March", token, nil)
	assertAPIError(t, response, body, http.StatusBadRequest, "invalid month")
}
