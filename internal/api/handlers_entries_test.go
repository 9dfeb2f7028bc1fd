package api

import (
	"net/http"
	"testing"
)

func TestAddEntryThenListReturnsIt(t *testing.T) {
	env := newTestApp(t)
	token := env.registerAndLogin(t, "entries@example.com")

	created := env.addEntry(t, token, "2026-03-02T08:30:00Z", 500, 30)
	if created.Ref == "" {
		t.Fatal("expected generated ref")
	}
	if created.Day != "2026-03-02" {
		t.Fatalf("expected day 2026-03-02, got %q", created.Day)
	}

	response, body := env.do(t, http.MethodGet, "/api/entries", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", response.StatusCode, string(body))
	}
	listed := []entryView{}
	decodeJSON(t, body, &listed)
	if len(listed) != 1 {
		t.Fatalf("expected one entry, got %d", len(listed))
	}
	if listed[0].Ref != created.Ref || listed[0].Calories != 500 || listed[0].Protein != 30 {
		t.Fatalf("unexpected listed entry %+v", listed[0])
	}
}

func TestAddEntryRejectsNonPositiveValues(t *testing.T) {
	env := newTestApp(t)
	token := env.registerAndLogin(t, "invalid-entry@example.com")

	tests := []struct {
		name     string
		calories int64
		protein  int64
	}{
		{name: "zero calories", calories: 0, protein: 10},
		{name: "zero protein", calories: 100, protein: 0},
		{name: "negative calories", calories: -5, protein: 10},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			response, body := env.do(t, http.MethodPost, "/api/entries", token, map[string]any{
				"calories": test.calories,
				"protein":  test.protein,
			})
			assertAPIError(t, response, body, http.StatusBadRequest, "invalid entry")
		})
	}

	_, body := env.do(t, http.MethodGet, "/api/entries", token, nil)
	listed := []entryView{}
	decodeJSON(t, body, &listed)
	if len(listed) != 0 {
		t.Fatalf("expected rejected entries not to be stored, got %d", len(listed))
	}
}

func TestAddEntryRejectsMalformedDate(t *testing.T) {
	env := newTestApp(t)
	token := env.registerAndLogin(t, "bad-date@example.com")

	response, body := env.do(t, http.MethodPost, "/api/entries", token, map[string]any{
		"date":     "02/03/2026",
		"calories": 100,
		"protein":  10,
	})
	assertAPIError(t, response, body, http.StatusBadRequest, "invalid date")
}

func TestDeleteEntryRemovesItOnce(t *testing.T) {
	env := newTestApp(t)
	token := env.registerAndLogin(t, "delete@example.com")
	created := env.addEntry(t, token, "2026-03-02", 400, 20)

	response, body := env.do(t, http.MethodDelete, "/api/entries/"+created.Ref, token, nil)
	if response.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", response.StatusCode, string(body))
	}

	response, body = env.do(t, http.MethodDelete, "/api/entries/"+created.Ref, token, nil)
	assertAPIError(t, response, body, http.StatusNotFound, "entry not found")
}

func TestEntriesAreScopedToTheirOwner(t *testing.T) {
	env := newTestApp(t)
	ownerToken := env.registerAndLogin(t, "owner@example.com")
	otherToken := env.registerAndLogin(t, "other@example.com")
	created := env.addEntry(t, ownerToken, "2026-03-02", 400, 20)

	_, body := env.do(t, http.MethodGet, "/api/entries", otherToken, nil)
	listed := []entryView{}
	decodeJSON(t, body, &listed)
	if len(listed) != 0 {
		t.Fatalf("expected other user to see no entries, got %d", len(listed))
	}

	response, body := env.do(t, http.MethodDelete, "/api/entries/"+created.Ref, otherToken, nil)
	assertAPIError(t, response, body, http.StatusNotFound, "entry not found")
}

func TestListEntriesFiltersByDateRange(t *testing.T) {
	env := newTestApp(t)
	token := env.registerAndLogin(t, "range@example.com")
	env.addEntry(t, token, "2026-03-01T12:00:00Z", 100, 10)
	env.addEntry(t, token, "2026-03-05T12:00:00Z", 200, 20)
	env.addEntry(t, token, "2026-03-09T12:00:00Z", 300, 30)

	response, body := env.do(t, http.MethodGet, "/api/entries?from=2026-03-02&to=2026-03-09", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", response.StatusCode, string(body))
	}
	listed := []entryView{}
	decodeJSON(t, body, &listed)
	if len(listed) != 2 {
		t.Fatalf("expected two entries in range, got %d", len(listed))
	}
	if listed[0].Day != "2026-03-09" || listed[1].Day != "2026-03-05" {
		t.Fatalf("expected newest first, got %s then %s", listed[0].Day, listed[1].Day)
	}

	tests := []struct {
		query   string
		message string
	}{
		{query: "from=2026-13-01", message: "invalid from date"},
		{query: "to=nope", message: "invalid to date"},
		{query: "from=2026-03-09&to=2026-03-01", message: "invalid range"},
	}
	for _, test := range tests {
		response, body := env.do(t, http.MethodGet, "/api/entries?"+test.query, token, nil)
		assertAPIError(t, response, body, http.StatusBadRequest, test.message)
	}
}
