package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/myfit/internal/db"
	"github.com/terraincognita07/myfit/internal/health"
	"github.com/terraincognita07/myfit/internal/logging"
	"github.com/terraincognita07/myfit/internal/metrics"
	"github.com/terraincognita07/myfit/internal/services"
)

const testPassword = "StrongPass1"

type testApp struct {
	app     *fiber.App
	handler *Handler
	deps    Dependencies
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithProvider(t, health.StaticProvider{})
}

func newTestAppWithProvider(t *testing.T, provider health.Provider) *testApp {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "myfit-api-test.db")
	database, err := db.OpenSQLite(databasePath, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	deps := BuildDependencies(database, provider, logging.Discard(), metrics.New(), DependencySettings{
		Location:     time.UTC,
		MissingDates: services.MissingDateAsNow,
	})
	handler, err := NewHandler(deps, Options{SecretKey: "test-secret-key", Location: time.UTC})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	return &testApp{app: NewApp(handler), handler: handler, deps: deps}
}

func (env *testApp) do(t *testing.T, method string, path string, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return response, responseBody
}

func (env *testApp) registerAndLogin(t *testing.T, email string) string {
	t.Helper()

	response, body := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    email,
		"password": testPassword,
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", email, response.StatusCode, string(body))
	}
	return env.login(t, email, testPassword)
}

func (env *testApp) login(t *testing.T, email string, password string) string {
	t.Helper()

	response, body := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", email, response.StatusCode, string(body))
	}

	payload := struct {
		Token string `json:"token"`
	}{}
	decodeJSON(t, body, &payload)
	if payload.Token == "" {
		t.Fatalf("expected token in login response: %s", string(body))
	}
	return payload.Token
}

func (env *testApp) addEntry(t *testing.T, token string, date string, calories int64, protein int64) entryView {
	t.Helper()

	response, body := env.do(t, http.MethodPost, "/api/entries", token, map[string]any{
		"date":     date,
		"calories": calories,
		"protein":  protein,
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("add entry: expected 201, got %d: %s", response.StatusCode, string(body))
	}
	view := entryView{}
	decodeJSON(t, body, &view)
	return view
}

func decodeJSON(t *testing.T, body []byte, target any) {
	t.Helper()
	if err := json.Unmarshal(body, target); err != nil {
		t.Fatalf("decode json %q: %v", string(body), err)
	}
}

func readAPIError(t *testing.T, body []byte) string {
	t.Helper()
	payload := struct {
		Error string `json:"error"`
	}{}
	decodeJSON(t, body, &payload)
	return payload.Error
}

func assertAPIError(t *testing.T, response *http.Response, body []byte, status int, message string) {
	t.Helper()
	if response.StatusCode != status {
		t.Fatalf("expected status %d, got %d: %s", status, response.StatusCode, string(body))
	}
	if got := readAPIError(t, body); got != message {
		t.Fatalf("expected error %q, got %q", message, got)
	}
}
