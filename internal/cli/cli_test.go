package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/terraincognita07/myfit/internal/db"
	"github.com/terraincognita07/myfit/internal/services"
)

func TestParseImportFile(t *testing.T) {
	t.Parallel()

	document := `
entries:
  - date: 2026-03-01
    calories: 520
    protein: 31
  - date: "2026-03-02T19:30:00Z"
    calories: 800
    protein: 45
  - calories: 150
    protein: 12
`
	now := time.Date(2026, time.March, 10, 8, 45, 0, 0, time.UTC)
	inputs, err := parseImportFile(strings.NewReader(document), now, time.UTC)
	if err != nil {
		t.Fatalf("parse import file: %v", err)
	}
	if len(inputs) != 3 {
		t.Fatalf("expected 3 inputs, got %d", len(inputs))
	}

	if want := time.Date(2026, time.March, 1, 8, 45, 0, 0, time.UTC); inputs[0].Date == nil || !inputs[0].Date.Equal(want) {
		t.Fatalf("expected day entry stamped at %s, got %v", want, inputs[0].Date)
	}
	if want := time.Date(2026, time.March, 2, 19, 30, 0, 0, time.UTC); inputs[1].Date == nil || !inputs[1].Date.Equal(want) {
		t.Fatalf("expected exact timestamp %s, got %v", want, inputs[1].Date)
	}
	if inputs[2].Date != nil {
		t.Fatalf("expected undated entry to keep a nil date, got %v", inputs[2].Date)
	}
	if inputs[1].Calories != 800 || inputs[1].Protein != 45 {
		t.Fatalf("unexpected values %+v", inputs[1])
	}
}

func TestParseImportFileRejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		document string
	}{
		{name: "bad date", document: "entries:\n  - date: yesterday\n    calories: 1\n    protein: 1\n"},
		{name: "unknown field", document: "entries:\n  - kcal: 100\n"},
		{name: "not yaml", document: "entries: [\n"},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if _, err := parseImportFile(strings.NewReader(test.document), time.Now(), time.UTC); err == nil {
				t.Fatal("expected parse error")
			}
		})
	}
}

func TestParseImportFileEmptyDocument(t *testing.T) {
	t.Parallel()

	inputs, err := parseImportFile(strings.NewReader(""), time.Now(), time.UTC)
	if err != nil {
		t.Fatalf("expected empty document to parse, got %v", err)
	}
	if len(inputs) != 0 {
		t.Fatalf("expected no inputs, got %d", len(inputs))
	}
}

func newCLITestDatabase(t *testing.T, email string) string {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "myfit-cli-test.db")
	database, err := db.OpenSQLite(databasePath, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	auth := services.NewAuthService(db.NewUserRepository(database))
	if _, err := auth.Register(email, "StrongPass1"); err != nil {
		t.Fatalf("register user: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close sqlite: %v", err)
	}
	return databasePath
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := NewRootCommand(nil, &stdout, &stderr)
	root.SetArgs(append([]string{"--env-file", "", "--log-level", "error"}, args...))
	err := root.Execute()
	return stdout.String(), err
}

func TestImportAndSummaryCommands(t *testing.T) {
	databasePath := newCLITestDatabase(t, "cli@example.com")

	today := time.Now().UTC().Format("2006-01-02")
	importPath := filepath.Join(t.TempDir(), "entries.yaml")
	document := "entries:\n" +
		"  - date: " + today + "\n    calories: 600\n    protein: 40\n" +
		"  - date: " + today + "\n    calories: 0\n    protein: 10\n"
	if err := os.WriteFile(importPath, []byte(document), 0o600); err != nil {
		t.Fatalf("write import file: %v", err)
	}

	output, err := runCLI(t, "import", importPath, "--email", "cli@example.com", "--db-path", databasePath)
	if err != nil {
		t.Fatalf("import command: %v", err)
	}
	if !strings.Contains(output, "Imported 1 of 2 entries") {
		t.Fatalf("unexpected import output %q", output)
	}
	if !strings.Contains(output, "skipped entry 2") {
		t.Fatalf("expected rejected entry to be reported, got %q", output)
	}

	output, err = runCLI(t, "summary", "--email", "cli@example.com", "--db-path", databasePath)
	if err != nil {
		t.Fatalf("summary command: %v", err)
	}
	for _, want := range []string{"cli@example.com", "Streak", "1 day(s)", "600", "Past Week"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in summary output %q", want, output)
		}
	}
}

func TestResetPasswordCommand(t *testing.T) {
	databasePath := newCLITestDatabase(t, "reset-cli@example.com")

	output, err := runCLI(t, "reset-password", "--email", "reset-cli@example.com", "--db-path", databasePath)
	if err != nil {
		t.Fatalf("reset-password command: %v", err)
	}
	if !strings.Contains(output, "Temporary password: ") {
		t.Fatalf("unexpected output %q", output)
	}

	_, err = runCLI(t, "reset-password", "--email", "missing@example.com", "--db-path", databasePath)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestSummaryRejectsUnknownRange(t *testing.T) {
	databasePath := newCLITestDatabase(t, "range-cli@example.com")

	_, err := runCLI(t, "summary", "--email", "range-cli@example.com", "--range", "decade", "--db-path", databasePath)
	if err == nil || !strings.Contains(err.Error(), "unknown range") {
		t.Fatalf("expected range error, got %v", err)
	}
}
