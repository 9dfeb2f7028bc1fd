package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSONLoggerWritesFields(t *testing.T) {
	var output bytes.Buffer
	logger, err := New("debug", FormatJSON, &output)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	logger.WithField("user_id", 7).Debug("entry created")

	payload := map[string]any{}
	if err := json.Unmarshal(output.Bytes(), &payload); err != nil {
		t.Fatalf("decode log line %q: %v", output.String(), err)
	}
	if payload["msg"] != "entry created" {
		t.Fatalf("expected msg field, got %#v", payload)
	}
	if payload["user_id"] != float64(7) {
		t.Fatalf("expected user_id field 7, got %#v", payload["user_id"])
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var output bytes.Buffer
	logger, err := New("warn", FormatText, &output)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(output.String(), "hidden") || !strings.Contains(output.String(), "shown") {
		t.Fatalf("unexpected output for warn level: %q", output.String())
	}
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	if _, err := New("loud", FormatText, nil); err == nil {
		t.Fatal("expected invalid level error")
	}
	if _, err := New("info", "xml", nil); err == nil {
		t.Fatal("expected invalid format error")
	}
}
