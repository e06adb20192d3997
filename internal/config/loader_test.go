package config_test

import (
	"strings"
	"testing"

	"github.com/verseforge/parodist/internal/config"
)

func TestValidate_MultipleErrors(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  log_level: verbose
fallbacks:
  - name: ollama
  - name: ollama
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected errors, got nil")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "completer.name") {
		t.Errorf("error should mention completer.name, got: %v", err)
	}
	if !strings.Contains(errStr, "log_level") {
		t.Errorf("error should mention log_level, got: %v", err)
	}
	if !strings.Contains(errStr, "duplicate") {
		t.Errorf("error should mention duplicate, got: %v", err)
	}
}

func TestValidBackendNames(t *testing.T) {
	t.Parallel()
	if len(config.ValidBackendNames) == 0 {
		t.Fatal("ValidBackendNames should not be empty")
	}
	found := false
	for _, n := range config.ValidBackendNames {
		if n == "openai" {
			found = true
			break
		}
	}
	if !found {
		t.Error("ValidBackendNames should contain \"openai\"")
	}
}

func TestValidate_UnknownBackendNameWarnsNotErrors(t *testing.T) {
	t.Parallel()
	yaml := `
completer:
  name: some-third-party-backend
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("unexpected error for unrecognised (but named) backend: %v", err)
	}
}
