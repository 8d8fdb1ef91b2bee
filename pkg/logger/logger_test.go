package logger

import "testing"

func TestInitAcceptsKnownLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		if err := Init(level); err != nil {
			t.Fatalf("Init(%q) returned error: %v", level, err)
		}
	}
}

func TestInitFallsBackOnUnknownLevel(t *testing.T) {
	if err := Init("shouting"); err != nil {
		t.Fatalf("expected unknown level to fall back to info, got %v", err)
	}
	if Logger() == nil {
		t.Fatal("expected a usable logger")
	}
}

func TestWithModuleNeverNil(t *testing.T) {
	if WithModule("test") == nil {
		t.Fatal("expected module logger")
	}
}
