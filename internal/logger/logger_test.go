package logger

import (
	"testing"

	"go.uber.org/zap"
)

func TestNewBuildsForEachEnv(t *testing.T) {
	for _, env := range []string{"production", "development", ""} {
		l, err := New(env)
		if err != nil {
			t.Fatalf("New(%q): %v", env, err)
		}
		if l == nil {
			t.Fatalf("New(%q) returned nil logger", env)
		}
	}
}

func TestProductionLoggerSkipsDebug(t *testing.T) {
	l, err := New("production")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.Core().Enabled(zap.DebugLevel) {
		t.Fatal("production logger should not emit debug entries")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("expected no-op logger")
	}
	l := zap.NewExample()
	if OrNop(l) != l {
		t.Fatal("expected the given logger back")
	}
}
