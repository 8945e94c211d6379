package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func parseLine(t *testing.T, line string) Entry {
	t.Helper()
	var e Entry
	if err := json.Unmarshal([]byte(line), &e); err != nil {
		t.Fatalf("Log line is not valid JSON: %v\n%s", err, line)
	}
	return e
}

func TestJSONLogger_BasicOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, InfoLevel)

	log.Info("graph loaded", Int("nodes", 7), String("dataset", "abc"))

	e := parseLine(t, buf.String())
	if e.Level != "INFO" {
		t.Errorf("Expected level INFO, got %q", e.Level)
	}
	if e.Message != "graph loaded" {
		t.Errorf("Expected message %q, got %q", "graph loaded", e.Message)
	}
	if e.Fields["nodes"] != float64(7) {
		t.Errorf("Expected nodes field 7, got %v", e.Fields["nodes"])
	}
	if e.Fields["dataset"] != "abc" {
		t.Errorf("Expected dataset field abc, got %v", e.Fields["dataset"])
	}
	if e.Time == "" {
		t.Error("Timestamp must be populated")
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, WarnLevel)

	log.Debug("dropped")
	log.Info("dropped")
	log.Warn("kept")
	log.Error("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), buf.String())
	}

	log.SetLevel(DebugLevel)
	buf.Reset()
	log.Debug("now visible")
	if buf.Len() == 0 {
		t.Error("Debug must pass after lowering the level")
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, InfoLevel)

	child := log.With(Component("session"))
	child.Info("tick", Int("n", 1))

	e := parseLine(t, buf.String())
	if e.Fields["component"] != "session" {
		t.Errorf("Child logger must carry pre-set fields, got %v", e.Fields)
	}
	if e.Fields["n"] != float64(1) {
		t.Errorf("Call-site fields must survive, got %v", e.Fields)
	}

	// Parent is unaffected.
	buf.Reset()
	log.Info("parent")
	e = parseLine(t, buf.String())
	if _, ok := e.Fields["component"]; ok {
		t.Error("Parent logger must not inherit child fields")
	}
}

func TestJSONLogger_FieldOverride(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, InfoLevel).With(String("k", "base"))

	log.Info("msg", String("k", "override"))

	e := parseLine(t, buf.String())
	if e.Fields["k"] != "override" {
		t.Errorf("Call-site field must win over pre-set, got %v", e.Fields["k"])
	}
}

func TestFieldConstructors(t *testing.T) {
	err := errors.New("boom")
	tests := []struct {
		field Field
		key   string
		value any
	}{
		{String("s", "v"), "s", "v"},
		{Int("i", 3), "i", 3},
		{Float64("f", 1.5), "f", 1.5},
		{Error(err), "error", "boom"},
		{Duration("d", time.Second), "d", "1s"},
		{NodeIndex(4), "node_index", 4},
		{Dataset("x"), "dataset", "x"},
	}
	for _, tt := range tests {
		if tt.field.Key != tt.key {
			t.Errorf("Key: expected %q, got %q", tt.key, tt.field.Key)
		}
		if tt.field.Value != tt.value {
			t.Errorf("%s value: expected %v, got %v", tt.key, tt.value, tt.field.Value)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warning", WarnLevel},
		{"ERROR", ErrorLevel},
		{"nonsense", InfoLevel},
		{"", InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, InfoLevel)

	timer := StartTimer(log, "dataset loaded", Dataset("ds-1"))
	timer.End()

	e := parseLine(t, buf.String())
	if e.Message != "dataset loaded" {
		t.Errorf("Unexpected message %q", e.Message)
	}
	if _, ok := e.Fields["latency"]; !ok {
		t.Error("Timer must attach a latency field")
	}

	buf.Reset()
	StartTimer(log, "load failed").EndError(errors.New("bad file"))
	e = parseLine(t, buf.String())
	if e.Level != "ERROR" {
		t.Errorf("EndError must log at ERROR, got %q", e.Level)
	}
	if e.Fields["error"] != "bad file" {
		t.Errorf("Expected error field, got %v", e.Fields)
	}
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	log.Info("ignored", Int("n", 1))
	log.With(String("k", "v")).Error("ignored")
	log.SetLevel(DebugLevel)
}
