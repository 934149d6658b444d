package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{name: "default", input: "", want: slog.LevelInfo},
		{name: "debug", input: "debug", want: slog.LevelDebug},
		{name: "warn alias", input: "warning", want: slog.LevelWarn},
		{name: "error", input: "error", want: slog.LevelError},
		{name: "invalid", input: "nope", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Fatalf("parseLevel(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSetLevelAffectsExistingLoggers(t *testing.T) {
	ctx := context.Background()
	log := New("test")
	SetLevel("error")
	if log.Enabled(ctx, slog.LevelInfo) {
		t.Fatal("expected info suppressed at error level")
	}
	SetLevel("debug")
	if !log.Enabled(ctx, slog.LevelDebug) {
		t.Fatal("expected debug enabled after SetLevel(debug)")
	}
	SetLevel("")
}
