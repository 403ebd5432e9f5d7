package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		want    zapcore.Level
		wantErr bool
	}{
		{name: "debug", level: "debug", want: zapcore.DebugLevel},
		{name: "info", level: "info", want: zapcore.InfoLevel},
		{name: "warning", level: "warning", want: zapcore.WarnLevel},
		{name: "error", level: "error", want: zapcore.ErrorLevel},
		{name: "critical", level: "critical", want: zapcore.FatalLevel},
		{name: "unknown", level: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.level)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for unknown level, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("failed to parse level: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected level %v, got: %v", tt.want, got)
			}
		})
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("loud"); err == nil {
		t.Error("expected error for unknown level, got nil")
	}
}

func TestChannelSinkDeliversLines(t *testing.T) {
	sink := NewChannelSink(10)

	if _, err := sink.Write([]byte("first line\n")); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	select {
	case line := <-sink.Lines():
		if line != "first line" {
			t.Errorf("expected trimmed line, got: %q", line)
		}
	default:
		t.Fatal("expected a line on the channel")
	}
}

func TestChannelSinkDropsWhenFull(t *testing.T) {
	sink := NewChannelSink(1)

	sink.Write([]byte("kept\n"))
	sink.Write([]byte("dropped\n"))

	if got := <-sink.Lines(); got != "kept" {
		t.Errorf("expected first line kept, got: %q", got)
	}
	select {
	case line := <-sink.Lines():
		t.Errorf("expected second line dropped, got: %q", line)
	default:
	}
}

func TestNewWithSinkWritesThroughSink(t *testing.T) {
	sink := NewChannelSink(10)
	logger, err := NewWithSink("info", sink)
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}

	logger.Info("configlet updated")

	select {
	case line := <-sink.Lines():
		if !strings.Contains(line, "configlet updated") {
			t.Errorf("expected log message in line, got: %q", line)
		}
	default:
		t.Fatal("expected a log line on the sink channel")
	}
}

func TestNewWithSinkFiltersBelowLevel(t *testing.T) {
	sink := NewChannelSink(10)
	logger, err := NewWithSink("error", sink)
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}

	logger.Info("suppressed")

	select {
	case line := <-sink.Lines():
		t.Errorf("expected info suppressed at error level, got: %q", line)
	default:
	}
}
