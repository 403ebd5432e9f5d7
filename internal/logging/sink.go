package logging

import "strings"

// ChannelSink is a zapcore.WriteSyncer that forwards complete log lines to a
// channel for TUI consumption. The channel should be buffered; if the buffer
// is full, lines are dropped rather than blocking the logging call site.
type ChannelSink struct {
	lines chan string
}

// NewChannelSink creates a sink with the given channel buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{lines: make(chan string, buffer)}
}

// Lines returns the channel log lines are delivered on.
func (s *ChannelSink) Lines() <-chan string {
	return s.lines
}

// Write forwards each write as one line, without the trailing newline.
func (s *ChannelSink) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	select {
	case s.lines <- line:
	default:
		// Drop if buffer full, don't block execution
	}
	return len(p), nil
}

// Sync implements zapcore.WriteSyncer. There is nothing to flush.
func (s *ChannelSink) Sync() error {
	return nil
}
