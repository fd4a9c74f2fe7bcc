package model

import "fmt"

// Trail is the human-readable decision log a stage leaves behind
type Trail struct {
	stage string
	lines []string
}

// NewTrail starts a log whose lines are prefixed with the stage name
func NewTrail(stage string) *Trail {
	return &Trail{stage: stage}
}

// Logf appends one formatted line
func (t *Trail) Logf(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	if t.stage != "" {
		line = "[" + t.stage + "] " + line
	}
	t.lines = append(t.lines, line)
}

// Lines returns a copy of the lines recorded so far
func (t *Trail) Lines() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.lines...)
}
