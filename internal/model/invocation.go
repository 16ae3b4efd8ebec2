package model

import "time"

// Invocation is one execution of the external claude binary.
// This is a pure domain model with no database-specific dependencies or tags.
type Invocation struct {
	ID         string    `json:"id"`
	Command    string    `json:"command"`
	Stdout     string    `json:"stdout"`
	Stderr     string    `json:"stderr"`
	ExitCode   int       `json:"exit_code"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}
