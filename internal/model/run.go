package model

import "time"

// RunStatus represents the current state of an extraction run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Document is a text loaded from a file or URL.
type Document struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Text   string `json:"text"`
}

// RunParams records the arguments a run was evaluated with.
type RunParams struct {
	Locale    string    `json:"locale"`
	Strict    bool      `json:"strict"`
	Threshold float64   `json:"threshold"`
	BaseDate  time.Time `json:"base_date"`
}

// Run is one extraction pass over a single document.
type Run struct {
	ID          string           `json:"id"`
	Source      string           `json:"source"`
	Params      RunParams        `json:"params"`
	Status      RunStatus        `json:"status"`
	Error       string           `json:"error,omitempty"`
	Annotations []DateAnnotation `json:"annotations,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
