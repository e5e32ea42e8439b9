package dto

import "time"

// CollectRequest optionally overrides the configured search query.
type CollectRequest struct {
	Query string `json:"query"`
}

// RunStats mirrors the counters of a finished run.
type RunStats struct {
	Outcome    string `json:"outcome"`
	Pages      int    `json:"pages"`
	Discovered int    `json:"discovered"`
	Emitted    int    `json:"emitted"`
	Dropped    int    `json:"dropped"`
}

// RunResponse describes a collection run.
type RunResponse struct {
	ID         string     `json:"id"`
	Status     string     `json:"status"`
	Query      string     `json:"query"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Stats      *RunStats  `json:"stats,omitempty"`
	Error      string     `json:"error,omitempty"`
}
