package v1

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

type Job struct {
	Id       int        `json:"id"`
	Name     string     `json:"name"`
	Kind     string     `json:"kind"`
	Interval string     `json:"interval"`
	Status   string     `json:"status"`
	Runs     int        `json:"runs"`
	LastRun  *time.Time `json:"lastRun,omitempty"`
}

type JobList struct {
	Jobs []Job `json:"jobs"`
}

type RunnerStatus struct {
	Id      string  `json:"id"`
	Name    string  `json:"name"`
	Started bool    `json:"started"`
	Exited  bool    `json:"exited"`
	Error   *string `json:"error,omitempty"`
	Jobs    []Job   `json:"jobs"`
}

type NotifyRequest struct {
	Message string `json:"message"`
}

type Run struct {
	Id         string    `json:"id"`
	RunnerId   string    `json:"runnerId"`
	JobId      int       `json:"jobId"`
	JobName    string    `json:"jobName"`
	State      string    `json:"state"`
	Notified   bool      `json:"notified"`
	Result     string    `json:"result"`
	StartedAt  time.Time `json:"startedAt"`
	DurationMs float64   `json:"durationMs"`
}

type RunList struct {
	Page      int   `json:"page"`
	PageCount int   `json:"pageCount"`
	Total     int   `json:"total"`
	Runs      []Run `json:"runs"`
}

// GetRunsParams defines parameters for GetRuns and ExportRuns.
type GetRunsParams struct {
	Job      *[]string
	Result   *string
	Page     *int
	PageSize *int
}

// ShutdownParams defines parameters for Shutdown.
type ShutdownParams struct {
	Timeout *time.Duration
}
