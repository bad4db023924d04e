package models

import "time"

const (
	TASK_CRAWL_LOCATIONS    = "crawl-new-locations"
	TASK_ENRICH_SUBMISSIONS = "enrich-pending-submissions"
	TASK_DAILY_COLLECTIONS  = "generate-daily-collections"
)

type AutomationTaskResult struct {
	Name       string    `json:"name" msgpack:"name"`
	Success    bool      `json:"success" msgpack:"success"`
	Skipped    bool      `json:"skipped" msgpack:"skipped"`
	StartedAt  time.Time `json:"started_at" msgpack:"started_at"`
	DurationMS int64     `json:"duration_ms" msgpack:"duration_ms"`
	Result     string    `json:"result,omitempty" msgpack:"result"`
	Error      string    `json:"error,omitempty" msgpack:"error"`
}

type AutomationReport struct {
	RunID          string                 `json:"run_id" msgpack:"run_id"`
	Success        bool                   `json:"success" msgpack:"success"`
	TasksTotal     int                    `json:"tasks_total" msgpack:"tasks_total"`
	TasksCompleted int                    `json:"tasks_completed" msgpack:"tasks_completed"`
	Tasks          []AutomationTaskResult `json:"tasks" msgpack:"tasks"`
	StartedAt      time.Time              `json:"started_at" msgpack:"started_at"`
	DurationMS     int64                  `json:"duration_ms" msgpack:"duration_ms"`
}
