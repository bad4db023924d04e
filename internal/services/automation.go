package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"nguoisaigon/internal/datastore/redis_store"
	"nguoisaigon/internal/models"

	"github.com/gojek/heimdall/v7"
	"github.com/gojek/heimdall/v7/httpclient"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
)

const (
	AUTOMATION_TASK_TIMEOUT   = 5 * time.Minute
	AUTOMATION_RESULT_MAX_LEN = 500
)

type automationTask struct {
	name string
	url  string
}

type AutomationOptions struct {
	SkipCrawl       bool `json:"skip_crawl"`
	SkipEnrich      bool `json:"skip_enrich"`
	SkipCollections bool `json:"skip_collections"`
}

type ServiceAutomation struct {
	container *do.Injector
	redisDB   redis.UniversalClient
	client    *httpclient.Client

	token string
	tasks []automationTask
}

// NewServiceAutomation wires the three downstream task endpoints. The URLs
// and the bearer token come from the environment; construction fails hard
// when any is missing since a half-configured run is worse than no run.
func NewServiceAutomation(container *do.Injector, crawlURL, enrichURL, collectionsURL, token string) (*ServiceAutomation, error) {
	if crawlURL == "" || enrichURL == "" || collectionsURL == "" {
		return nil, fmt.Errorf("automation task urls are not fully configured")
	}
	if token == "" {
		return nil, fmt.Errorf("automation token is not configured")
	}

	redisDB, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	client := httpclient.NewClient(
		httpclient.WithHTTPTimeout(AUTOMATION_TASK_TIMEOUT),
		httpclient.WithRetryCount(2),
		httpclient.WithRetrier(heimdall.NewRetrier(heimdall.NewConstantBackoff(5*time.Second, 1*time.Second))),
	)

	tasks := []automationTask{
		{models.TASK_CRAWL_LOCATIONS, crawlURL},
		{models.TASK_ENRICH_SUBMISSIONS, enrichURL},
		{models.TASK_DAILY_COLLECTIONS, collectionsURL},
	}

	return &ServiceAutomation{container, redisDB, client, token, tasks}, nil
}

// Run executes the three daily tasks in order. A failing task never stops
// the ones after it; every outcome lands in the report and the report is
// persisted even when all tasks fail.
func (service *ServiceAutomation) Run(ctx context.Context, opts AutomationOptions) (*models.AutomationReport, error) {
	started := time.Now()
	report := &models.AutomationReport{
		RunID:     uuid.NewString(),
		StartedAt: started,
	}

	skips := map[string]bool{
		models.TASK_CRAWL_LOCATIONS:    opts.SkipCrawl,
		models.TASK_ENRICH_SUBMISSIONS: opts.SkipEnrich,
		models.TASK_DAILY_COLLECTIONS:  opts.SkipCollections,
	}

	for _, task := range service.tasks {
		if skips[task.name] {
			report.Tasks = append(report.Tasks, models.AutomationTaskResult{
				Name:      task.name,
				Skipped:   true,
				StartedAt: time.Now(),
			})
			continue
		}

		report.TasksTotal++
		result := service.runTask(ctx, report.RunID, task)
		if result.Success {
			report.TasksCompleted++
		}
		report.Tasks = append(report.Tasks, result)
	}

	report.Success = report.TasksCompleted == report.TasksTotal
	report.DurationMS = time.Since(started).Milliseconds()

	if err := redis_store.SetLastAutomationReport(ctx, service.redisDB, report); err != nil {
		log.Println(err)
	}

	return report, nil
}

func (service *ServiceAutomation) LastReport(ctx context.Context) (*models.AutomationReport, error) {
	return redis_store.GetLastAutomationReport(ctx, service.redisDB)
}

func (service *ServiceAutomation) runTask(ctx context.Context, runID string, task automationTask) models.AutomationTaskResult {
	started := time.Now()
	result := models.AutomationTaskResult{
		Name:      task.name,
		StartedAt: started,
	}

	ctx, cancel := context.WithTimeout(ctx, AUTOMATION_TASK_TIMEOUT)
	defer cancel()

	payload := fmt.Sprintf(`{"run_id":%q,"task":%q}`, runID, task.name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, task.url, strings.NewReader(payload))
	if err != nil {
		result.Error = truncate(err.Error())
		result.DurationMS = time.Since(started).Milliseconds()
		return result
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", service.token))
	req.Header.Set("Content-Type", "application/json")

	res, err := service.client.Do(req)
	if err != nil {
		result.Error = truncate(err.Error())
		result.DurationMS = time.Since(started).Milliseconds()
		return result
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		result.Error = truncate(err.Error())
		result.DurationMS = time.Since(started).Milliseconds()
		return result
	}

	result.DurationMS = time.Since(started).Milliseconds()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		result.Error = truncate(fmt.Sprintf("status %d: %s", res.StatusCode, body))
		return result
	}

	result.Success = true
	result.Result = truncate(string(body))
	return result
}

// truncate caps s at the report limit, backing off to a rune boundary so the
// persisted report never carries a split UTF-8 sequence.
func truncate(s string) string {
	if len(s) <= AUTOMATION_RESULT_MAX_LEN {
		return s
	}

	cut := AUTOMATION_RESULT_MAX_LEN
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return s[:cut]
}
