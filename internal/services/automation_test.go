package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"nguoisaigon/internal/models"

	"github.com/gojek/heimdall/v7/httpclient"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestAutomation(tasks []automationTask) *ServiceAutomation {
	return &ServiceAutomation{
		// report persistence fails and is only logged; no redis in unit tests
		redisDB: redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 50 * time.Millisecond}),
		client:  httpclient.NewClient(httpclient.WithHTTPTimeout(5 * time.Second)),
		token:   "test-token",
		tasks:   tasks,
	}
}

func TestRunAllTasksSucceed(t *testing.T) {
	var mu sync.Mutex
	var authHeaders []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		mu.Unlock()
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	service := newTestAutomation([]automationTask{
		{models.TASK_CRAWL_LOCATIONS, srv.URL},
		{models.TASK_ENRICH_SUBMISSIONS, srv.URL},
		{models.TASK_DAILY_COLLECTIONS, srv.URL},
	})

	report, err := service.Run(context.Background(), AutomationOptions{})
	require.NoError(t, err)
	require.True(t, report.Success)
	require.Equal(t, 3, report.TasksTotal)
	require.Equal(t, 3, report.TasksCompleted)
	require.Len(t, report.Tasks, 3)
	require.NotEmpty(t, report.RunID)
	for _, task := range report.Tasks {
		require.True(t, task.Success)
		require.Empty(t, task.Error)
		require.Equal(t, `{"ok":true}`, task.Result)
	}

	require.Len(t, authHeaders, 3)
	for _, header := range authHeaders {
		require.Equal(t, "Bearer test-token", header)
	}
}

// A failing middle task must not stop the tasks after it.
func TestRunContinuesPastFailure(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("done"))
	}))
	defer ok.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer failing.Close()

	service := newTestAutomation([]automationTask{
		{models.TASK_CRAWL_LOCATIONS, ok.URL},
		{models.TASK_ENRICH_SUBMISSIONS, failing.URL},
		{models.TASK_DAILY_COLLECTIONS, ok.URL},
	})

	report, err := service.Run(context.Background(), AutomationOptions{})
	require.NoError(t, err)
	require.False(t, report.Success)
	require.Equal(t, 3, report.TasksTotal)
	require.Equal(t, 2, report.TasksCompleted)

	require.False(t, report.Tasks[1].Success)
	require.Contains(t, report.Tasks[1].Error, "status 500")
	require.True(t, report.Tasks[2].Success)
}

func TestRunSkipFlags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("done"))
	}))
	defer srv.Close()

	service := newTestAutomation([]automationTask{
		{models.TASK_CRAWL_LOCATIONS, srv.URL},
		{models.TASK_ENRICH_SUBMISSIONS, srv.URL},
		{models.TASK_DAILY_COLLECTIONS, srv.URL},
	})

	report, err := service.Run(context.Background(), AutomationOptions{SkipCrawl: true, SkipCollections: true})
	require.NoError(t, err)
	require.True(t, report.Success)
	require.Equal(t, 1, report.TasksTotal)
	require.Equal(t, 1, report.TasksCompleted)
	require.Len(t, report.Tasks, 3)
	require.True(t, report.Tasks[0].Skipped)
	require.False(t, report.Tasks[1].Skipped)
	require.True(t, report.Tasks[2].Skipped)
}

func TestRunTaskTruncatesLongErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, strings.Repeat("x", 2000), http.StatusBadGateway)
	}))
	defer srv.Close()

	service := newTestAutomation(nil)
	result := service.runTask(context.Background(), "run-1", automationTask{models.TASK_CRAWL_LOCATIONS, srv.URL})
	require.False(t, result.Success)
	require.Len(t, result.Error, AUTOMATION_RESULT_MAX_LEN)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short"))
	long := strings.Repeat("a", AUTOMATION_RESULT_MAX_LEN+1)
	require.Len(t, truncate(long), AUTOMATION_RESULT_MAX_LEN)
}

// The cut must land on a rune boundary, never inside a multi-byte sequence.
func TestTruncateMultiByte(t *testing.T) {
	long := strings.Repeat("quán phở ngon ", 100)
	require.Greater(t, len(long), AUTOMATION_RESULT_MAX_LEN)

	got := truncate(long)
	require.LessOrEqual(t, len(got), AUTOMATION_RESULT_MAX_LEN)
	require.True(t, utf8.ValidString(got))
	require.True(t, strings.HasPrefix(long, got))

	// force the limit to fall inside a 3-byte rune
	padded := strings.Repeat("a", AUTOMATION_RESULT_MAX_LEN-1) + "ế" + strings.Repeat("a", 10)
	got = truncate(padded)
	require.True(t, utf8.ValidString(got))
	require.Equal(t, strings.Repeat("a", AUTOMATION_RESULT_MAX_LEN-1), got)
}
