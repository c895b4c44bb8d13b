package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/gdax/pkg/logger"
)

// Submission outcomes.
const (
	resultSuccess   = "success"
	resultDuplicate = "duplicate"
	resultFailed    = "failed"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// getJSON fetches url and decodes a 200 body into v.
func (c *HTTPClient) getJSON(ctx context.Context, url string, v any) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d: %s", url, resp.StatusCode, body)
	}
	return json.Unmarshal(body, v)
}

type submitResponse struct {
	Success  bool  `json:"success"`
	SurveyID int64 `json:"survey_id"`
}

// submitSurveys posts surveys concurrently and records the assigned ids.
func submitSurveys(ctx context.Context, config *Config, surveys []Survey, stats *Stats) {
	log := logger.Named("loadtest")
	log.Info(ctx, "submitting surveys", logger.Int("count", len(surveys)), logger.Int("workers", config.Workers))

	var successful, duplicate, failed int64
	runPool(ctx, config.Workers, len(surveys), func(i int) {
		id, result := submitSingleSurvey(ctx, newHTTPClient(config.Timeout), config.BaseURL, surveys[i])
		switch result {
		case resultSuccess:
			surveys[i].ID = id
			atomic.AddInt64(&successful, 1)
		case resultDuplicate:
			atomic.AddInt64(&duplicate, 1)
		default:
			atomic.AddInt64(&failed, 1)
		}
	})

	stats.SurveysSubmitted += len(surveys)
	stats.SurveysSuccessful += int(successful)
	stats.SurveysDuplicate += int(duplicate)
	stats.SurveysFailed += int(failed)

	log.Info(ctx, "survey submission completed",
		logger.Int64("successful", successful),
		logger.Int64("duplicate", duplicate),
		logger.Int64("failed", failed))
}

// resubmitSurveys re-posts up to n stored surveys with their original keys.
// Every one of them must come back as a duplicate.
func resubmitSurveys(ctx context.Context, config *Config, surveys []Survey, n int, stats *Stats) error {
	if n <= 0 {
		return nil
	}
	stored := make([]int, 0, len(surveys))
	for i := range surveys {
		if surveys[i].ID != 0 {
			stored = append(stored, i)
		}
	}
	if n > len(stored) {
		n = len(stored)
	}
	var duplicate, unexpected int64
	runPool(ctx, config.Workers, n, func(i int) {
		_, result := submitSingleSurvey(ctx, newHTTPClient(config.Timeout), config.BaseURL, surveys[stored[i]])
		if result == resultDuplicate {
			atomic.AddInt64(&duplicate, 1)
			return
		}
		atomic.AddInt64(&unexpected, 1)
	})

	stats.SurveysSubmitted += n
	stats.SurveysDuplicate += int(duplicate)
	stats.SurveysFailed += int(unexpected)

	logger.Named("loadtest").Info(ctx, "duplicate resubmission completed",
		logger.Int("resubmitted", n),
		logger.Int64("rejected", duplicate),
		logger.Int64("unexpected", unexpected))

	if int(duplicate) != n {
		return fmt.Errorf("%d of %d resubmissions were not rejected as duplicates", n-int(duplicate), n)
	}
	return nil
}

func submitSingleSurvey(ctx context.Context, client *HTTPClient, baseURL string, s Survey) (int64, string) {
	resp, err := client.Post(ctx, baseURL+"/api/survey", formBody(s))
	if err != nil {
		return 0, resultFailed
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var ack submitResponse
		if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil || !ack.Success {
			return 0, resultFailed
		}
		return ack.SurveyID, resultSuccess
	case http.StatusConflict:
		return 0, resultDuplicate
	default:
		return 0, resultFailed
	}
}

// runPool calls fn for every index in [0, n) on at most workers goroutines.
func runPool(ctx context.Context, workers, n int, fn func(i int)) {
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan int, workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				fn(i)
			}
		}()
	}

send:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			break send
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
}

func reportURL(baseURL string, id int64) string {
	return baseURL + "/api/report/" + strconv.FormatInt(id, 10)
}
