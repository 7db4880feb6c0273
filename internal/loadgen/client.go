package loadgen

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// Outcome classifies one response.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"        // real answer
	OutcomeDegraded Outcome = "degraded"  // insufficient_data, failed or error recommendation
	OutcomeRejected Outcome = "rejected"  // 4xx
	OutcomeFailed   Outcome = "failed"    // transport error or 5xx
	OutcomeDup      Outcome = "duplicate" // job id seen before
)

// JobState is the polled view of a batch job.
type JobState struct {
	Status    string
	Total     int
	Completed int
}

// Done reports whether the job has finished.
func (s JobState) Done() bool { return s.Status == "done" }

// Client talks to the analytics HTTP API.
type Client struct {
	http *resty.Client
}

// NewClient creates a client for baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &Client{http: c}
}

// Health checks GET /healthz.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: %w %d", ErrUnhealthy, ErrUnexpectedCode, resp.StatusCode())
	}
	return nil
}

// Send posts one engine request and classifies the response.
func (c *Client) Send(ctx context.Context, req Request) (Outcome, error) {
	resp, err := c.http.R().SetContext(ctx).SetBody(req.Body).Post(opPaths[req.Op])
	if err != nil {
		return OutcomeFailed, fmt.Errorf("%s: %w", req.Op, err)
	}
	if out, ok := byStatusCode(resp.StatusCode()); !ok {
		return out, fmt.Errorf("%s: %w %d: %s", req.Op, ErrUnexpectedCode, resp.StatusCode(), gjson.Get(resp.String(), "message").String())
	}
	return classify(req.Op, resp.String()), nil
}

// SubmitJob posts a batch job. The returned id is the one the service
// recorded.
func (c *Client) SubmitJob(ctx context.Context, job JobRequest) (string, Outcome, error) {
	resp, err := c.http.R().SetContext(ctx).SetBody(job).Post(opPaths[OpJobSubmit])
	if err != nil {
		return "", OutcomeFailed, fmt.Errorf("%s: %w", OpJobSubmit, err)
	}
	body := resp.String()
	switch resp.StatusCode() {
	case http.StatusAccepted:
		return gjson.Get(body, "job_id").String(), OutcomeOK, nil
	case http.StatusOK:
		return gjson.Get(body, "job_id").String(), OutcomeDup, nil
	case http.StatusTooManyRequests:
		return "", OutcomeRejected, nil
	}
	out, _ := byStatusCode(resp.StatusCode())
	return "", out, fmt.Errorf("%s: %w %d: %s", OpJobSubmit, ErrUnexpectedCode, resp.StatusCode(), gjson.Get(body, "message").String())
}

// Job fetches the state of a batch job.
func (c *Client) Job(ctx context.Context, id string) (JobState, error) {
	resp, err := c.http.R().SetContext(ctx).SetPathParam("id", id).Get("/v1/analysis/jobs/{id}")
	if err != nil {
		return JobState{}, fmt.Errorf("job %s: %w", id, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return JobState{}, fmt.Errorf("job %s: %w %d", id, ErrUnexpectedCode, resp.StatusCode())
	}
	res := gjson.GetMany(resp.String(), "status", "total", "completed")
	return JobState{Status: res[0].String(), Total: int(res[1].Int()), Completed: int(res[2].Int())}, nil
}

func byStatusCode(code int) (Outcome, bool) {
	switch {
	case code == http.StatusOK:
		return OutcomeOK, true
	case code >= http.StatusInternalServerError:
		return OutcomeFailed, false
	default:
		return OutcomeRejected, false
	}
}

// classify reads a 200 body and decides whether the service produced a real
// answer.
func classify(op Operation, body string) Outcome {
	switch op {
	case OpAnalysis, OpPrediction, OpSchedule:
		if gjson.Get(body, "status").String() != "ok" {
			return OutcomeDegraded
		}
	case OpSimilarity:
		if !gjson.Get(body, "similarity").Exists() {
			return OutcomeDegraded
		}
	case OpRecommendation:
		recs := gjson.Get(body, "recommendations")
		if recs.Get("#").Int() == 0 || recs.Get(`#(type=="error")`).Exists() {
			return OutcomeDegraded
		}
	}
	return OutcomeOK
}
