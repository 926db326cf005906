// Package client wraps the HTTP surface of the external automation job
// service: job templates, run launches, per-container status and logs, and
// result-data fetches. Consistency logic (polling, deadlines, candidate
// matching) lives in the enrichment gateway; this package only does I/O.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	client *http.Client
	cache  *cache.Cache
	base   string
	token  string
}

func New(base, token string) *Client {
	return &Client{
		client: &http.Client{Timeout: defaultTimeout},
		cache:  cache.New(10*time.Minute, 15*time.Minute),
		base:   base,
		token:  token,
	}
}

// HasCredentials reports whether the client can talk to the job service
// at all. Without a token the enrichment feature is simply unavailable.
func (c *Client) HasCredentials() bool {
	return c.base != "" && c.token != ""
}

// Template is the job configuration fetched from the service: the session
// blob the automation needs, the default input map, and a hint for where
// the service parks run results.
type Template struct {
	Session     json.RawMessage `json:"session"`
	Input       map[string]any  `json:"input"`
	StorageBase string          `json:"storageBase"`
}

// Run identifies one execution container of a job definition. ContainerID
// addresses this run's status, log and results independently of the job,
// which matters when the same definition runs concurrently.
type Run struct {
	ContainerID string `json:"containerId"`
	RunID       string `json:"runId"`
	DatasetID   string `json:"datasetId"`
	Status      string `json:"status"`
}

// RunStatus is a container status snapshot.
type RunStatus struct {
	Status   string `json:"status"`
	ExitCode int    `json:"exitCode"`
}

// Container status values reported by the job service.
const (
	StatusRunning     = "running"
	StatusFinished    = "finished"
	StatusSuccess     = "success"
	StatusError       = "error"
	StatusLaunchError = "launch-error"
)

// FetchTemplate returns the job's template, cached briefly since the
// session blob changes rarely and every enrichment needs it.
func (c *Client) FetchTemplate(ctx context.Context, jobID string) (*Template, error) {
	cacheKey := "template:" + jobID
	if x, found := c.cache.Get(cacheKey); found {
		tmpl := x.(Template)
		return &tmpl, nil
	}

	var tmpl Template
	err := c.getJSON(ctx, c.base+"/v2/jobs/"+jobID+"/template", &tmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch template: %v", err)
	}

	c.cache.Set(cacheKey, tmpl, cache.DefaultExpiration)
	return &tmpl, nil
}

// Launch starts a run of the job with the given template.
func (c *Client) Launch(ctx context.Context, jobID string, tmpl Template) (*Run, error) {
	body, err := json.Marshal(tmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to encode template: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v2/jobs/"+jobID+"/runs", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to launch run: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("launch returned status %d", resp.StatusCode)
	}

	var run Run
	if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
		return nil, fmt.Errorf("failed to decode run: %v", err)
	}
	return &run, nil
}

// Poll returns the current status of a container.
func (c *Client) Poll(ctx context.Context, containerID string) (*RunStatus, error) {
	var status RunStatus
	err := c.getJSON(ctx, c.base+"/v2/containers/"+containerID+"/status", &status)
	if err != nil {
		return nil, fmt.Errorf("failed to poll container: %v", err)
	}
	return &status, nil
}

// ContainerLog fetches the free-text log scoped to one container. The
// job-level aggregate log is deliberately not exposed here: it can
// interleave output from a different concurrent run of the same job.
func (c *Client) ContainerLog(ctx context.Context, containerID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/v2/containers/"+containerID+"/log", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch container log: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read container log: %v", err)
	}
	return string(b), nil
}

// FetchResult fetches a result-data document from an absolute URL located
// by the extraction chain.
func (c *Client) FetchResult(ctx context.Context, url string, result any) error {
	return c.getJSON(ctx, url, result)
}

func (c *Client) getJSON(ctx context.Context, url string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	err = json.NewDecoder(resp.Body).Decode(result)
	if err != nil {
		return fmt.Errorf("failed to decode response: %v", err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
