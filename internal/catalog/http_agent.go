package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPAgent talks to a remote schema agent:
//
//	POST {base}/schema-jobs {"connectionId": ...} -> {"jobId": ...}
//	GET  {base}/schema-jobs/{id}                 -> JobStatus
type HTTPAgent struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPAgent(baseURL string, client *http.Client) *HTTPAgent {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPAgent{BaseURL: strings.TrimRight(baseURL, "/"), Client: client}
}

func (a *HTTPAgent) SubmitSchemaJob(ctx context.Context, connectionID string) (string, error) {
	body, err := json.Marshal(map[string]string{"connectionId": connectionID})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/schema-jobs", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		JobID string `json:"jobId"`
	}
	if err := a.do(req, &out); err != nil {
		return "", err
	}
	if out.JobID == "" {
		return "", fmt.Errorf("agent returned no job id")
	}
	return out.JobID, nil
}

func (a *HTTPAgent) JobStatus(ctx context.Context, jobID string) (*JobStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+"/schema-jobs/"+url.PathEscape(jobID), nil)
	if err != nil {
		return nil, err
	}
	var st JobStatus
	if err := a.do(req, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (a *HTTPAgent) do(req *http.Request, out any) error {
	resp, err := a.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("agent %s %s: %s: %s", req.Method, req.URL.Path, resp.Status, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode agent response: %w", err)
	}
	return nil
}
