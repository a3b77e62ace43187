package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ScoreRequest is the body sent to a remote scoring service.
type ScoreRequest struct {
	Texts []string `json:"texts"`
}

// ScoreResponse is the body returned by a remote scoring service.
type ScoreResponse struct {
	Scores [][]float64 `json:"scores"`
}

// Remote scores batches by calling an inference service over HTTP.
type Remote struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemote creates a scorer for the service at baseURL.
func NewRemote(baseURL string, timeout time.Duration) *Remote {
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Score sends the whole batch in one POST /score call.
func (r *Remote) Score(ctx context.Context, batch []string) ([][]float64, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(ScoreRequest{Texts: batch})
	if err != nil {
		return nil, fmt.Errorf("remote scorer: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/score", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("remote scorer: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote scorer: failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("remote scorer: service returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("remote scorer: service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result ScoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("remote scorer: failed to decode response: %w", err)
	}
	if len(result.Scores) != len(batch) {
		return nil, fmt.Errorf("remote scorer: got %d score rows for %d texts", len(result.Scores), len(batch))
	}
	return result.Scores, nil
}

// Close releases idle connections.
func (r *Remote) Close() error {
	r.httpClient.CloseIdleConnections()
	return nil
}
