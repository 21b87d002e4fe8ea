package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	ContactPath   = "/api/contact"
	FeedbackPath  = "/api/feedback"
	SubscribePath = "/api/subscribe"
)

// response mirrors the server's result body. Unknown or missing fields decode
// to zero values, and an unreadable body is treated as empty.
type response struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// API posts JSON payloads to the submission endpoints.
type API struct {
	BaseURL string
	HTTP    *http.Client
}

func NewAPI(baseURL string) *API {
	return &API{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// PostJSON never returns an error: every failure is folded into the Outcome.
func (a *API) PostJSON(ctx context.Context, path string, payload any) Outcome {
	body, err := json.Marshal(payload)
	if err != nil {
		return networkFailure(fmt.Errorf("encode payload: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return networkFailure(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := a.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return networkFailure(err)
	}
	defer resp.Body.Close()

	var data response
	_ = json.NewDecoder(resp.Body).Decode(&data)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && data.OK {
		return accepted(resp.StatusCode, data.Message)
	}
	return rejected(resp.StatusCode, data.Error)
}
