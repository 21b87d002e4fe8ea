package contact

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Verification is the verification service's answer for one token.
// Score is nil when the service did not evaluate the token.
type Verification struct {
	Success    bool     `json:"success"`
	Score      *float64 `json:"score,omitempty"`
	Action     string   `json:"action,omitempty"`
	Hostname   string   `json:"hostname,omitempty"`
	ErrorCodes []string `json:"error-codes,omitempty"`
}

// Rejects reports whether v is a meaningful failure. A failure without a
// score comes from a check that is not really configured and is ignored.
func (v *Verification) Rejects() bool {
	return v != nil && !v.Success && v.Score != nil
}

type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (*Verification, error)
}

// RecaptchaVerifier checks tokens against a siteverify-compatible endpoint.
type RecaptchaVerifier struct {
	secret   string
	endpoint string
	client   *http.Client
}

func NewRecaptchaVerifier(secret, endpoint string, timeout time.Duration) *RecaptchaVerifier {
	if endpoint == "" {
		endpoint = DefaultVerifyURL
	}
	return &RecaptchaVerifier{
		secret:   secret,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (s *RecaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) (*Verification, error) {
	data := url.Values{}
	data.Set("secret", s.secret)
	data.Set("response", token)
	if remoteIP != "" {
		data.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	defer resp.Body.Close()

	var result Verification
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode verify response (status %d): %w", resp.StatusCode, err)
	}
	return &result, nil
}
