package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"larder/pkg/apperr"
)

const replyTimeout = 60 * time.Second

// HTTP calls the assistant service over REST.
type HTTP struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTP constructs an HTTP assistant client for the given service.
func NewHTTP(baseURL, apiKey string) *HTTP {
	return &HTTP{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: replyTimeout},
	}
}

func (h *HTTP) Reply(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "encode assistant request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/v1/reply", bytes.NewReader(body))
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "build assistant request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "assistant unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little of the body for the log line without trusting it.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperr.New(apperr.CodeInternal,
			fmt.Sprintf("assistant returned %d: %s", resp.StatusCode, snippet))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "decode assistant response", err)
	}
	return &out, nil
}
