package parse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vqabuild/internal/util"

	"golang.org/x/time/rate"
)

// HTTPParser calls an external tagging service (a spaCy-style server exposing
// POST /parse) and adapts its response to the Parser contract. Requests are
// rate limited so a shared parse service is not flooded by parallel shards.
type HTTPParser struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

func NewHTTPParser(baseURL string, timeout time.Duration, requestsPerSecond float64) *HTTPParser {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 20
	}
	return &HTTPParser{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), int(requestsPerSecond)+1),
	}
}

func (p *HTTPParser) Parse(ctx context.Context, text string) ([]Token, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	payload, _ := json.Marshal(map[string]any{"text": text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/parse", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build parse request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrParserUnavailable, err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: status %d: %s", util.ErrParserUnavailable, resp.StatusCode, string(body))
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("parse service error %d: %s", resp.StatusCode, string(body))
	}
	var parsed struct {
		Tokens []Token `json:"tokens"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode parse response: %w", err)
	}
	if err := validate(parsed.Tokens, text); err != nil {
		return nil, fmt.Errorf("parse service returned inconsistent tokens: %w", err)
	}
	return parsed.Tokens, nil
}

func validate(tokens []Token, text string) error {
	for i, t := range tokens {
		if t.Index != i {
			return fmt.Errorf("token %d has index %d", i, t.Index)
		}
		if t.Head < 0 || t.Head >= len(tokens) {
			return fmt.Errorf("token %d has head %d out of range", i, t.Head)
		}
		if t.Start < 0 || t.End > len(text) || t.Start >= t.End {
			return fmt.Errorf("token %d has offsets [%d,%d) outside text", i, t.Start, t.End)
		}
	}
	return nil
}
