package geoapify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fernwhistle/geomaps"
)

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 4096

func (p *Provider) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("apiKey", p.apiKey)
	endpoint := p.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &geomaps.APIError{Message: "create request", Cause: err}
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return &geomaps.APIError{Message: fmt.Sprintf("request %s", path), Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return p.classifyStatus(path, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &geomaps.APIError{StatusCode: resp.StatusCode, Message: "decode response", Cause: err}
	}
	return nil
}

// classifyStatus maps a non-2xx vendor response onto the error taxonomy.
func (p *Provider) classifyStatus(path string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		p.logger.Warn("geoapify rejected credentials", "path", path, "status", resp.StatusCode)
		return &geomaps.AuthenticationError{Message: "invalid api key or insufficient permissions"}

	case http.StatusTooManyRequests:
		retryAfter := p.parseRetryAfter(resp.Header.Get("Retry-After"))
		p.logger.Warn("geoapify rate limit hit", "path", path, "retry_after", retryAfter)
		return &geomaps.RateLimitError{Message: "rate limit exceeded", RetryAfter: retryAfter}

	default:
		p.logger.Error("geoapify request failed", "path", path, "status", resp.StatusCode, "body", string(body))
		return &geomaps.APIError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
			Message:    fmt.Sprintf("request %s failed", path),
		}
	}
}

// parseRetryAfter handles both forms of the header: delta-seconds and
// HTTP-date. Anything unparseable or in the past yields zero.
func (p *Provider) parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(header); err == nil {
		if d := at.Sub(p.clock.Now()); d > 0 {
			return d
		}
	}
	return 0
}
