package unified

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultClientTimeout = 15 * time.Second

// doJSON issues a GET against a provider and decodes the JSON response into
// out. Connection failures and non-2xx statuses come back as *UpstreamError
// so callers can branch on the provider's answer.
func doJSON(ctx context.Context, httpc *http.Client, provider, rawURL string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return &UpstreamError{Provider: provider, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &UpstreamError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UpstreamError{Provider: provider, Err: err}
	}
	return nil
}
