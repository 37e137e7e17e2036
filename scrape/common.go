package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const defaultTimeout = 10 * time.Second

/*
request body가 nil이면 body 없이 요청을 보낸다.
nil을 json.Marshal하면 "null"이 body로 들어가므로 구분한다.
*/
func sendRequest(ctx context.Context, client *http.Client, url string, method string, header map[string]string, body any, response any) error {

	var rb io.Reader
	if body != nil {
		bodyByte, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error request body marshaling: %w", err)
		}
		rb = bytes.NewBuffer(bodyByte)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, rb)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}

	for k, v := range header {
		req.Header.Set(k, v)
	}

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", ErrHTTPStatus, res.StatusCode, truncate(string(raw), 200))
	}

	if response == nil {
		return nil
	}

	if err := json.Unmarshal(raw, response); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// getBytes is sendRequest for callers that pick fields out of the raw body.
func getBytes(ctx context.Context, client *http.Client, url string, header map[string]string) ([]byte, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrHTTPStatus, res.StatusCode, truncate(string(raw), 200))
	}
	return raw, nil
}

func browserHeader() map[string]string {
	return map[string]string{
		"User-Agent":      browserUserAgent,
		"Accept":          "application/json,text/html,application/xhtml+xml,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
