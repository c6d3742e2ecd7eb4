package resurs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"resursbank-gateway/internal/domains/payment/model"
)

// doJSON sends body (if any) as JSON and decodes a 2xx response into out.
// Non-2xx statuses and transport failures become *model.PaymentError.
func doJSON(ctx context.Context, client *http.Client, method, url string, body, out interface{}, decorate func(*http.Request)) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if decorate != nil {
		decorate(req)
	}

	resp, err := client.Do(req)
	if err != nil {
		if isAuthFailure(err) {
			return model.NewRemoteError(model.ErrCodeRemoteUnauthorized, "token request rejected", model.ErrRemoteUnauthorized, err)
		}
		return model.NewRemoteError(model.ErrCodeRemoteUnavailable, fmt.Sprintf("%s %s failed", method, req.URL.Path), model.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return model.NewRemoteError(model.ErrCodeRemoteUnavailable, "read response", model.ErrRemoteUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return model.NewRemoteError(model.ErrCodeRemoteUnauthorized, fmt.Sprintf("remote returned %d", resp.StatusCode), model.ErrRemoteUnauthorized, nil)
	case resp.StatusCode == http.StatusNotFound:
		return model.NewRemoteError(model.ErrCodePaymentNotFound, "remote returned 404", model.ErrPaymentNotFound, nil)
	case resp.StatusCode >= 300:
		return model.NewRemoteError(model.ErrCodeRemoteUnavailable, fmt.Sprintf("remote returned %d: %s", resp.StatusCode, snippet(data)), model.ErrRemoteUnavailable, nil)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return model.NewRemoteError(model.ErrCodeMalformedResponse, "decode response", model.ErrMalformedResponse, err)
	}
	return nil
}

func snippet(b []byte) string {
	if len(b) > 200 {
		return string(b[:200]) + "..."
	}
	return string(b)
}
