package weatherapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// APIError is a failed call to the remote weather API. Status is zero for
// timeouts, which never produced a response.
type APIError struct {
	Endpoint string
	Status   int
	Detail   string
	Timeout  bool
}

func (e *APIError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("weather api %s: the query is taking longer than expected, wait a moment and retry", e.Endpoint)
	case e.Status == http.StatusGatewayTimeout:
		return fmt.Sprintf("weather api %s: the server is still processing the data, wait a moment and retry", e.Endpoint)
	case e.Status >= http.StatusInternalServerError:
		return fmt.Sprintf("weather api %s: internal server error (status %d), retry in a few seconds", e.Endpoint, e.Status)
	case e.Detail != "":
		return fmt.Sprintf("weather api %s: status %d: %s", e.Endpoint, e.Status, e.Detail)
	default:
		return fmt.Sprintf("weather api %s: status %d", e.Endpoint, e.Status)
	}
}

// Retryable reports whether the same request may succeed later.
func (e *APIError) Retryable() bool {
	return e.Timeout || e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

// IsRetryable reports whether err is an APIError worth retrying.
func IsRetryable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Retryable()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// parseDetail extracts the error detail from an upstream error body. The
// upstream sends {"detail": "..."} or, for validation failures, a list of
// objects with a "msg" field.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return string(envelope.Detail)
}
