package trello

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/containerd/errdefs"
)

// ErrConnectionFailed wraps transport errors: the API could not be reached.
var ErrConnectionFailed = errdefs.ErrUnavailable.WithMessage("cannot reach trello")

// maxErrorBody bounds how much of an error answer is read.
const maxErrorBody = 1 << 20

// StatusError is a non-2xx answer of the API. It unwraps to the errdefs class
// matching the status, so errdefs.IsNotFound and friends work on it.
type StatusError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("trello %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

func (e *StatusError) Unwrap() error {
	return classify(e.StatusCode)
}

func classify(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return errdefs.ErrUnauthenticated
	case status == http.StatusForbidden:
		return errdefs.ErrPermissionDenied
	case status == http.StatusNotFound:
		return errdefs.ErrNotFound
	case status == http.StatusConflict:
		return errdefs.ErrConflict
	case status == http.StatusTooManyRequests:
		return errdefs.ErrResourceExhausted
	case status >= http.StatusInternalServerError:
		return errdefs.ErrUnavailable
	case status >= http.StatusBadRequest:
		return errdefs.ErrInvalidArgument
	}
	return errdefs.ErrUnknown
}

func checkResponseErr(resp *http.Response, method, path string) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	statusErr := &StatusError{StatusCode: resp.StatusCode, Method: method, Path: path}
	if resp.Body == nil {
		return statusErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return statusErr
	}
	statusErr.Message = errorMessage(resp.Header.Get("Content-Type"), body)
	return statusErr
}

// errorMessage extracts the message of an error answer. Trello answers with
// plain text for most errors and with {"message": ...} for some.
func errorMessage(contentType string, body []byte) string {
	if strings.HasPrefix(contentType, "application/json") {
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(body, &payload); err == nil {
			if payload.Message != "" {
				return payload.Message
			}
			if payload.Error != "" {
				return payload.Error
			}
		}
	}
	return strings.TrimSpace(string(body))
}
