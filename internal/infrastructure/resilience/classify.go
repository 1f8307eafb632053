package resilience

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// StatusCoder is implemented by provider errors that carry an HTTP status.
type StatusCoder interface {
	HTTPStatus() int
}

// StatusExtractor pulls an HTTP status out of a provider-specific error.
type StatusExtractor func(err error) (int, bool)

// HTTPClassifier treats 408, 429 and 5xx as retryable, as are network errors
// and an open breaker. Cancellation is neither retried nor counted.
func HTTPClassifier(extract StatusExtractor) ErrorClassifier {
	return func(err error) ErrorClassification {
		if err == nil {
			return ErrorClassification{}
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return ErrorClassification{Retryable: false, RecordFailure: false}
		}
		if IsCircuitOpen(err) {
			return ErrorClassification{Retryable: true, RecordFailure: true}
		}

		code, ok := statusOf(err, extract)
		if ok {
			if IsRetryableHTTPStatus(code) {
				return ErrorClassification{Retryable: true, RecordFailure: true}
			}
			return ErrorClassification{Retryable: false, RecordFailure: false}
		}

		var netErr net.Error
		if errors.As(err, &netErr) {
			return ErrorClassification{Retryable: true, RecordFailure: true}
		}
		return ErrorClassification{Retryable: false, RecordFailure: true}
	}
}

func statusOf(err error, extract StatusExtractor) (int, bool) {
	var coder StatusCoder
	if errors.As(err, &coder) {
		return coder.HTTPStatus(), true
	}
	if extract != nil {
		return extract(err)
	}
	return 0, false
}

func IsRetryableHTTPStatus(statusCode int) bool {
	switch {
	case statusCode == http.StatusRequestTimeout, statusCode == http.StatusTooManyRequests:
		return true
	case statusCode >= 500 && statusCode <= 599:
		return true
	default:
		return false
	}
}
