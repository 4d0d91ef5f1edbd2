package stride

import (
	"net/http"
	"time"

	"github.com/Rican7/retry/backoff"
)

// Defaults applied when a request does not override them.
const (
	DefaultTimeout    = 10 * time.Second
	DefaultRetries    = 3
	DefaultRetryDelay = time.Second
)

var retryableStatus = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// RetryPolicy classifies response statuses and computes backoff delays. It
// holds no state; the orchestrator owns the retry budget.
type RetryPolicy struct{}

// Retryable reports whether a status is worth retrying. Everything outside
// the transient set is terminal.
func (RetryPolicy) Retryable(status int) bool {
	return retryableStatus[status]
}

// Delay returns the wait before retry number attempt (0-based), growing
// exponentially from base: base, 2*base, 4*base, ...
func (RetryPolicy) Delay(base time.Duration, attempt uint) time.Duration {
	return backoff.BinaryExponential(base)(attempt)
}
