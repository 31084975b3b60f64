package payment

import (
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"
)

// RetryError is returned when a provider call fails for good.
type RetryError struct {
	URL        string
	Attempts   int
	LastStatus int
	LastError  error
}

func (e *RetryError) Error() string {
	msg := "payment request " + e.URL + " failed after " + strconv.Itoa(e.Attempts) + " attempts"
	if e.LastStatus != 0 {
		msg += " (HTTP " + strconv.Itoa(e.LastStatus) + ")"
	}
	if e.LastError != nil {
		msg += ": " + e.LastError.Error()
	}
	return msg
}

func (e *RetryError) Unwrap() error { return e.LastError }

// IsRetryableStatus reports whether a response status is worth retrying:
// 429 and every 5xx.
func IsRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || (status >= 500 && status < 600)
}

// Backoff is the exponential delay before retry attempt+1, capped at
// MaxBackoff, plus up to 25% jitter.
func Backoff(attempt int, cfg Config) time.Duration {
	return withJitter(capped(float64(cfg.InitialBackoff)*math.Pow(2, float64(attempt)), cfg))
}

// RateLimitBackoff is the delay after a 429. A Retry-After header in seconds
// wins; otherwise the delay grows threefold per attempt.
func RateLimitBackoff(attempt int, cfg Config, retryAfter string) time.Duration {
	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		return time.Duration(seconds)*time.Second + time.Duration(rand.Int64N(int64(time.Second)))
	}
	return withJitter(capped(float64(cfg.InitialBackoff)*math.Pow(3, float64(attempt)), cfg))
}

func capped(d float64, cfg Config) float64 {
	return math.Min(d, float64(cfg.MaxBackoff))
}

func withJitter(d float64) time.Duration {
	return time.Duration(d + rand.Float64()*0.25*d)
}
