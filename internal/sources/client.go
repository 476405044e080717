package sources

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:133.0) Gecko/20100101 Firefox/133.0"

// ClientConfig configures the HTTP client of a provider.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
	RetryWait  time.Duration
	UserAgent  string
}

// NewClient builds a resty client that retries transport errors, 429 and 5xx
// responses. A Retry-After header on 429 overrides the wait time.
func NewClient(cfg ClientConfig) *resty.Client {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	retryWait := cfg.RetryWait
	if retryWait <= 0 {
		retryWait = time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetLogger(stdLogger{}).
		SetHeader("Accept-Charset", "utf-8").
		SetHeader("User-Agent", userAgent).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(retryWait).
		SetRetryMaxWaitTime(10 * retryWait).
		SetRetryAfter(func(client *resty.Client, resp *resty.Response) (time.Duration, error) {
			if resp.StatusCode() == http.StatusTooManyRequests {
				if retryAfter := resp.Header().Get("Retry-After"); retryAfter != "" {
					if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
						return seconds, nil
					}
					if t, err := http.ParseTime(retryAfter); err == nil {
						return time.Until(t), nil
					}
				}
			}
			return retryWait, nil
		}).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		})
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return client
}

// stdLogger routes resty diagnostics to the standard logger.
type stdLogger struct{}

func (stdLogger) Errorf(format string, v ...interface{}) {
	log.Printf("[http] ERROR "+format, v...)
}

func (stdLogger) Warnf(format string, v ...interface{}) {
	log.Printf("[http] WARN "+format, v...)
}

func (stdLogger) Debugf(format string, v ...interface{}) {}
