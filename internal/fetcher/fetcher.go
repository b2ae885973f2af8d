// Package fetcher retrieves the raw error list page from the ISG.
package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// Config controls collector behavior.
type Config struct {
	// Timeout bounds the whole request. Zero falls back to 10 seconds.
	Timeout time.Duration
}

// Fetcher performs single blocking GETs using a Colly collector.
type Fetcher struct {
	cfg  Config
	log  *zap.Logger
	base *colly.Collector
}

// New builds a Fetcher.
func New(cfg Config, log *zap.Logger) *Fetcher {
	// Synchronous is colly's default; passing Async(false) trips a v2.1.0
	// bug where the option's argument is ignored and async is forced on.
	c := colly.NewCollector()
	c.IgnoreRobotsTxt = true // the ISG serves no robots.txt; one GET per run
	return &Fetcher{
		cfg:  cfg,
		log:  log,
		base: c,
	}
}

// Fetch issues one GET against url and returns the response body. Transport
// failures, timeouts and non-2xx statuses all surface as errors; there is no
// retry, the next cron invocation is the retry.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	collector := f.base.Clone()
	timeout := f.cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	collector.SetRequestTimeout(timeout)

	var (
		body     []byte
		fetchErr error
	)
	start := time.Now()

	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			fetchErr = fmt.Errorf("status %d: %w", r.StatusCode, err)
			return
		}
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if fetchErr != nil {
			return nil, fmt.Errorf("fetch %s: %w", url, fetchErr)
		}
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", url, err)
		}
	}

	f.log.Debug("Fetched error list page",
		zap.String("url", url),
		zap.Int("bytes", len(body)),
		zap.Duration("took", time.Since(start)),
	)
	return body, nil
}
