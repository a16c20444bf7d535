package artifact

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/kodhane/mevra/internal/model"
)

// Prober runs lightweight existence checks against candidate URLs. Transient
// failures are retried with backoff; a candidate that never answers stays
// unverified but is still returned, ranked below verified ones.
type Prober struct {
	httpClient *http.Client
	userAgent  string
	maxWorkers int
	attempts   uint
}

// NewProber creates a prober. maxWorkers bounds concurrent probes.
func NewProber(timeout time.Duration, userAgent string, maxWorkers int) *Prober {
	if maxWorkers <= 0 {
		maxWorkers = 3
	}
	return &Prober{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:  userAgent,
		maxWorkers: maxWorkers,
		attempts:   3,
	}
}

// VerifyAll probes every candidate concurrently and sets Verified in place.
func (p *Prober) VerifyAll(ctx context.Context, candidates []model.ArtifactCandidate) {
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, p.maxWorkers)

	for i := range candidates {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			candidates[idx].Verified = p.Verify(ctx, candidates[idx].URL)
		}(i)
	}

	wg.Wait()
}

// Verify reports whether a HEAD probe of the URL succeeds.
func (p *Prober) Verify(ctx context.Context, rawURL string) bool {
	err := retry.Do(
		func() error { return p.head(ctx, rawURL) },
		retry.Attempts(p.attempts),
		retry.Context(ctx),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	return err == nil
}

func (p *Prober) head(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		return nil
	case resp.StatusCode == 404 || resp.StatusCode == 410:
		return retry.Unrecoverable(fmt.Errorf("gone: %d", resp.StatusCode))
	default:
		return fmt.Errorf("status %d", resp.StatusCode)
	}
}
