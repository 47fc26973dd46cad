package pypi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/bestof/pkg/httputil"
	"github.com/matzehuels/bestof/pkg/integrations"
)

const (
	statsAttempts  = 3
	statsRetryStep = 10 * time.Second
)

type recentResponse struct {
	Data struct {
		LastMonth int `json:"last_month"`
	} `json:"data"`
}

// FetchMonthlyDownloads returns the downloads of the last month reported by
// pypistats.org. Requests are throttled to the service limit; a 429 answer
// is retried with linearly increasing sleeps before the rate-limit error is
// returned.
func (c *Client) FetchMonthlyDownloads(ctx context.Context, pkg string, refresh bool) (int, error) {
	pkg = integrations.NormalizePkgName(pkg)

	var resp recentResponse
	err := httputil.RetryRateLimited(ctx, statsAttempts, statsRetryStep, func() error {
		return c.Cached(ctx, "stats:"+pkg, refresh, &resp, func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
			err := c.Get(ctx, fmt.Sprintf("%s/packages/%s/recent?period=month", c.statsURL, pkg), &resp)
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: pypistats package %s", err, pkg)
			}
			return err
		})
	})
	if err != nil {
		return 0, err
	}
	return resp.Data.LastMonth, nil
}
