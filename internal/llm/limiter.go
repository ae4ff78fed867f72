package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedClient spaces out requests to a fixed rate before delegating.
// It does not back off or retry.
type RateLimitedClient struct {
	Client
	limiter *rate.Limiter
}

// WithRateLimit wraps c so that at most rps requests start per second.
// A non-positive rps returns c unchanged.
func WithRateLimit(c Client, rps float64, burst int) Client {
	if rps <= 0 {
		return c
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedClient{
		Client:  c,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// GenerateJSON waits for a token, then calls the wrapped client
func (c *RateLimitedClient) GenerateJSON(ctx context.Context, req Request) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.Client.GenerateJSON(ctx, req)
}
