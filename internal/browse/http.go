package browse

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"boradedesconto/offerworker/helpers"
	"boradedesconto/offerworker/services/cache"
)

// NewHTTPSession returns a session that fetches pages over plain HTTP with
// randomized browser-like headers, gated by the rate-limit cache.
func NewHTTPSession(cacheSvc cache.CacheService, rateKey string, blockTime time.Duration) *PageSession {
	return NewSession(RateLimited(cacheSvc, rateKey, blockTime, httpFetch))
}

func httpFetch(ctx context.Context, url string) (io.Reader, error) {
	return helpers.FetchWithRandomHeaders(ctx, url)
}

// RateLimited wraps a fetch function with a cache-backed gate: after a
// rate-limit response, further fetches under the same key fail fast until
// blockTime elapses.
func RateLimited(cacheSvc cache.CacheService, key string, blockTime time.Duration, fetch FetchFunc) FetchFunc {
	return func(ctx context.Context, url string) (io.Reader, error) {
		if cacheSvc != nil && key != "" {
			if _, err := cacheSvc.Get(key); err == nil {
				return nil, fmt.Errorf("%s: blocked for %d seconds after rate limit", key, int(blockTime/time.Second))
			}
		}

		body, err := fetch(ctx, url)
		if err != nil {
			if cacheSvc != nil && key != "" && strings.HasPrefix(err.Error(), "rate limited") {
				cacheSvc.Set(key, []byte(strconv.Itoa(int(blockTime/time.Second))), blockTime)
			}
			return nil, err
		}

		return body, nil
	}
}
