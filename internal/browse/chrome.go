package browse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"boradedesconto/offerworker/services/cache"
)

// renderScript runs inside ChromeDB and returns the rendered page content
// after the dynamic parts have had a moment to load.
const renderScript = `module.exports = async ({ page, context }) => {
	await page.setViewport({ width: 1280, height: 800 });
	await page.setUserAgent('Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36');
	await page.setExtraHTTPHeaders({ 'Accept-Language': 'pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7' });
	await page.goto(context.url, { timeout: 30000, waitUntil: 'domcontentloaded' });
	await page.waitForTimeout(2000);
	return await page.content();
}`

var chromeClient = &http.Client{
	Timeout: 60 * time.Second,
}

// NewChromeSession returns a session that renders pages through a ChromeDB
// service before parsing, for merchants that assemble their listings with
// JavaScript. Gated by the same rate-limit cache as plain HTTP sessions.
func NewChromeSession(addr string, cacheSvc cache.CacheService, rateKey string, blockTime time.Duration) *PageSession {
	return NewSession(RateLimited(cacheSvc, rateKey, blockTime, chromeFetch(addr)))
}

func chromeFetch(addr string) FetchFunc {
	return func(ctx context.Context, url string) (io.Reader, error) {
		payload := map[string]interface{}{
			"code": renderScript,
			"context": map[string]interface{}{
				"url": url,
			},
		}

		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal render payload: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, addr+"/function", bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create render request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := chromeClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("chromedb request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("chromedb returned status %d for %s", resp.StatusCode, url)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read rendered page: %w", err)
		}

		return bytes.NewReader(body), nil
	}
}
