package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/zeebo/xxh3"

	"github.com/resonancehq/archetype-api/internal/usecase"
)

// probeCacheTTL caps how long a positive probe is trusted, in seconds.
const probeCacheTTL = 300

// HTTPProber answers reachability checks with a metadata-only request
// bounded by a short timeout, so one flaky asset host cannot stall a
// read. Positive results are cached briefly in memcached; negatives are
// not, so a repair decision always rests on a live probe. Asset URLs are
// digested with xxh3 because memcached keys cap at 250 bytes.
type HTTPProber struct {
	client *http.Client
	mc     *memcache.Client
}

func NewHTTPProber(timeout time.Duration, mc *memcache.Client) *HTTPProber {
	return &HTTPProber{
		client: &http.Client{Timeout: timeout},
		mc:     mc,
	}
}

func (p *HTTPProber) Reachable(ctx context.Context, url string) bool {
	key := fmt.Sprintf("probe:%016x", xxh3.HashString(url))

	if p.mc != nil {
		if it, err := p.mc.Get(key); err == nil && len(it.Value) == 1 && it.Value[0] == '1' {
			return true
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()

	ok := resp.StatusCode < 400
	if ok && p.mc != nil {
		if err := p.mc.Set(&memcache.Item{Key: key, Value: []byte("1"), Expiration: probeCacheTTL}); err != nil {
			slog.Debug("probe cache set failed", "error", err)
		}
	}
	return ok
}

var _ usecase.Prober = (*HTTPProber)(nil)
