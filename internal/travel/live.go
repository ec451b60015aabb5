package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sony/gobreaker"

	"github.com/tourflow/optimizer/internal/platform/logging"
)

// maxDestinationsPerCall is the external distance-matrix API's batch
// contract: one origin, up to 25 destinations per call.
const maxDestinationsPerCall = 25

// LiveClient queries an external distance-matrix API, batching all
// destinations sharing one origin into as few calls as possible,
// guarded by a circuit breaker and a jittered retry, with an
// in-process LRU memoization cache keyed by origin/destination id pair.
type LiveClient struct {
	APIKey     string
	Mode       string
	HTTPClient *http.Client
	BaseURL    string // overridable for tests; defaults to the Google endpoint

	breaker *gobreaker.CircuitBreaker
	cache   *lru.Cache[string, float64]
	logger  logging.Logger
}

// NewLiveClient builds a LiveClient. apiKey empty means the provider is
// effectively disabled (every call misses, falling through to haversine).
func NewLiveClient(apiKey, mode string, logger logging.Logger) *LiveClient {
	cache, _ := lru.New[string, float64](4096)
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "distance-matrix",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &LiveClient{
		APIKey:     apiKey,
		Mode:       mode,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		BaseURL:    "https://maps.googleapis.com/maps/api/distancematrix/json",
		breaker:    cb,
		cache:      cache,
		logger:     logging.OrNop(logger),
	}
}

// ETA implements Provider. Pairs already cached (for example by
// WarmBatch) are served from the cache; a cache miss issues a
// single-destination request.
func (c *LiveClient) ETA(ctx context.Context, origin, destination Point) float64 {
	if c == nil || c.APIKey == "" {
		return Unreachable
	}
	key := cacheKey(origin, destination)
	if v, ok := c.cache.Get(key); ok {
		return v
	}
	minutes, err := c.fetchBatch(ctx, origin, []Point{destination})
	if err != nil {
		c.logger.Warn("distance-matrix call failed, falling back", "error", err.Error())
		return Unreachable
	}
	v, ok := minutes[destination.ID]
	if !ok {
		return Unreachable
	}
	c.cache.Add(key, v)
	return v
}

// WarmBatch issues a single distance-matrix call for all destinations
// sharing origin and populates the cache, minimizing round-trips.
func (c *LiveClient) WarmBatch(ctx context.Context, origin Point, destinations []Point) {
	if c == nil || c.APIKey == "" || len(destinations) == 0 {
		return
	}
	for start := 0; start < len(destinations); start += maxDestinationsPerCall {
		end := start + maxDestinationsPerCall
		if end > len(destinations) {
			end = len(destinations)
		}
		batch := destinations[start:end]
		minutes, err := c.fetchBatch(ctx, origin, batch)
		if err != nil {
			c.logger.Warn("distance-matrix batch failed", "error", err.Error())
			continue
		}
		for _, d := range batch {
			if v, ok := minutes[d.ID]; ok {
				c.cache.Add(cacheKey(origin, d), v)
			}
		}
	}
}

func cacheKey(origin, destination Point) string {
	return origin.ID + "->" + destination.ID
}

type matrixResponse struct {
	Rows []struct {
		Elements []struct {
			Status   string `json:"status"`
			Duration struct {
				Value float64 `json:"value"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

func (c *LiveClient) fetchBatch(ctx context.Context, origin Point, destinations []Point) (map[string]float64, error) {
	if !origin.HasLocation {
		return nil, fmt.Errorf("origin missing coordinates")
	}
	ids := make([]string, 0, len(destinations))
	coords := make([]string, 0, len(destinations))
	for _, d := range destinations {
		if !d.HasLocation || d.ID == "" {
			continue
		}
		ids = append(ids, d.ID)
		coords = append(coords, fmt.Sprintf("%f,%f", d.Lat, d.Lng))
	}
	if len(coords) == 0 {
		return map[string]float64{}, nil
	}

	mode := c.Mode
	if mode == "" {
		mode = "driving"
	}

	q := url.Values{}
	q.Set("origins", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
	q.Set("destinations", strings.Join(coords, "|"))
	q.Set("mode", mode)
	q.Set("units", "metric")
	q.Set("key", c.APIKey)
	reqURL := c.BaseURL + "?" + q.Encode()

	var body []byte
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, retry.Do(
			func() error {
				httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
				if err != nil {
					return retry.Unrecoverable(err)
				}
				resp, err := c.HTTPClient.Do(httpReq)
				if err != nil {
					return err
				}
				defer resp.Body.Close()
				if resp.StatusCode >= 500 {
					return fmt.Errorf("distance-matrix returned %d", resp.StatusCode)
				}
				if resp.StatusCode >= 400 {
					return retry.Unrecoverable(fmt.Errorf("distance-matrix returned %d", resp.StatusCode))
				}
				decoded, err := io.ReadAll(resp.Body)
				if err != nil {
					return retry.Unrecoverable(err)
				}
				body = decoded
				return nil
			},
			retry.Attempts(3),
			retry.Delay(200*time.Millisecond),
			retry.MaxDelay(2*time.Second),
			retry.DelayType(retry.BackOffDelay),
			retry.Context(ctx),
		)
	})
	if err != nil {
		return nil, err
	}

	var parsed matrixResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode distance-matrix response: %w", err)
	}
	if len(parsed.Rows) == 0 {
		return map[string]float64{}, nil
	}

	result := make(map[string]float64, len(ids))
	for i, el := range parsed.Rows[0].Elements {
		if i >= len(ids) {
			break
		}
		if el.Status == "OK" {
			result[ids[i]] = el.Duration.Value / 60.0
		}
	}
	return result, nil
}
