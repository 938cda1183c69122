// Package isochrone provides a client for an external reachability provider
// that returns the polygon reachable within a given distance of a point.
// Callers must treat every error identically to "unavailable" and fall back
// to a local approximation.
package isochrone

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client fetches a reachability polygon around a centroid.
type Client interface {
	// Polygon returns the region reachable within radiusKM of (lat, lng).
	// Any error means the provider is unavailable for this request.
	Polygon(ctx context.Context, lat, lng, radiusKM float64) (*geom.Polygon, error)
}

// ErrUnavailable is returned by the stub client and wrapped by the HTTP
// client for malformed or failed provider responses.
var ErrUnavailable = eris.New("isochrone: provider unavailable")

// HTTPClient talks to a LatLong-style API hub isochrone endpoint.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
	limiter *rate.Limiter
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.client = hc
	}
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithRateLimit caps outbound provider calls per second to bound cost.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *HTTPClient) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// NewHTTPClient creates a provider client for the given base URL and token.
func NewHTTPClient(baseURL, token string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// response is the provider envelope: a status plus a GeoJSON feature.
type response struct {
	Status string `json:"status"`
	Data   struct {
		Geometry json.RawMessage `json:"geometry"`
	} `json:"data"`
}

// Polygon implements Client.
func (c *HTTPClient) Polygon(ctx context.Context, lat, lng, radiusKM float64) (*geom.Polygon, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "isochrone: rate limit wait")
		}
	}

	url := fmt.Sprintf("%s/isochrone.json?latitude=%f&longitude=%f&distance_limit=%f", c.baseURL, lat, lng, radiusKM)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "isochrone: build request")
	}
	req.Header.Set("X-Authorization-Token", c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "isochrone: request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Wrapf(ErrUnavailable, "isochrone: provider returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "isochrone: read response body")
	}

	poly, err := parsePolygon(body)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("isochrone: polygon resolved",
		zap.Float64("lat", lat),
		zap.Float64("lng", lng),
		zap.Float64("radius_km", radiusKM),
	)
	return poly, nil
}

// parsePolygon extracts a polygon from the provider envelope. A missing or
// non-polygonal geometry is treated as unavailable, not as a distinct error.
func parsePolygon(body []byte) (*geom.Polygon, error) {
	var env response
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, eris.Wrap(err, "isochrone: decode envelope")
	}
	if env.Status != "success" || len(env.Data.Geometry) == 0 {
		return nil, eris.Wrap(ErrUnavailable, "isochrone: no polygon in response")
	}

	var g geom.T
	if err := geojson.Unmarshal(env.Data.Geometry, &g); err != nil {
		return nil, eris.Wrap(err, "isochrone: decode geometry")
	}

	switch t := g.(type) {
	case *geom.Polygon:
		return t, nil
	case *geom.MultiPolygon:
		if t.NumPolygons() > 0 {
			return t.Polygon(0), nil
		}
		return nil, eris.Wrap(ErrUnavailable, "isochrone: empty multipolygon")
	default:
		return nil, eris.Wrap(ErrUnavailable, "isochrone: unexpected geometry type")
	}
}

// unavailable always reports the provider as down. Used when no token is
// configured and in tests exercising the fallback path.
type unavailable struct{}

// Unavailable returns a Client that always fails with ErrUnavailable.
func Unavailable() Client {
	return unavailable{}
}

// Polygon implements Client.
func (unavailable) Polygon(context.Context, float64, float64, float64) (*geom.Polygon, error) {
	return nil, ErrUnavailable
}
