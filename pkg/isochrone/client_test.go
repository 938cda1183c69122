package isochrone

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBody = `{
	"status": "success",
	"data": {
		"type": "Feature",
		"geometry": {
			"type": "Polygon",
			"coordinates": [[[77.20, 28.60], [77.24, 28.60], [77.24, 28.64], [77.20, 28.64], [77.20, 28.60]]]
		}
	}
}`

func TestHTTPClient_Polygon(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.Header.Get("X-Authorization-Token"))
		assert.Contains(t, r.URL.RawQuery, "distance_limit=1.0")
		_, _ = w.Write([]byte(validBody))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "test-token")
	poly, err := c.Polygon(context.TODO(), 28.62, 77.22, 1.0)
	require.NoError(t, err)
	require.NotNil(t, poly)

	bounds := poly.Bounds()
	assert.InDelta(t, 77.20, bounds.Min(0), 1e-9)
	assert.InDelta(t, 28.64, bounds.Max(1), 1e-9)
}

func TestHTTPClient_Polygon_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "t")
	_, err := c.Polygon(context.TODO(), 28.62, 77.22, 1.0)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnavailable))
}

func TestHTTPClient_Polygon_MissingGeometry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "t")
	_, err := c.Polygon(context.TODO(), 28.62, 77.22, 1.0)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnavailable))
}

func TestHTTPClient_Polygon_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","error":"quota exceeded"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "t")
	_, err := c.Polygon(context.TODO(), 28.62, 77.22, 1.0)
	assert.Error(t, err)
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable().Polygon(context.TODO(), 0, 0, 1)
	assert.True(t, eris.Is(err, ErrUnavailable))
}
