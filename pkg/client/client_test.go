package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picogrid/osmf-sim/pkg/models"
)

func newTestEngine(t *testing.T, serverURL, apiKey string) *Engine {
	t.Helper()
	c, err := NewEngineClient(serverURL, apiKey)
	require.NoError(t, err)
	return c
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "not a url"})
	assert.Error(t, err)

	c, err := NewClient(Config{BaseURL: "http://localhost:8000/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", c.BaseURL())
}

func TestListGraphs_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/graphs", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "session-1", r.Header.Get("X-Request-ID"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["a.fmi","b.fmi"]`))
	}))
	defer srv.Close()

	c := newTestEngine(t, srv.URL, "secret")
	graphs, err := c.ListGraphs(WithRequestID(context.Background(), "session-1"))

	require.NoError(t, err)
	assert.Equal(t, []string{"a.fmi", "b.fmi"}, graphs)
}

func TestListGraphs_NoAuthHeaderWithoutKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	graphs, err := newTestEngine(t, srv.URL, "").ListGraphs(context.Background())

	require.NoError(t, err)
	assert.Empty(t, graphs)
}

func TestListGraphs_ErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusInternalServerError, ErrServer},
		{http.StatusBadGateway, ErrServer},
	}

	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte("nope"))
			}))
			defer srv.Close()

			_, err := newTestEngine(t, srv.URL, "").ListGraphs(context.Background())

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestListGraphs_BadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"graphs":`))
	}))
	defer srv.Close()

	_, err := newTestEngine(t, srv.URL, "").ListGraphs(context.Background())

	assert.ErrorContains(t, err, "failed to decode graph list")
}

func TestSimulate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/simulation", r.URL.Path)

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]interface{}{
			"graph_name":     "a.fmi",
			"strategy_name":  "greedy",
			"num_ffs":        float64(3),
			"num_roots":      float64(2),
			"strategy_every": float64(5),
		}, body)

		_, _ = w.Write([]byte(`{"nodes_burned":40,"nodes_defended":12,"nodes_total":350,"end_time":17,
			"view_bounds":{"min_lat":48.67,"max_lat":48.68,"min_lon":8.99,"max_lon":9.02},
			"view_center":{"lat":48.675,"lon":9.005}}`))
	}))
	defer srv.Close()

	req := models.NewSimulationRequest(models.SimulationConfig{
		Graph: "a.fmi", Strategy: "greedy", NumFirefighters: 3, NumFireSources: 2,
	}, 5)
	resp, err := newTestEngine(t, srv.URL, "").Simulate(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 40, resp.NodesBurned)
	assert.Equal(t, 12, resp.NodesDefended)
	assert.Equal(t, 350, resp.NodesTotal)
	assert.Equal(t, uint64(17), resp.EndTime)
	assert.Equal(t, 48.67, resp.ViewBounds.MinLat)
	assert.Equal(t, 9.005, resp.ViewCenter.Lon)
}

func TestSimulate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestEngine(t, srv.URL, "").Simulate(context.Background(), models.SimulationRequest{})

	assert.ErrorIs(t, err, ErrServer)
}

func TestGetAPIKey(t *testing.T) {
	t.Setenv("OSMF_TEST_KEY", "abc")
	assert.Equal(t, "abc", GetAPIKey("OSMF_TEST_KEY"))
	assert.Empty(t, GetAPIKey(""))
}
