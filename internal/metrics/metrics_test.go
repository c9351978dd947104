package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCycle(t *testing.T) {
	h := NewHandler().(*handler)

	h.ObserveCycle(OutcomeSuccess, 10*time.Millisecond)
	h.ObserveCycle(OutcomeSuccess, 20*time.Millisecond)
	h.ObserveCycle(OutcomeFailure, 5*time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(h.cycles))
	assert.Equal(t, float64(2), testutil.ToFloat64(h.cycles.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(h.cycles.WithLabelValues(OutcomeFailure)))
}

func TestSetLastSuccess(t *testing.T) {
	h := NewHandler().(*handler)
	ts := time.Unix(1700000000, 0)
	h.SetLastSuccess(ts)
	assert.Equal(t, float64(1700000000), testutil.ToFloat64(h.lastSuccess))
}

func TestIntercept(t *testing.T) {
	h := NewHandler().(*handler)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := &http.Client{Transport: Intercept(h, http.DefaultTransport)}

	resp, err := client.Get(srv.URL + "/items/present")
	require.NoError(t, err)
	_ = resp.Body.Close()
	resp, err = client.Get(srv.URL + "/items/missing")
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, 2, testutil.CollectAndCount(h.requestDuration))
}

func TestHttpHandler(t *testing.T) {
	h := NewHandler()
	h.ObserveCycle(OutcomeSuccess, time.Millisecond)

	srv := httptest.NewServer(h.HttpHandler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `homeboy_poll_cycles_total{outcome="success"} 1`)
}
