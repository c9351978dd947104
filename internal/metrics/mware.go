package metrics

import (
	"net/http"
	"strconv"
	"time"
)

type clientInterceptor struct {
	http.RoundTripper
	metricsHandler Handler
}

// Intercept records cache API response times. Only the status is used as a
// label: request URLs carry the cache token.
func Intercept(metricsHandler Handler, transport http.RoundTripper) http.RoundTripper {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &clientInterceptor{metricsHandler: metricsHandler, RoundTripper: transport}
}

func (i *clientInterceptor) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := i.RoundTripper.RoundTrip(r)
	duration := time.Since(start)
	stat := "error"
	if err == nil {
		stat = strconv.Itoa(resp.StatusCode)
	}
	i.metricsHandler.ObserveRequest(stat, duration)
	return resp, err
}
