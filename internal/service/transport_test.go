package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCountingServer(t *testing.T, statuses ...int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		status := statuses[len(statuses)-1]
		if int(n) <= len(statuses) {
			status = statuses[n-1]
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestRetryTransport_RetriesServerErrors(t *testing.T) {
	srv, calls := newCountingServer(t, http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusOK)

	rt := NewRetryTransport(nil)
	rt.BaseDelay = time.Millisecond
	client := &http.Client{Transport: rt}

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestRetryTransport_RetriesRateLimit(t *testing.T) {
	srv, calls := newCountingServer(t, http.StatusTooManyRequests, http.StatusOK)

	rt := NewRetryTransport(nil)
	rt.BaseDelay = time.Millisecond
	resp, err := (&http.Client{Transport: rt}).Get(srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestRetryTransport_GivesUpAfterMaxRetries(t *testing.T) {
	srv, calls := newCountingServer(t, http.StatusInternalServerError)

	rt := NewRetryTransport(nil)
	rt.BaseDelay = time.Millisecond
	rt.MaxRetries = 2
	resp, err := (&http.Client{Transport: rt}).Get(srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestRetryTransport_NoRetryOnClientError(t *testing.T) {
	srv, calls := newCountingServer(t, http.StatusNotFound)

	resp, err := (&http.Client{Transport: NewRetryTransport(nil)}).Get(srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestRetryTransport_DoesNotReplayBodies(t *testing.T) {
	srv, calls := newCountingServer(t, http.StatusServiceUnavailable, http.StatusOK)

	rt := NewRetryTransport(nil)
	rt.BaseDelay = time.Millisecond
	resp, err := (&http.Client{Transport: rt}).Post(srv.URL, "text/plain", strings.NewReader("payload"))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestRetryTransport_Backoff(t *testing.T) {
	rt := &RetryTransport{BaseDelay: time.Second}

	resp := &http.Response{Header: http.Header{}}
	assert.Equal(t, time.Second, rt.backoff(0, resp))
	assert.Equal(t, 4*time.Second, rt.backoff(2, resp))

	resp.Header.Set("Retry-After", "7")
	assert.Equal(t, 7*time.Second, rt.backoff(0, resp))

	rt.BaseDelay = 0
	resp.Header.Del("Retry-After")
	assert.Zero(t, rt.backoff(3, resp))
}
