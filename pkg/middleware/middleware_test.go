package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Log(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, format)
}

func (l *recordingLogger) SetPrefix(string) {}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next RequestFunc) RequestFunc {
			return func(ctx context.Context, method, endpoint string, requestBody, response interface{}) error {
				order = append(order, name)
				return next(ctx, method, endpoint, requestBody, response)
			}
		}
	}

	fn := Chain(func(context.Context, string, string, interface{}, interface{}) error {
		order = append(order, "request")
		return nil
	}, mark("outer"), mark("inner"))

	require.NoError(t, fn(context.Background(), "GET", "shop.json", nil, nil))
	assert.Equal(t, []string{"outer", "inner", "request"}, order)
}

func TestRateLimit_CancelledContext(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	called := 0
	fn := Chain(func(context.Context, string, string, interface{}, interface{}) error {
		called++
		return nil
	}, RateLimit(limiter))

	require.NoError(t, fn(context.Background(), "GET", "a", nil, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := fn(ctx, "GET", "b", nil, nil)
	assert.Error(t, err)
	assert.Equal(t, 1, called)
}

func TestLogging(t *testing.T) {
	log := &recordingLogger{}
	boom := errors.New("boom")

	ok := Chain(func(context.Context, string, string, interface{}, interface{}) error { return nil }, Logging(log))
	bad := Chain(func(context.Context, string, string, interface{}, interface{}) error { return boom }, Logging(log))

	require.NoError(t, ok(context.Background(), "GET", "shop.json", nil, nil))
	assert.ErrorIs(t, bad(context.Background(), "GET", "shop.json", nil, nil), boom)

	require.Len(t, log.lines, 2)
	assert.Contains(t, log.lines[1], "failed")
}

type recorded struct {
	method, endpoint string
	status           int
}

type fakeRecorder struct {
	calls []recorded
}

func (f *fakeRecorder) RecordRequest(method, endpoint string, statusCode int, _ time.Duration) {
	f.calls = append(f.calls, recorded{method, endpoint, statusCode})
}

func TestInstrumentTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	rec := &fakeRecorder{}
	client := &http.Client{Transport: InstrumentTransport(nil, rec)}

	req, err := http.NewRequestWithContext(WithRoute(context.Background(), "{prefix}/{id}.json"), http.MethodGet, srv.URL+"/admin/products/1.json", nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	req, err = http.NewRequest(http.MethodGet, srv.URL+"/admin/shop.json", nil)
	require.NoError(t, err)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, []recorded{
		{"GET", "{prefix}/{id}.json", http.StatusTeapot},
		{"GET", "/admin/shop.json", http.StatusTeapot},
	}, rec.calls)
}
