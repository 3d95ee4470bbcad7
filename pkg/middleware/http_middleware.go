package middleware

import (
	"net/http"
	"time"
)

type Recorder interface {
	RecordRequest(method, endpoint string, statusCode int, duration time.Duration)
}

type instrumentedTransport struct {
	next     http.RoundTripper
	recorder Recorder
}

// InstrumentTransport records method, route, status and duration of every
// round trip. Requests that get no response are recorded with status 0.
func InstrumentTransport(next http.RoundTripper, recorder Recorder) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &instrumentedTransport{next: next, recorder: recorder}
}

func (t *instrumentedTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(r)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	endpoint := RouteFrom(r.Context())
	if endpoint == "" {
		endpoint = r.URL.Path
	}
	t.recorder.RecordRequest(r.Method, endpoint, status, time.Since(start))
	return resp, err
}
