package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"shopkeeper/config"
	"shopkeeper/config/values"
	"shopkeeper/internal/entity"
	"shopkeeper/internal/local"
	"shopkeeper/internal/storage"
	"shopkeeper/metrics"
	"shopkeeper/pkg/logger"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const stamp = `"created_at": "2024-01-02T03:04:05Z", "updated_at": "2024-01-02T03:04:05Z"`

var storeResponses = map[string]string{
	"/admin/shop.json":      `{"shop": {"id": 1, "name": "Sleepy", "domain": "shop.example.com", ` + stamp + `}}`,
	"/admin/pages.json":     `{"pages": [{"id": 11, "title": "About us", "handle": "about-us", "body_html": "<p>We <b>sell</b> beds.</p>", ` + stamp + `}]}`,
	"/admin/countries.json": `{"countries": [{"id": 21, "name": "Canada", "code": "CA", "tax": 0.05, "provinces": [{"id": 211, "country_id": 21, "name": "Ontario", "code": "ON", "tax": 0.08, "tax_percentage": 8}]}]}`,
	"/admin/products.json": `{"products": [{"id": 31, "title": "Bed", "handle": "bed", ` + stamp + `,
		"options": [{"id": 311, "product_id": 31, "name": "Title", "position": 1, "values": ["Default Title"]}],
		"variants": [{"id": 312, "product_id": 31, "title": "Default Title", "option1": "Default Title", "price": "199.00", ` + stamp + `}]}]}`,
}

func shopServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := storeResponses[r.URL.Path]
		if !ok {
			http.Error(w, `{"errors":"Not Found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, urls map[string]string) *config.AppConfig {
	t.Helper()
	stores := make(map[string]values.Store, len(urls))
	for name, url := range urls {
		stores[name] = values.Store{URL: url, APIKey: "key", Password: "secret"}
	}
	return &config.AppConfig{
		Stores:   stores,
		Client:   config.ClientConfig{Timeout: 5 * time.Second},
		Defaults: local.DefaultDefaults(),
	}
}

func observed() (*logger.BaseLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return logger.NewLogger(zap.New(core), ""), logs
}

func messages(logs *observer.ObservedLogs) string {
	var b strings.Builder
	for _, entry := range logs.All() {
		b.WriteString(entry.Message)
		b.WriteString("\n")
	}
	return b.String()
}

func TestEnvs(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	down.Close()

	log, logs := observed()
	m := metrics.New()
	a := New(testConfig(t, map[string]string{"testing": shopServer(t).URL, "down": down.URL}), log, m)

	results := a.Envs(context.Background())
	require.Len(t, results, 2)
	assert.Equal(t, "down", results[0].Name)
	assert.False(t, results[0].OK())
	assert.Equal(t, "testing", results[1].Name)
	assert.True(t, results[1].OK())
	assert.Equal(t, int32(1), m.Counters.Failed.Load())

	out := messages(logs)
	assert.Contains(t, out, "Verifying connectivity and API credentials for 2 stores")
	assert.Contains(t, out, "Name")
	assert.Regexp(t, `down +\| .* \| ✗ Failed`, out)
	assert.Regexp(t, `testing \| .* \| ✓ Success`, out)
}

type fakeSnapshots struct {
	mu    sync.Mutex
	saved []storage.Run
}

func (f *fakeSnapshots) SaveRun(_ context.Context, run storage.Run) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, run)
	return nil
}

func (f *fakeSnapshots) LatestRun(_ context.Context, store string) (uuid.UUID, time.Time, error) {
	return uuid.Nil, time.Time{}, fmt.Errorf("%w '%s'", storage.ErrNoSnapshot, store)
}

func (f *fakeSnapshots) CountByType(_ context.Context, _ uuid.UUID, types ...entity.Type) (map[entity.Type]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[entity.Type]int)
	for _, e := range storage.Flatten(f.saved[len(f.saved)-1].Entities) {
		out[e.Type]++
	}
	return out, nil
}

func writeWorkspace(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workspace.yaml")
	body := "products:\n  - title: Bed\n  - title: Gift Card\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestSync(t *testing.T) {
	cfg := testConfig(t, map[string]string{"testing": shopServer(t).URL})
	cfg.Data = writeWorkspace(t)
	snaps := &fakeSnapshots{}
	log, logs := observed()
	m := metrics.New()

	report, err := New(cfg, log, m, WithSnapshots(snaps)).Sync(context.Background(), "testing")
	require.NoError(t, err)

	assert.Equal(t, "testing", report.Store)
	assert.NotEqual(t, uuid.Nil, report.RunID)
	assert.Equal(t, 1, report.Result.Counts["Products"])
	assert.Equal(t, 1, report.Result.Counts["Provinces"])
	assert.Equal(t, int32(4), m.Counters.Requests.Load())

	require.Len(t, snaps.saved, 1)
	run := snaps.saved[0]
	assert.Equal(t, report.RunID, run.ID)
	assert.Len(t, run.Entities, 4)
	assert.Len(t, storage.Flatten(run.Entities), 7)

	require.NotNil(t, report.Plan)
	require.Len(t, report.Plan.Existing, 1)
	assert.Equal(t, int64(31), report.Plan.Existing[0].Remote.ID)
	require.Len(t, report.Plan.New, 1)
	assert.Equal(t, "gift-card", report.Plan.New[0].Handle)

	out := messages(logs)
	assert.Contains(t, out, "No previous snapshot of 'testing'")
	assert.Contains(t, out, "stored 1 products, 1 variants and 1 pages")
	assert.Contains(t, out, "products/gift-card")
}

func TestSync_Environment(t *testing.T) {
	a := New(testConfig(t, map[string]string{"testing": "testing.example.com"}), nil, nil)

	_, err := a.Sync(context.Background(), "")
	assert.ErrorIs(t, err, config.ErrEnvironmentRequired)

	_, err = a.Sync(context.Background(), "other")
	assert.ErrorIs(t, err, config.ErrUnknownEnvironment)
}

func TestInspect(t *testing.T) {
	cfg := testConfig(t, map[string]string{"testing": shopServer(t).URL})
	log, logs := observed()
	var out bytes.Buffer

	e, err := New(cfg, log, nil, WithOutput(&out)).Inspect(context.Background(), "testing", "pages/about-us")
	require.NoError(t, err)
	assert.Equal(t, int64(11), e.ID)

	assert.Contains(t, out.String(), `"handle": "about-us"`)
	assert.Contains(t, out.String(), `"title": "About us"`)

	text := messages(logs)
	assert.Contains(t, text, "Title: About us")
	assert.Contains(t, text, "Body: We sell beds.")
	assert.Contains(t, text, "URL: https://shop.example.com/pages/about-us")
}

func TestInspect_ProductByID(t *testing.T) {
	cfg := testConfig(t, map[string]string{"testing": shopServer(t).URL})
	cfg.Data = writeWorkspace(t)
	log, logs := observed()
	var out bytes.Buffer

	e, err := New(cfg, log, nil, WithOutput(&out)).Inspect(context.Background(), "testing", "products/31")
	require.NoError(t, err)
	assert.Equal(t, "bed", e.Handle)
	assert.Contains(t, out.String(), `"price": "199.00"`)
	assert.Contains(t, messages(logs), "Local declaration: 1 variants, remote: 1 variants")
}

func TestInspect_NotFound(t *testing.T) {
	cfg := testConfig(t, map[string]string{"testing": shopServer(t).URL})
	a := New(cfg, nil, nil, WithOutput(io.Discard))

	_, err := a.Inspect(context.Background(), "testing", "pages/contact")
	assert.ErrorContains(t, err, "no pages matching 'pages/contact'")

	_, err = a.Inspect(context.Background(), "testing", "")
	assert.ErrorIs(t, err, config.ErrEntityPathRequired)
}
