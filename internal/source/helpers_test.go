package source

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(testNow))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func testDeps(cat *Catalog) Deps {
	return Deps{
		Fetcher:         NewFetcher(2*time.Second, "incident-fusion-test"),
		Catalog:         cat,
		FeedConcurrency: 4,
	}
}

// serve returns a server that answers every request with body.
func serve(t *testing.T, contentType, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func serveJSON(t *testing.T, body string) *httptest.Server {
	return serve(t, "application/json", body)
}

func serveRSS(t *testing.T, items ...string) *httptest.Server {
	return serve(t, "application/rss+xml", rss(items...))
}

func serveStatus(t *testing.T, code int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func rss(items ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>test</title><link>https://example.com</link><description>test</description>` +
		strings.Join(items, "") + `</channel></rss>`
}

func rssItem(title, desc string) string {
	return fmt.Sprintf(`<item><title><![CDATA[%s]]></title><description><![CDATA[%s]]></description><link>https://example.com/%s</link><pubDate>Tue, 10 Mar 2026 09:30:00 GMT</pubDate></item>`,
		title, desc, domain.Slug(title))
}

func byID(incidents []domain.Incident) map[string]domain.Incident {
	out := make(map[string]domain.Incident, len(incidents))
	for _, inc := range incidents {
		out[inc.ID] = inc
	}
	return out
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
