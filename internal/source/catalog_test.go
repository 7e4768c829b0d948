package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog_Embedded(t *testing.T) {
	cat, err := LoadCatalog("")
	require.NoError(t, err)

	assert.NotEmpty(t, cat.Endpoints.USGS)
	assert.NotEmpty(t, cat.Endpoints.NVD)
	assert.NotEmpty(t, cat.News.Feeds)
	assert.NotEmpty(t, cat.Protest.Feeds)
	assert.NotEmpty(t, cat.StatusPages)
	for name, fam := range cat.families() {
		assert.Positive(t, fam.Limit, name)
	}

	var trusted int
	for _, f := range cat.Cyber.Feeds {
		if f.Trusted {
			trusted++
		}
	}
	assert.Positive(t, trusted)
}

func TestParseCatalog_DefaultsLimit(t *testing.T) {
	cat, err := ParseCatalog([]byte(`
news:
  feeds:
    - name: "Example"
      url: "https://example.com/rss"
`))
	require.NoError(t, err)
	assert.Equal(t, defaultFeedLimit, cat.News.Limit)
	assert.Equal(t, defaultFeedLimit, cat.Tech.Limit)
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "feed without url",
			yaml:    "conflict:\n  feeds:\n    - name: \"No URL\"\n",
			wantErr: "conflict feed 0",
		},
		{
			name:    "unknown status page format",
			yaml:    "status_pages:\n  - name: \"Akamai\"\n    url: \"https://example.com\"\n    format: generic\n",
			wantErr: `unknown format "generic"`,
		},
		{
			name:    "malformed yaml",
			yaml:    "news: [",
			wantErr: "parse feed catalog",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoints:\n  usgs: \"http://localhost/usgs\"\n"), 0o600))

	cat, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/usgs", cat.Endpoints.USGS)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
