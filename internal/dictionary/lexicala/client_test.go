package lexicala

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grisov/quickdict/internal/dictionary"
)

func TestClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, searchPath, r.URL.Path)
		assert.Equal(t, rapidAPIHost, r.Header.Get("X-RapidAPI-Host"))
		assert.Equal(t, "secret", r.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "password", r.URL.Query().Get("source"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		assert.Equal(t, "dog", r.URL.Query().Get("text"))
		assert.Equal(t, "true", r.URL.Query().Get("morph"))
		assert.Equal(t, "false", r.URL.Query().Get("analyzed"))
		_, _ = w.Write([]byte(sampleSearchBody))
	}))
	defer server.Close()

	client := New(Config{Key: "secret", Section: "password", Morph: true, BaseURL: server.URL})
	article, err := client.Fetch(context.Background(), dictionary.Query{
		BackendID: ServiceID,
		Source:    "en",
		Target:    "fr",
		Text:      "dog",
	})
	require.NoError(t, err)
	assert.False(t, article.IsEmpty())
}

func TestClient_Fetch_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		statusCode  int
		wantErr     any
		wantRetries bool
	}{
		{
			name:       "invalid key",
			statusCode: http.StatusForbidden,
			wantErr:    new(*dictionary.AuthError),
		},
		{
			name:       "quota exhausted",
			statusCode: http.StatusTooManyRequests,
			wantErr:    new(*dictionary.AuthError),
		},
		{
			name:       "bad request",
			statusCode: http.StatusBadRequest,
			wantErr:    new(*dictionary.TransportError),
		},
		{
			name:        "server error",
			statusCode:  http.StatusInternalServerError,
			wantErr:     new(*dictionary.TransportError),
			wantRetries: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits int
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits++
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			client := New(Config{Key: "secret", RetryAttempts: 1, BaseURL: server.URL})
			_, err := client.Fetch(context.Background(), dictionary.Query{Source: "en", Target: "fr", Text: "dog"})
			require.Error(t, err)
			require.ErrorAs(t, err, tt.wantErr)
			if tt.wantRetries {
				assert.Equal(t, 2, hits, "transient failures must be retried")
			} else {
				assert.Equal(t, 1, hits, "permanent failures must not be retried")
			}
		})
	}
}

func TestClient_Fetch_QuotaMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New(Config{Key: "secret", BaseURL: server.URL})
	_, err := client.Fetch(context.Background(), dictionary.Query{Source: "en", Target: "fr", Text: "dog"})
	var authErr *dictionary.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusTooManyRequests, authErr.StatusCode)
	assert.Contains(t, authErr.Message, "exhausted")
}

func TestClient_Fetch_RecoversAfterTransientFailure(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(sampleSearchBody))
	}))
	defer server.Close()

	client := New(Config{Key: "secret", RetryAttempts: 1, BaseURL: server.URL})
	article, err := client.Fetch(context.Background(), dictionary.Query{Source: "en", Target: "fr", Text: "dog"})
	require.NoError(t, err)
	assert.False(t, article.IsEmpty())
	assert.Equal(t, 2, hits)
}

func TestClient_Languages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, languagesPath, r.URL.Path)
		_, _ = w.Write([]byte(`{
			"resources": {
				"global": {
					"source_languages": ["en", "fr", "es"],
					"target_languages": ["en", "fr", "es", "de"]
				},
				"password": {
					"source_languages": ["en"],
					"target_languages": ["en", "fr"]
				},
				"random": {
					"source_languages": ["en"],
					"target_languages": ["en"]
				}
			}
		}`))
	}))
	defer server.Close()

	client := New(Config{Key: "secret", BaseURL: server.URL})
	catalog, err := client.Languages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, catalog.Len())
	assert.True(t, catalog.Contains("en", "de"))
	assert.False(t, catalog.Contains("de", "en"))
}

func TestParseLanguages_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		section string
	}{
		{
			name:    "not json",
			body:    `<html>maintenance</html>`,
			section: "global",
		},
		{
			name:    "implausibly short resource list",
			body:    `{"resources": {"global": {"source_languages": ["en"], "target_languages": ["fr"]}}}`,
			section: "global",
		},
		{
			name: "unknown section",
			body: `{"resources": {
				"global": {"source_languages": ["en"], "target_languages": ["fr"]},
				"password": {"source_languages": ["en"], "target_languages": ["fr"]},
				"random": {"source_languages": ["en"], "target_languages": ["en"]}
			}}`,
			section: "medical",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseLanguages([]byte(tt.body), tt.section)
			require.ErrorAs(t, err, new(*dictionary.MalformedResponseError))
		})
	}
}

func TestClient_Usage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testPath, r.URL.Path)
		w.Header().Set("X-RateLimit-Requests-Limit", "2500")
		w.Header().Set("X-RateLimit-Requests-Remaining", "1987")
		_, _ = w.Write([]byte(`{"message": "ok"}`))
	}))
	defer server.Close()

	client := New(Config{Key: "secret", BaseURL: server.URL})
	usage, err := client.Usage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dictionary.Usage{Quota: 2500, Remaining: 1987, Section: "global"}, usage)
}

func TestDefaultCatalog(t *testing.T) {
	global := DefaultCatalog("global")
	assert.Greater(t, global.Len(), 100)
	assert.True(t, global.Contains("en", "fr"))

	password := DefaultCatalog("password")
	assert.Greater(t, password.Len(), 0)
	assert.Less(t, password.Len(), global.Len())

	// An unknown section yields an empty catalog rather than an error.
	assert.Equal(t, 0, DefaultCatalog("medical").Len())
}
