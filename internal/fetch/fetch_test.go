package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testOptions disables retries and rate limiting so failures surface immediately.
func testOptions() *Options {
	return &Options{MaxRetries: 0, RequestsPerSecond: 0, UserAgent: DefaultUserAgent}
}

func TestGetJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "42", r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name": "Eros"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testOptions())

	var target struct {
		Name string `json:"name"`
	}
	params := url.Values{}
	params.Set("page", "42")
	err := client.GetJSON(context.Background(), "/lookup", params, &target)
	require.NoError(t, err)
	assert.Equal(t, "Eros", target.Name)
}

func TestGetJSON_SetsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testOptions())
	var target map[string]any
	require.NoError(t, client.GetJSON(context.Background(), "/", nil, &target))
	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestGet_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, testOptions())
	_, err := client.Get(context.Background(), "/missing", nil)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.True(t, statusErr.IsNotFound())
}

func TestGetJSON_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not valid json`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testOptions())
	var target map[string]any
	err := client.GetJSON(context.Background(), "/", nil, &target)
	require.Error(t, err)

	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestGet_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	server.Close() // nothing is listening anymore

	client := NewClient(server.URL, testOptions())
	_, err := client.Get(context.Background(), "/", nil)
	require.Error(t, err)

	var reqErr *RequestError
	assert.ErrorAs(t, err, &reqErr)
}

func TestGet_RetriesTransientStatus(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	opts := testOptions()
	opts.MaxRetries = 1
	client := NewClient(server.URL, opts)

	body, err := client.Get(context.Background(), "/", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, string(body))
	assert.Equal(t, 2, attempts)
}

func TestGet_DoesNotRetryClientError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	opts := testOptions()
	opts.MaxRetries = 3
	client := NewClient(server.URL, opts)

	_, err := client.Get(context.Background(), "/", nil)
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}
