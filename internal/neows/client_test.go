package neows

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaman1337/neo-data/internal/fetch"
)

func testOptions() *fetch.Options {
	return &fetch.Options{MaxRetries: 0, RequestsPerSecond: 0}
}

// browseStub serves a fixed set of pages in the NeoWs browse shape.
func browseStub(t *testing.T, pages [][]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/neo/browse", r.URL.Path)
		require.NotEmpty(t, r.URL.Query().Get("api_key"))

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		require.NoError(t, err)
		if page >= len(pages) {
			http.Error(w, "no such page", http.StatusBadRequest)
			return
		}

		neos := make([]json.RawMessage, 0, len(pages[page]))
		for _, id := range pages[page] {
			neos = append(neos, json.RawMessage(fmt.Sprintf(`{"id": %q, "name": "neo %s"}`, id, id)))
		}
		resp := map[string]any{
			"page": map[string]any{
				"size":        len(pages[page]),
				"total_pages": len(pages),
				"number":      page,
			},
			"near_earth_objects": neos,
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestBrowsePage_QueryParameters(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"page":    r.URL.Query().Get("page"),
			"size":    r.URL.Query().Get("size"),
			"api_key": r.URL.Query().Get("api_key"),
		}
		_, _ = w.Write([]byte(`{"page": {"size": 20, "total_pages": 1, "number": 0}, "near_earth_objects": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "TEST_KEY", 20, testOptions())
	_, err := client.BrowsePage(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "0", gotQuery["page"])
	assert.Equal(t, "20", gotQuery["size"])
	assert.Equal(t, "TEST_KEY", gotQuery["api_key"])
}

func TestBrowseAll_CollectsAllPagesInOrder(t *testing.T) {
	server := browseStub(t, [][]string{
		{"2000433", "2001862"},
		{"2001036", "2001221"},
		{"2001566"},
	})
	defer server.Close()

	client := NewClient(server.URL, "TEST_KEY", 2, testOptions())
	summaries, err := client.BrowseAll(context.Background(), 0)
	require.NoError(t, err)

	ids := make([]string, 0, len(summaries))
	for _, s := range summaries {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"2000433", "2001862", "2001036", "2001221", "2001566"}, ids)
}

func TestBrowseAll_EmptyFirstPage(t *testing.T) {
	server := browseStub(t, [][]string{{}})
	defer server.Close()

	client := NewClient(server.URL, "TEST_KEY", 20, testOptions())
	summaries, err := client.BrowseAll(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestBrowseAll_MaxPagesLimit(t *testing.T) {
	server := browseStub(t, [][]string{
		{"a1", "a2"},
		{"b1", "b2"},
		{"c1", "c2"},
	})
	defer server.Close()

	client := NewClient(server.URL, "TEST_KEY", 2, testOptions())
	summaries, err := client.BrowseAll(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, summaries, 4)
}

func TestBrowseAll_PageFailureAborts(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		page := r.URL.Query().Get("page")
		if page == "1" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"page": {"size": 1, "total_pages": 3, "number": 0}, "near_earth_objects": [{"id": "2000433"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "TEST_KEY", 1, testOptions())
	summaries, err := client.BrowseAll(context.Background(), 0)
	require.Error(t, err)
	assert.Nil(t, summaries)

	var statusErr *fetch.StatusError
	assert.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 2, calls)
}

func TestBrowsePage_PreservesRawPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"page": {"size": 1, "total_pages": 1, "number": 0},
			"near_earth_objects": [{"id": "2000433", "absolute_magnitude_h": 10.31, "is_potentially_hazardous_asteroid": false}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "TEST_KEY", 1, testOptions())
	page, err := client.BrowsePage(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, page.Summaries, 1)
	assert.Equal(t, "2000433", page.Summaries[0].ID)
	assert.JSONEq(t,
		`{"id": "2000433", "absolute_magnitude_h": 10.31, "is_potentially_hazardous_asteroid": false}`,
		string(page.Summaries[0].Raw))
}

func TestBrowsePage_MissingIdentifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"page": {"size": 1, "total_pages": 1, "number": 0},
			"near_earth_objects": [{"name": "anonymous rock"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "TEST_KEY", 1, testOptions())
	_, err := client.BrowsePage(context.Background(), 0)
	require.Error(t, err)

	var decodeErr *fetch.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestBrowsePage_FallsBackToNeoReferenceID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"page": {"size": 1, "total_pages": 1, "number": 0},
			"near_earth_objects": [{"neo_reference_id": "3542519"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "TEST_KEY", 1, testOptions())
	page, err := client.BrowsePage(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, page.Summaries, 1)
	assert.Equal(t, "3542519", page.Summaries[0].ID)
}
