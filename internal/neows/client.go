// Package neows provides a typed client for the NASA NeoWs browse service, the
// paginated listing of near-earth-object summary records.
package neows

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"

	"github.com/yaman1337/neo-data/internal/fetch"
)

// DefaultBaseURL is the NeoWs REST endpoint root.
const DefaultBaseURL = "https://api.nasa.gov/neo/rest/v1"

// DefaultPageSize is the number of summary records requested per browse page.
const DefaultPageSize = 20

// Summary is one near-earth-object summary record. The service payload is kept
// verbatim in Raw so the compiled output passes fields through untouched; ID is
// extracted once for the orbital join.
type Summary struct {
	ID  string
	Raw json.RawMessage
}

// Page is one page of browse results plus the pagination metadata the walk
// relies on.
type Page struct {
	Number     int
	TotalPages int
	Summaries  []Summary
}

// Client queries the browse endpoint.
type Client struct {
	http     *fetch.Client
	apiKey   string
	pageSize int
}

// NewClient creates a browse client. The API key is required by the service
// and supplied on every request as a query parameter.
func NewClient(baseURL, apiKey string, pageSize int, opts *fetch.Options) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Client{
		http:     fetch.NewClient(baseURL, opts),
		apiKey:   apiKey,
		pageSize: pageSize,
	}
}

// browseResponse mirrors the browse payload shape. Summary records stay raw.
type browseResponse struct {
	Page struct {
		Size       int `json:"size"`
		TotalPages int `json:"total_pages"`
		Number     int `json:"number"`
	} `json:"page"`
	NearEarthObjects []json.RawMessage `json:"near_earth_objects"`
}

// summaryID mirrors only the identifier fields of a summary record.
type summaryID struct {
	ID             string `json:"id"`
	NeoReferenceID string `json:"neo_reference_id"`
}

// BrowsePage fetches a single 0-based page of summary records.
func (c *Client) BrowsePage(ctx context.Context, page int) (*Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(c.pageSize))
	params.Set("api_key", c.apiKey)

	var resp browseResponse
	if err := c.http.GetJSON(ctx, "/neo/browse", params, &resp); err != nil {
		return nil, err
	}

	result := &Page{
		Number:     resp.Page.Number,
		TotalPages: resp.Page.TotalPages,
		Summaries:  make([]Summary, 0, len(resp.NearEarthObjects)),
	}
	for _, raw := range resp.NearEarthObjects {
		id, err := extractID(raw)
		if err != nil {
			return nil, &fetch.DecodeError{
				URL:     c.http.BaseURL() + "/neo/browse",
				Message: "summary record has no identifier field",
				Cause:   err,
			}
		}
		result.Summaries = append(result.Summaries, Summary{ID: id, Raw: raw})
	}
	return result, nil
}

// BrowseAll walks pages from 0 until the service reports no further pages,
// returning all summary records in service order. A failed page request aborts
// the walk; a partial summary list is not useful for the orbital join.
func (c *Client) BrowseAll(ctx context.Context, maxPages int) ([]Summary, error) {
	var all []Summary
	for page := 0; ; page++ {
		p, err := c.BrowsePage(ctx, page)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Summaries...)

		if len(p.Summaries) == 0 {
			break
		}
		if p.TotalPages > 0 && p.Number+1 >= p.TotalPages {
			break
		}
		if maxPages > 0 && page+1 >= maxPages {
			break
		}
	}
	return all, nil
}

func extractID(raw json.RawMessage) (string, error) {
	var ids summaryID
	if err := json.Unmarshal(raw, &ids); err != nil {
		return "", err
	}
	if ids.ID != "" {
		return ids.ID, nil
	}
	if ids.NeoReferenceID != "" {
		return ids.NeoReferenceID, nil
	}
	return "", errMissingID
}

var errMissingID = errors.New("neither id nor neo_reference_id is present")
