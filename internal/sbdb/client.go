// Package sbdb provides a typed client for the JPL Small-Body Database lookup
// service, which returns orbital parameters for a single identifier.
package sbdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/yaman1337/neo-data/internal/fetch"
)

// DefaultBaseURL is the SBDB API root.
const DefaultBaseURL = "https://ssd-api.jpl.nasa.gov"

// OrbitalRecord is the raw lookup response for one identifier, passed through
// verbatim into the compiled output.
type OrbitalRecord = json.RawMessage

// NotFoundError reports an identifier the service does not recognize.
type NotFoundError struct {
	Identifier string
	Cause      error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no small-body record for %q", e.Identifier)
}

func (e *NotFoundError) Unwrap() error {
	return e.Cause
}

// Client queries the lookup endpoint.
type Client struct {
	http *fetch.Client
}

// NewClient creates a lookup client. The service requires no credential.
func NewClient(baseURL string, opts *fetch.Options) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{http: fetch.NewClient(baseURL, opts)}
}

// sbdbEnvelope mirrors only the fields needed to recognize a miss. The SBDB
// API answers an unknown sstr with 200 and a {"message": ..., "code": ...}
// body rather than a 404.
type sbdbEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Lookup fetches the orbital-parameter record for one identifier. The response
// body is returned untouched. An unrecognized identifier surfaces as a
// NotFoundError so the orchestrator can apply its skip policy.
func (c *Client) Lookup(ctx context.Context, identifier string) (OrbitalRecord, error) {
	params := url.Values{}
	params.Set("sstr", identifier)

	body, err := c.http.Get(ctx, "/sbdb.api", params)
	if err != nil {
		var statusErr *fetch.StatusError
		if errors.As(err, &statusErr) && statusErr.IsNotFound() {
			return nil, &NotFoundError{Identifier: identifier, Cause: err}
		}
		return nil, err
	}

	var envelope sbdbEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &fetch.DecodeError{
			URL:     c.http.BaseURL() + "/sbdb.api",
			Message: "lookup response is not valid JSON",
			Cause:   err,
		}
	}
	if envelope.Code != "" || envelope.Message != "" {
		return nil, &NotFoundError{Identifier: identifier}
	}

	return OrbitalRecord(body), nil
}
