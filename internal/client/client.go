package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"

	"github.com/turbot/flowpipe-form/fperr"
	"github.com/turbot/flowpipe-form/internal/types"
)

// FormAPI covers the two HTTP contracts with the Flowpipe server: fetching
// the input descriptor for a correlation pair, and posting the submission
// record to the one-shot response endpoint.
type FormAPI interface {
	GetFormData(ctx context.Context, id, hash string) (*types.FormData, error)
	SubmitForm(ctx context.Context, responseURL string, submission types.FormSubmission) (*types.FormData, error)
}

type Client struct {
	baseURL string
	http    *resty.Client
}

type ClientOption func(*Client)

// WithHTTPClient replaces the underlying resty client, used by tests to
// point at an httptest server.
func WithHTTPClient(http *resty.Client) ClientOption {
	return func(c *Client) {
		c.http = http
	}
}

// New creates a client for the Flowpipe server at baseURL. No client-side
// timeout is imposed: a hung request leaves the caller in submitting, which
// is the documented behavior for the one-shot endpoint.
func New(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    resty.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.SetHeader("Content-Type", "application/json")
	return c
}

// GetFormData fetches the input descriptor for the (id, hash) correlation
// pair. Single attempt; absence of the resource or transport failure is
// normalized into an fperr.ErrorModel.
func (c *Client) GetFormData(ctx context.Context, id, hash string) (*types.FormData, error) {
	url := fmt.Sprintf("%s/api/v0/form/%s/%s", c.baseURL, id, hash)

	resp, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		slog.Debug("form data request failed before a response was received", "id", id, "error", err)
		return nil, fperr.FromTransport(err)
	}
	if resp.IsError() {
		return nil, fperr.FromAPIResponse(resp.StatusCode(), resp.Body())
	}

	var form types.FormData
	if err := json.Unmarshal(resp.Body(), &form); err != nil {
		return nil, fperr.InternalWithMessage("error parsing form data: " + err.Error())
	}
	return &form, nil
}

// SubmitForm posts the submission record to the response_url. The endpoint
// is absolute and single-use. On success the server may return a refreshed
// descriptor; an empty body yields nil without error.
func (c *Client) SubmitForm(ctx context.Context, responseURL string, submission types.FormSubmission) (*types.FormData, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(submission).
		Post(responseURL)
	if err != nil {
		slog.Debug("submission request failed before a response was received", "error", err)
		return nil, fperr.FromTransport(err)
	}
	if resp.IsError() {
		return nil, fperr.FromAPIResponse(resp.StatusCode(), resp.Body())
	}

	if len(resp.Body()) == 0 {
		return nil, nil
	}
	var form types.FormData
	if err := json.Unmarshal(resp.Body(), &form); err != nil {
		// submission succeeded, the refresh payload is best-effort
		return nil, nil
	}
	return &form, nil
}
