// Package remote consumes the upstream data store's generated REST routes.
// It speaks plain JSON and retries transient failures.
package remote

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/tidwall/sjson"

	crm "github.com/hcviolins/crm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     zerolog.Logger
}

func New(baseURL, apiKey string, log zerolog.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = nil
	retryClient.HTTPClient = &http.Client{Timeout: 30 * time.Second}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    retryClient.StandardClient(),
		log:     log,
	}
}

func (c *Client) prepareRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, errors.Wrapf(err, "join url %q", path)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s %s", method, path)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out any) error {
	rsp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	defer rsp.Body.Close()

	data, err := io.ReadAll(rsp.Body)
	if err != nil {
		return errors.Wrapf(err, "read response of %s %s", req.Method, req.URL.Path)
	}

	if rsp.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, rsp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "decode response of %s %s", req.Method, req.URL.Path)
	}
	return nil
}

// Clients fetches every client record.
func (c *Client) Clients(ctx context.Context) ([]*crm.Client, error) {
	req, err := c.prepareRequest(ctx, http.MethodGet, "/clients", nil)
	if err != nil {
		return nil, err
	}
	var clients []*crm.Client
	if err := c.send(req, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (c *Client) GetClient(ctx context.Context, id string) (*crm.Client, error) {
	req, err := c.prepareRequest(ctx, http.MethodGet, "/clients/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	var client crm.Client
	if err := c.send(req, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

func (c *Client) CreateClient(ctx context.Context, client *crm.Client) (*crm.Client, error) {
	body, err := json.Marshal(client)
	if err != nil {
		return nil, errors.Wrap(err, "encode client")
	}
	req, err := c.prepareRequest(ctx, http.MethodPost, "/clients", body)
	if err != nil {
		return nil, err
	}
	var created crm.Client
	if err := c.send(req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// PatchClient sends a partial update carrying only the given fields, keyed
// by wire name. A nil value clears the field upstream.
func (c *Client) PatchClient(ctx context.Context, id string, fields map[string]any) (*crm.Client, error) {
	if len(fields) == 0 {
		return nil, errors.New("no fields to patch")
	}

	body := []byte(`{}`)
	for key, value := range fields {
		var err error
		body, err = sjson.SetBytes(body, key, value)
		if err != nil {
			return nil, errors.Wrapf(err, "set patch field %q", key)
		}
	}

	req, err := c.prepareRequest(ctx, http.MethodPatch, "/clients/"+url.PathEscape(id), body)
	if err != nil {
		return nil, err
	}
	var patched crm.Client
	if err := c.send(req, &patched); err != nil {
		return nil, err
	}
	return &patched, nil
}

func (c *Client) DeleteClient(ctx context.Context, id string) error {
	req, err := c.prepareRequest(ctx, http.MethodDelete, "/clients/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return c.send(req, nil)
}

// InstrumentLinks fetches every client-instrument relationship.
func (c *Client) InstrumentLinks(ctx context.Context) ([]*crm.ClientInstrument, error) {
	req, err := c.prepareRequest(ctx, http.MethodGet, "/client_instruments", nil)
	if err != nil {
		return nil, err
	}
	var links []*crm.ClientInstrument
	if err := c.send(req, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// InstrumentOwners derives the ownership set from the link collection, which
// makes the remote client a crm.Source.
func (c *Client) InstrumentOwners(ctx context.Context) (crm.InstrumentSet, error) {
	links, err := c.InstrumentLinks(ctx)
	if err != nil {
		return nil, err
	}
	ids := lo.Map(links, func(link *crm.ClientInstrument, _ int) string { return link.ClientID })
	return crm.NewInstrumentSet(ids...), nil
}
