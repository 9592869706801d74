package aleo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Client reads public mapping values from an Aleo explorer API. All
// reads are total: any transport failure, non-success status or read
// error is reported as absence, never as an error. One attempt per
// call, no retry; the transport timeout is the only deadline.
type Client struct {
	base    string
	network string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(httpClient *http.Client, base, network string, logger *zap.Logger) *Client {
	if base == "" {
		base = "https://api.explorer.aleo.org/v1"
	}
	if network == "" {
		network = "testnet"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		base:    strings.TrimRight(base, "/"),
		network: network,
		http:    httpClient,
		logger:  logger,
	}
}

// MappingValue fetches one mapping entry. The bool result is false on
// any failure; a false result cannot distinguish a missing key from a
// missing program or a network outage.
func (c *Client) MappingValue(ctx context.Context, programID, mappingName, key string) (string, bool) {
	path := fmt.Sprintf("/%s/program/%s/mapping/%s/%s",
		c.network,
		url.PathEscape(programID),
		url.PathEscape(mappingName),
		url.PathEscape(key),
	)
	body, ok := c.get(ctx, path)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(string(body)), true
}

// ProgramDeployed reports whether the program is visible on the network.
func (c *Client) ProgramDeployed(ctx context.Context, programID string) bool {
	path := fmt.Sprintf("/%s/program/%s", c.network, url.PathEscape(programID))
	_, ok := c.get(ctx, path)
	return ok
}

func (c *Client) get(ctx context.Context, path string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		c.debug("aleo request build failed", path, err)
		return nil, false
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		c.debug("aleo request failed", path, err)
		return nil, false
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.debug("aleo response read failed", path, err)
		return nil, false
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, false
	}
	return body, true
}

func (c *Client) debug(msg, path string, err error) {
	if c.logger != nil {
		c.logger.Debug(msg, zap.String("path", path), zap.Error(err))
	}
}
