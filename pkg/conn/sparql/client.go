// Package sparql connects to a RDF4J repository with the SPARQL 1.1 protocol
// and the RDF4J transaction REST API.
package sparql

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	xe "github.com/opensilex/phis/pkg/errors"
)

const (
	mimeSparqlQuery   = "application/sparql-query"
	mimeSparqlUpdate  = "application/sparql-update"
	mimeSparqlResults = "application/sparql-results+json"
)

// Endpoint locates a repository in a RDF4J server.
type Endpoint struct {
	// RDF4J server root, e.g. http://localhost:8667/rdf4j-server
	Server string

	// repository id
	Repository string
}

func (ep Endpoint) repository() string {
	return strings.TrimSuffix(ep.Server, "/") + "/repositories/" + url.PathEscape(ep.Repository)
}

// Queryer runs SPARQL queries and updates.
type Queryer interface {
	// Select runs a SELECT query.
	Select(ctx context.Context, query string) (*Results, error)

	// Ask runs an ASK query.
	Ask(ctx context.Context, query string) (bool, error)

	// Update runs a SPARQL update.
	Update(ctx context.Context, update string) error
}

type Beginner interface {
	Begin(context.Context) (Tx, error)
}

// Tx is a RDF4J transaction.
type Tx interface {
	Queryer

	Commit(context.Context) error

	// Rollback aborts the transaction.
	//
	// After Commit or Rollback, it does nothing.
	Rollback(context.Context) error
}

// Conn is a connection to a repository.
type Conn interface {
	Queryer
	Beginner
	Ping(context.Context) error
}

type Client struct {
	endpoint Endpoint
	client   *http.Client
	timeout  time.Duration
	logger   *log.Logger
}

var _ Conn = &Client{}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.client = c
	}
}

// WithTimeout limits the execution time of each query.
//
// Non-positive value means no limit.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.timeout = d
	}
}

func WithLogger(l *log.Logger) Option {
	return func(cl *Client) {
		cl.logger = l
	}
}

func New(ep Endpoint, opts ...Option) *Client {
	c := &Client{
		endpoint: ep,
		client:   http.DefaultClient,
		logger:   log.New("sparql"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// DefaultPingTimeout bounds Ping when no timeout is configured.
const DefaultPingTimeout = 5 * time.Second

// Ping checks the server answers its protocol version.
//
// It gives up after the timeout of the client, or DefaultPingTimeout.
func (c *Client) Ping(ctx context.Context) error {
	timeout := c.timeout
	if timeout <= 0 {
		timeout = DefaultPingTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, strings.TrimSuffix(c.endpoint.Server, "/")+"/protocol", nil,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, err = io.Copy(io.Discard, resp.Body)
	return xe.Wrap(err)
}

func (c *Client) Select(ctx context.Context, query string) (*Results, error) {
	c.logger.Debugf("SELECT: %s", query)
	resp, cancel, err := c.send(ctx, http.MethodPost, c.endpoint.repository(), nil, mimeSparqlQuery, query)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer resp.Body.Close()
	return parseSelect(resp.Body)
}

func (c *Client) Ask(ctx context.Context, query string) (bool, error) {
	c.logger.Debugf("ASK: %s", query)
	resp, cancel, err := c.send(ctx, http.MethodPost, c.endpoint.repository(), nil, mimeSparqlQuery, query)
	if err != nil {
		return false, err
	}
	defer cancel()
	defer resp.Body.Close()
	return parseAsk(resp.Body)
}

func (c *Client) Update(ctx context.Context, update string) error {
	c.logger.Debugf("UPDATE: %s", update)
	resp, cancel, err := c.send(
		ctx, http.MethodPost, c.endpoint.repository()+"/statements", nil, mimeSparqlUpdate, update,
	)
	if err != nil {
		return err
	}
	defer cancel()
	resp.Body.Close()
	return nil
}

// Begin starts a transaction.
func (c *Client) Begin(ctx context.Context) (Tx, error) {
	resp, cancel, err := c.send(
		ctx, http.MethodPost, c.endpoint.repository()+"/transactions", nil, "", "",
	)
	if err != nil {
		return nil, err
	}
	defer cancel()
	resp.Body.Close()

	loc := resp.Header.Get("Location")
	if loc == "" {
		return nil, xe.WrapWithNote("transaction has no location", ErrRepository)
	}
	u, err := resp.Request.URL.Parse(loc)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	c.logger.Debugf("BEGIN: %s", u)
	return &tx{client: c, location: u.String()}, nil
}

// send a request, and returns response when it is 2xx.
//
// cancel must be called after the response body is consumed.
func (c *Client) send(
	ctx context.Context, method string, target string, params url.Values,
	contentType string, body string,
) (_ *http.Response, cancel func(), _ error) {
	cancel = func() {}
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		if params == nil {
			params = url.Values{}
		}
		params.Set("timeout", strconv.Itoa(int(c.timeout.Seconds())))
	}

	u := target
	if len(params) != 0 {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + params.Encode()
	}

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		cancel()
		return nil, nil, xe.Wrap(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType+"; charset=utf-8")
	}
	req.Header.Set("Accept", mimeSparqlResults)

	resp, err := c.do(req)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return resp, cancel, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	if 200 <= resp.StatusCode && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	rerr := newResponseError(resp.StatusCode, string(b))
	c.logger.Debugf("%s %s: %s", req.Method, req.URL, rerr)
	return nil, xe.Wrap(rerr)
}

type tx struct {
	client   *Client
	location string
	done     bool
}

func (t *tx) action(ctx context.Context, act string, contentType string, body string) (*http.Response, func(), error) {
	if t.done {
		return nil, nil, xe.WrapWithNote("transaction is already closed", ErrRepository)
	}
	return t.client.send(
		ctx, http.MethodPut, t.location, url.Values{"action": []string{act}}, contentType, body,
	)
}

func (t *tx) Select(ctx context.Context, query string) (*Results, error) {
	t.client.logger.Debugf("SELECT (in %s): %s", t.location, query)
	resp, cancel, err := t.action(ctx, "QUERY", mimeSparqlQuery, query)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer resp.Body.Close()
	return parseSelect(resp.Body)
}

func (t *tx) Ask(ctx context.Context, query string) (bool, error) {
	t.client.logger.Debugf("ASK (in %s): %s", t.location, query)
	resp, cancel, err := t.action(ctx, "QUERY", mimeSparqlQuery, query)
	if err != nil {
		return false, err
	}
	defer cancel()
	defer resp.Body.Close()
	return parseAsk(resp.Body)
}

func (t *tx) Update(ctx context.Context, update string) error {
	t.client.logger.Debugf("UPDATE (in %s): %s", t.location, update)
	resp, cancel, err := t.action(ctx, "UPDATE", mimeSparqlUpdate, update)
	if err != nil {
		return err
	}
	defer cancel()
	resp.Body.Close()
	return nil
}

func (t *tx) Commit(ctx context.Context) error {
	resp, cancel, err := t.action(ctx, "COMMIT", "", "")
	if err != nil {
		return err
	}
	defer cancel()
	resp.Body.Close()
	t.done = true
	t.client.logger.Debugf("COMMIT: %s", t.location)
	return nil
}

func (t *tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	resp, cancel, err := t.client.send(ctx, http.MethodDelete, t.location, nil, "", "")
	if err != nil {
		return err
	}
	defer cancel()
	resp.Body.Close()
	t.client.logger.Debugf("ROLLBACK: %s", t.location)
	return nil
}
