package mocks

import (
	"context"
	"errors"
	"strings"

	"github.com/opensilex/phis/pkg/conn/sparql"
)

// Conn is a mock of sparql.Conn.
//
// Transactions began with the mock run queries with the same Impl,
// and record calls in the same Calls.
type Conn struct {
	Impl struct {
		Select func(ctx context.Context, query string) (*sparql.Results, error)
		Ask    func(ctx context.Context, query string) (bool, error)
		Update func(ctx context.Context, update string) error
		Ping   func(ctx context.Context) error
	}
	Calls struct {
		Select   []string
		Ask      []string
		Update   []string
		Begin    int
		Commit   int
		Rollback int
		Ping     int
	}
}

func NewConn() *Conn {
	return &Conn{}
}

var _ sparql.Conn = &Conn{}

func (c *Conn) Select(ctx context.Context, query string) (*sparql.Results, error) {
	c.Calls.Select = append(c.Calls.Select, query)
	if c.Impl.Select != nil {
		return c.Impl.Select(ctx, query)
	}
	panic(errors.New("it should no be called"))
}

func (c *Conn) Ask(ctx context.Context, query string) (bool, error) {
	c.Calls.Ask = append(c.Calls.Ask, query)
	if c.Impl.Ask != nil {
		return c.Impl.Ask(ctx, query)
	}
	panic(errors.New("it should no be called"))
}

func (c *Conn) Update(ctx context.Context, update string) error {
	c.Calls.Update = append(c.Calls.Update, update)
	if c.Impl.Update != nil {
		return c.Impl.Update(ctx, update)
	}
	panic(errors.New("it should no be called"))
}

func (c *Conn) Ping(ctx context.Context) error {
	c.Calls.Ping += 1
	if c.Impl.Ping != nil {
		return c.Impl.Ping(ctx)
	}
	panic(errors.New("it should no be called"))
}

func (c *Conn) Begin(context.Context) (sparql.Tx, error) {
	c.Calls.Begin += 1
	return &tx{Conn: c}, nil
}

// Committed tells all transactions are committed.
func (c *Conn) Committed() bool {
	return 0 < c.Calls.Begin && c.Calls.Commit == c.Calls.Begin
}

type tx struct {
	*Conn
	done bool
}

func (t *tx) Commit(context.Context) error {
	t.done = true
	t.Conn.Calls.Commit += 1
	return nil
}

func (t *tx) Rollback(context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.Conn.Calls.Rollback += 1
	return nil
}

// Rows builds results from rows of variable-value pairs.
// Values starting with "http" are URIs, and others are plain literals.
func Rows(rows ...map[string]string) *sparql.Results {
	res := &sparql.Results{Bindings: []sparql.Binding{}}
	for _, r := range rows {
		b := sparql.Binding{}
		for k, v := range r {
			typ := sparql.TermLiteral
			if len(v) >= 4 && v[:4] == "http" {
				typ = sparql.TermURI
			}
			b[k] = sparql.Term{Type: typ, Value: v}
		}
		res.Bindings = append(res.Bindings, b)
	}
	return res
}

// Route is a rule of Router: queries containing Contains are answered with Results.
type Route struct {
	Contains string
	Results  *sparql.Results
}

// Router builds Impl.Select answering with the first matching route.
// Queries matching none get empty results.
func Router(routes ...Route) func(ctx context.Context, query string) (*sparql.Results, error) {
	return func(ctx context.Context, query string) (*sparql.Results, error) {
		for _, r := range routes {
			if strings.Contains(query, r.Contains) {
				return r.Results, nil
			}
		}
		return Rows(), nil
	}
}
