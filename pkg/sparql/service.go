// Package sparql is the data access layer on the triplestore.
//
// Models described with package mapper are created, updated, deleted and searched
// with the generic functions of this package.
package sparql

import (
	"context"
	"strconv"
	"strings"

	"github.com/labstack/gommon/log"
	csparql "github.com/opensilex/phis/pkg/conn/sparql"
	xe "github.com/opensilex/phis/pkg/errors"
	"github.com/opensilex/phis/pkg/ontology"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/query"
)

const (
	DefaultPageSize    = 20
	DefaultMaxPageSize = 5000
)

// Service runs queries for models on a repository.
//
// Service in a transaction (given to the callback of InTx) runs queries in the transaction.
type Service struct {
	conn    csparql.Conn
	q       csparql.Queryer
	inTx    bool
	baseURI string
	lang    string

	pageSize    int
	maxPageSize int

	logger *log.Logger
}

type Option func(*Service)

// WithLanguage sets the default language.
func WithLanguage(lang string) Option {
	return func(s *Service) {
		s.lang = lang
	}
}

// WithPageSize sets default and maximum page size.
// Non-positive values are ignored.
func WithPageSize(def int, max int) Option {
	return func(s *Service) {
		if 0 < def {
			s.pageSize = def
		}
		if 0 < max {
			s.maxPageSize = max
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

func NewService(conn csparql.Conn, baseURI string, opts ...Option) *Service {
	s := &Service{
		conn:        conn,
		q:           conn,
		baseURI:     strings.TrimRight(baseURI, "/"),
		lang:        "en",
		pageSize:    DefaultPageSize,
		maxPageSize: DefaultMaxPageSize,
		logger:      log.New("sparql"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) BaseURI() string {
	return s.baseURI
}

// Lang is lang, or the default language when lang is empty.
func (s *Service) Lang(lang string) string {
	if lang == "" {
		return s.lang
	}
	return lang
}

// PageSize normalizes requested page size.
//
// Non-positive size is the default page size, and larger than maximum is clamped.
func (s *Service) PageSize(size int) int {
	switch {
	case size <= 0:
		return s.pageSize
	case s.maxPageSize < size:
		return s.maxPageSize
	}
	return size
}

// Graph resolves graph name relative to the base URI. Absolute URIs are returned as they are.
func (s *Service) Graph(name string) mapper.URI {
	if name == "" {
		return ""
	}
	if _, err := query.ParseIRI(name); err == nil {
		return mapper.URI(name)
	}
	return mapper.URI(s.baseURI + "/" + strings.TrimLeft(name, "/"))
}

// GraphOf is the graph where m is stored.
func (s *Service) GraphOf(ix *mapper.Index, m mapper.Model) mapper.URI {
	if gs, ok := m.(mapper.GraphSelector); ok {
		if g := gs.InstanceGraph(); g != "" {
			return g
		}
	}
	return s.Graph(ix.Class.Graph)
}

// classGraph is the graph to query instances of the model.
// Models selecting their own graph are searched in all graphs.
func classGraph[T any, P mapper.PModel[T]](s *Service, ix *mapper.Index) mapper.URI {
	if _, ok := any(P(new(T))).(mapper.GraphSelector); ok {
		return ""
	}
	return s.Graph(ix.Class.Graph)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// InTx runs fn in a transaction.
//
// When fn returns error, the transaction is rolled back. Otherwise, it is committed.
// Nested call joins the outer transaction.
func (s *Service) InTx(ctx context.Context, fn func(tx *Service) error) error {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil {
			s.logger.Warnf("rollback failed: %s", err)
		}
	}()

	txs := *s
	txs.q = tx
	txs.inTx = true
	if err := fn(&txs); err != nil {
		return err
	}
	return xe.Wrap(tx.Commit(ctx))
}

// ExecuteSelect runs select query q.
func (s *Service) ExecuteSelect(ctx context.Context, q *query.Select) (*csparql.Results, error) {
	res, err := s.q.Select(ctx, q.String())
	return res, xe.Wrap(err)
}

// ExecuteAsk runs ask query q.
func (s *Service) ExecuteAsk(ctx context.Context, q *query.Ask) (bool, error) {
	ok, err := s.q.Ask(ctx, q.String())
	return ok, xe.Wrap(err)
}

// ExecuteUpdate runs u. Empty update does nothing.
func (s *Service) ExecuteUpdate(ctx context.Context, u *query.Update) error {
	if u.Empty() {
		return nil
	}
	return xe.Wrap(s.q.Update(ctx, u.String()))
}

// ExecuteCount runs count query, projecting the number as ?count.
func (s *Service) ExecuteCount(ctx context.Context, q *query.Select) (int, error) {
	res, err := s.ExecuteSelect(ctx, q)
	if err != nil {
		return 0, err
	}
	vals := res.Values("count")
	if len(vals) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(vals[0])
	return n, xe.Wrap(err)
}

// ExistURI tells uri is used in any triple, as subject, predicate or object.
func (s *Service) ExistURI(ctx context.Context, uri mapper.URI) (bool, error) {
	u := uri.IRI()
	sv, pv, ov := query.Var("s"), query.Var("p"), query.Var("o")
	return s.ExecuteAsk(ctx, query.NewAsk(query.Union(
		[]query.Pattern{query.T(u, pv, ov)},
		[]query.Pattern{query.T(sv, pv, u)},
		[]query.Pattern{query.T(sv, u, ov)},
	)))
}

// IsInstanceOf tells uri has rdf:type class or its subclass.
func (s *Service) IsInstanceOf(ctx context.Context, uri mapper.URI, class mapper.URI) (bool, error) {
	return s.ExecuteAsk(ctx, query.NewAsk(
		query.T(uri.IRI(), query.TypeOrSubType(), class.IRI()),
	))
}

// IsSubClassOf tells class is parent or its subclass.
func (s *Service) IsSubClassOf(ctx context.Context, class mapper.URI, parent mapper.URI) (bool, error) {
	return s.ExecuteAsk(ctx, query.NewAsk(
		query.T(class.IRI(), query.SubClassOfStar(), parent.IRI()),
	))
}

// CountInstances counts instances of class (or its subclasses) whose URI starts with prefix.
func (s *Service) CountInstances(ctx context.Context, class mapper.URI, prefix string) (int, error) {
	uri := mapper.VarURI
	q := query.NewSelect().
		Where(query.T(uri, query.TypeOrSubType(), class.IRI())).
		Filter(query.StrStarts(uri, prefix))
	return s.ExecuteCount(ctx, q.AsCount(uri, "count"))
}

// Labels returns labels of uris in lang, keyed by uri. URIs without label are absent.
func (s *Service) Labels(ctx context.Context, uris []mapper.URI, lang string) (map[mapper.URI]string, error) {
	labels := map[mapper.URI]string{}
	if len(uris) == 0 {
		return labels, nil
	}
	uri, label := mapper.VarURI, query.Var("label")
	q := query.NewSelect(uri, label).Distinct().Where(
		query.Values(uri, query.IRIs(uris)...),
		query.T(uri, query.IRI(ontology.RDFSLabel), label),
		query.Filter(query.LangFilter(label, s.Lang(lang))),
	)
	res, err := s.ExecuteSelect(ctx, q)
	if err != nil {
		return nil, err
	}
	for _, b := range res.Bindings {
		u, _ := b.Value("uri")
		l, _ := b.Value("label")
		// tagged label wins over untagged one.
		if _, ok := labels[mapper.URI(u)]; !ok || b["label"].Lang != "" {
			labels[mapper.URI(u)] = l
		}
	}
	return labels, nil
}
