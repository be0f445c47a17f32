package sparql

import (
	"context"

	xe "github.com/opensilex/phis/pkg/errors"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/query"
	"github.com/opensilex/phis/pkg/uri"
	"github.com/opensilex/phis/pkg/utils"
)

// how many URIs are put in a VALUES clause at once.
const valuesChunkSize = 500

// Create inserts models in one transaction.
//
// Models without URI get generated one (see GenerateURI).
// When one of given URIs is already used, it fails with ErrAlreadyExists and nothing is inserted.
//
// Language-tagged fields are tagged with lang (or the default language).
func Create[T any, P mapper.PModel[T]](ctx context.Context, s *Service, lang string, models ...P) error {
	ix := mapper.For[T, P]()
	for _, m := range models {
		if err := ix.Validate(m); err != nil {
			return xe.Wrap(err)
		}
	}

	return s.InTx(ctx, func(tx *Service) error {
		taken := map[mapper.URI]bool{}
		u := query.NewUpdate()
		for _, m := range models {
			r := m.Res()
			if r.URI == "" {
				generated, err := tx.GenerateURI(ctx, ix, m, taken)
				if err != nil {
					return err
				}
				r.URI = generated
			} else if taken[r.URI] {
				return xe.Wrap(AlreadyExists(r.URI))
			} else if exists, err := tx.ExistURI(ctx, r.URI); err != nil {
				return err
			} else if exists {
				return xe.Wrap(AlreadyExists(r.URI))
			}
			taken[r.URI] = true
			u.InsertData(tx.GraphOf(ix, m).IRI(), ix.Triples(m, tx.Lang(lang))...)
		}
		return tx.ExecuteUpdate(ctx, u)
	})
}

// GenerateURI gives an unused URI for m.
//
// Models implementing mapper.Segmenter get `{base}/{class prefix}/{segments}`,
// suffixed with "-2", "-3", ... until it is not used in the repository nor in taken.
// Others get `{base}/id/{class prefix}/{uuid}`.
func (s *Service) GenerateURI(ctx context.Context, ix *mapper.Index, m mapper.Model, taken map[mapper.URI]bool) (mapper.URI, error) {
	seg, ok := m.(mapper.Segmenter)
	if !ok {
		return mapper.URI(uri.ForInstance(s.baseURI, ix.Class.Prefix)), nil
	}
	base := uri.ForClass(s.baseURI, ix.Class.Prefix, seg.URISegments()...)
	for n := 1; ; n++ {
		cand := mapper.URI(uri.WithSuffix(base, n))
		if taken[cand] {
			continue
		}
		exists, err := s.ExistURI(ctx, cand)
		if err != nil {
			return "", err
		}
		if !exists {
			return cand, nil
		}
	}
}

// Update replaces all mapped properties of models in one transaction.
//
// When one of models does not exist, it fails with ErrNotFoundURI and nothing is updated.
func Update[T any, P mapper.PModel[T]](ctx context.Context, s *Service, lang string, models ...P) error {
	ix := mapper.For[T, P]()
	for _, m := range models {
		if err := ix.Validate(m); err != nil {
			return xe.Wrap(err)
		}
	}

	return s.InTx(ctx, func(tx *Service) error {
		u := query.NewUpdate()
		for _, m := range models {
			r := m.Res()
			exists, err := URIExists[T, P](ctx, tx, r.URI)
			if err != nil {
				return err
			}
			if !exists {
				return xe.Wrap(NotFound(r.URI))
			}
			ix.DeleteTemplate(u, r.URI, classGraph[T, P](tx, ix))
			u.InsertData(tx.GraphOf(ix, m).IRI(), ix.Triples(m, tx.Lang(lang))...)
		}
		return tx.ExecuteUpdate(ctx, u)
	})
}

// Delete removes all triples having the resources as subject or object, in one transaction.
//
// When one of uris is not an instance of the model, it fails with ErrNotFoundURI.
func Delete[T any, P mapper.PModel[T]](ctx context.Context, s *Service, uris ...mapper.URI) error {
	return s.InTx(ctx, func(tx *Service) error {
		u := query.NewUpdate()
		for _, r := range uris {
			exists, err := URIExists[T, P](ctx, tx, r)
			if err != nil {
				return err
			}
			if !exists {
				return xe.Wrap(NotFound(r))
			}
			deleteResource(u, r)
		}
		return tx.ExecuteUpdate(ctx, u)
	})
}

func deleteResource(u *query.Update, r mapper.URI) {
	g, p, o := query.Var("g"), query.Var("p"), query.Var("o")
	asSubject := query.Graph(g, query.T(r.IRI(), p, o))
	asObject := query.Graph(g, query.T(o, p, r.IRI()))
	u.DeleteInsertWhere([]query.Pattern{asSubject}, nil, asSubject)
	u.DeleteInsertWhere([]query.Pattern{asObject}, nil, asObject)
}

// URIExists tells uri is an instance of the model class (or its subclass).
func URIExists[T any, P mapper.PModel[T]](ctx context.Context, s *Service, uri mapper.URI) (bool, error) {
	ix := mapper.For[T, P]()
	return s.IsInstanceOf(ctx, uri, mapper.URI(ix.Class.Type))
}

// GetByURI loads a model.
//
// When it is not found, it fails with ErrNotFoundURI.
func GetByURI[T any, P mapper.PModel[T]](ctx context.Context, s *Service, uri mapper.URI, lang string) (P, error) {
	list, err := GetListByURIs[T, P](ctx, s, []mapper.URI{uri}, lang)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, xe.Wrap(NotFound(uri))
	}
	return list[0], nil
}

// GetListByURIs loads models in the order of uris. Missing ones are skipped.
func GetListByURIs[T any, P mapper.PModel[T]](ctx context.Context, s *Service, uris []mapper.URI, lang string) ([]P, error) {
	ix := mapper.For[T, P]()
	lang = s.Lang(lang)
	graph := classGraph[T, P](s, ix)

	found := map[mapper.URI]P{}
	for _, chunk := range utils.Chunk(utils.Unique(uris), valuesChunkSize) {
		q := ix.SelectQuery(graph, lang).Where(query.Values(mapper.VarURI, query.IRIs(chunk)...))
		res, err := s.ExecuteSelect(ctx, q)
		if err != nil {
			return nil, err
		}
		ms, err := decodeAll[T, P](ix, res.Bindings)
		if err != nil {
			return nil, err
		}
		for _, m := range ms {
			found[m.Res().URI] = m
		}
	}

	list := make([]P, 0, len(found))
	for _, u := range uris {
		if m, ok := found[u]; ok {
			list = append(list, m)
			delete(found, u)
		}
	}
	if err := s.complete(ctx, ix, graph, lang, asModels(list)); err != nil {
		return nil, err
	}
	return list, nil
}
