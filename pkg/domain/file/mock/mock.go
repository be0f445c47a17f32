package mock

import (
	"context"
	"errors"
	"io"

	"github.com/opensilex/phis/pkg/api/types/results"
	"github.com/opensilex/phis/pkg/db/mocks"
	"github.com/opensilex/phis/pkg/domain/file"
	"github.com/opensilex/phis/pkg/sparql/mapper"
)

type Inserted struct {
	Desc    *file.FileDescription
	Content []byte
}

type MockFiles struct {
	Impl struct {
		Search                    func(ctx context.Context, params file.SearchParams) ([]*file.FileDescription, error)
		Count                     func(ctx context.Context, params file.SearchParams) (int64, error)
		PageSize                  func(requested int) int
		Check                     func(ctx context.Context, desc *file.FileDescription) (*results.CheckResult, error)
		CheckAndInsert            func(ctx context.Context, desc *file.FileDescription, content io.Reader) (mapper.URI, error)
		CheckAndInsertWithWebPath func(ctx context.Context, descs []*file.FileDescription) ([]mapper.URI, error)
		FindByURI                 func(ctx context.Context, uri mapper.URI) (*file.FileDescription, error)
		URIExists                 func(ctx context.Context, rdfType mapper.URI, uri mapper.URI) (bool, error)
		Open                      func(desc *file.FileDescription) (io.ReadCloser, error)
	}
	Calls struct {
		Search                    mocks.CallLog[file.SearchParams]
		Count                     mocks.CallLog[file.SearchParams]
		PageSize                  mocks.CallLog[int]
		Check                     mocks.CallLog[*file.FileDescription]
		CheckAndInsert            mocks.CallLog[Inserted]
		CheckAndInsertWithWebPath mocks.CallLog[[]*file.FileDescription]
		FindByURI                 mocks.CallLog[mapper.URI]
		URIExists                 mocks.CallLog[mapper.URI]
		Open                      mocks.CallLog[*file.FileDescription]
	}
}

var _ file.Interface = &MockFiles{}

func New() *MockFiles {
	return &MockFiles{}
}

func (m *MockFiles) Search(ctx context.Context, params file.SearchParams) ([]*file.FileDescription, error) {
	m.Calls.Search = append(m.Calls.Search, params)
	if m.Impl.Search != nil {
		return m.Impl.Search(ctx, params)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockFiles) Count(ctx context.Context, params file.SearchParams) (int64, error) {
	m.Calls.Count = append(m.Calls.Count, params)
	if m.Impl.Count != nil {
		return m.Impl.Count(ctx, params)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockFiles) PageSize(requested int) int {
	m.Calls.PageSize = append(m.Calls.PageSize, requested)
	if m.Impl.PageSize != nil {
		return m.Impl.PageSize(requested)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockFiles) Check(ctx context.Context, desc *file.FileDescription) (*results.CheckResult, error) {
	m.Calls.Check = append(m.Calls.Check, desc)
	if m.Impl.Check != nil {
		return m.Impl.Check(ctx, desc)
	}
	panic(errors.New("it should no be called"))
}

// CheckAndInsert records the content read from content.
func (m *MockFiles) CheckAndInsert(ctx context.Context, desc *file.FileDescription, content io.Reader) (mapper.URI, error) {
	b, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	m.Calls.CheckAndInsert = append(m.Calls.CheckAndInsert, Inserted{Desc: desc, Content: b})
	if m.Impl.CheckAndInsert != nil {
		return m.Impl.CheckAndInsert(ctx, desc, content)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockFiles) CheckAndInsertWithWebPath(ctx context.Context, descs []*file.FileDescription) ([]mapper.URI, error) {
	m.Calls.CheckAndInsertWithWebPath = append(m.Calls.CheckAndInsertWithWebPath, descs)
	if m.Impl.CheckAndInsertWithWebPath != nil {
		return m.Impl.CheckAndInsertWithWebPath(ctx, descs)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockFiles) FindByURI(ctx context.Context, uri mapper.URI) (*file.FileDescription, error) {
	m.Calls.FindByURI = append(m.Calls.FindByURI, uri)
	if m.Impl.FindByURI != nil {
		return m.Impl.FindByURI(ctx, uri)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockFiles) URIExists(ctx context.Context, rdfType mapper.URI, uri mapper.URI) (bool, error) {
	m.Calls.URIExists = append(m.Calls.URIExists, uri)
	if m.Impl.URIExists != nil {
		return m.Impl.URIExists(ctx, rdfType, uri)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockFiles) Open(desc *file.FileDescription) (io.ReadCloser, error) {
	m.Calls.Open = append(m.Calls.Open, desc)
	if m.Impl.Open != nil {
		return m.Impl.Open(desc)
	}
	panic(errors.New("it should no be called"))
}
