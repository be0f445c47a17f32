// Package file manages descriptions of data files, kept in MongoDB,
// and their contents, kept in a FileStorage.
package file

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/opensilex/phis/pkg/api/types/results"
	"github.com/opensilex/phis/pkg/conn/mongo"
	"github.com/opensilex/phis/pkg/dateformat"
	xe "github.com/opensilex/phis/pkg/errors"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/storage"
	"github.com/opensilex/phis/pkg/uri"
	kstrings "github.com/opensilex/phis/pkg/utils/strings"
	"go.mongodb.org/mongo-driver/bson"
	mgo "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// the json value filter is not an Extended JSON object.
var ErrInvalidFilter = errors.New("invalid json value filter")

type ConcernedItem struct {
	URI     mapper.URI `json:"uri" bson:"uri"`
	TypeURI mapper.URI `json:"typeURI" bson:"typeURI"`
}

type FileDescription struct {
	URI            mapper.URI      `json:"uri" bson:"uri"`
	RDFType        mapper.URI      `json:"rdfType" bson:"rdfType"`
	Date           time.Time       `json:"date" bson:"date"`
	Filename       string          `json:"filename" bson:"filename"`
	Path           string          `json:"-" bson:"path"`
	ProvenanceURI  mapper.URI      `json:"provenanceUri" bson:"provenanceUri"`
	ConcernedItems []ConcernedItem `json:"concernedItems" bson:"concernedItems"`
	Metadata       map[string]any  `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// WebPath tells the file is not stored here, and Path is its URL.
func (fd *FileDescription) WebPath() bool {
	return strings.HasPrefix(fd.Path, "http://") || strings.HasPrefix(fd.Path, "https://")
}

// Collection is the name of the collection of descriptions of the rdf type: its local name.
//
//	Collection("http://www.opensilex.org/vocabulary/oeso#HemisphericalImage") // -> "HemisphericalImage"
func Collection(rdfType mapper.URI) string {
	return kstrings.LocalName(string(rdfType))
}

type SearchParams struct {
	RDFType mapper.URI

	// date or date-time. Plain dates are the start or the end of the day.
	StartDate string
	EndDate   string

	ProvenanceURI mapper.URI

	// Extended JSON object merged into the query, e.g. `{"metadata.camera": "left"}`
	JSONValueFilter string

	// descriptions concerning one of them
	ConcernedItems []mapper.URI

	DateSortAsc bool
	Page        int
	PageSize    int
}

type Interface interface {
	// Search finds descriptions ordered by date.
	Search(ctx context.Context, params SearchParams) ([]*FileDescription, error)

	// Count counts descriptions Search would find without pagination.
	Count(ctx context.Context, params SearchParams) (int64, error)

	// PageSize is the page size Search applies for the requested one.
	PageSize(requested int) int

	// Check tells problems of the description.
	Check(ctx context.Context, desc *FileDescription) (*results.CheckResult, error)

	// CheckAndInsert stores content and its description.
	//
	// Returns:
	//
	// - mapper.URI: URI given to the file.
	//
	// - error: *results.CheckError when checks fail, sparql.ErrAlreadyExists on URI conflict.
	CheckAndInsert(ctx context.Context, desc *FileDescription, content io.Reader) (mapper.URI, error)

	// CheckAndInsertWithWebPath stores descriptions of files outside, all or none.
	CheckAndInsertWithWebPath(ctx context.Context, descs []*FileDescription) ([]mapper.URI, error)

	// FindByURI finds the description.
	//
	// Returns:
	//
	// - error: sparql.ErrNotFoundURI when it is missing.
	FindByURI(ctx context.Context, uri mapper.URI) (*FileDescription, error)

	URIExists(ctx context.Context, rdfType mapper.URI, uri mapper.URI) (bool, error)

	// Open reads content of the file.
	Open(desc *FileDescription) (io.ReadCloser, error)
}

type dao struct {
	mongo   *mongo.Client
	sparql  *sparql.Service
	storage storage.FileStorage
	logger  *log.Logger
}

func New(m *mongo.Client, s *sparql.Service, fs storage.FileStorage, logger *log.Logger) Interface {
	return &dao{mongo: m, sparql: s, storage: fs, logger: logger}
}

// Filter builds the query document of params.
func Filter(params SearchParams) (bson.M, error) {
	filter := bson.M{}
	if params.JSONValueFilter != "" {
		if err := bson.UnmarshalExtJSON([]byte(params.JSONValueFilter), false, &filter); err != nil {
			return nil, xe.WrapWithNote(err.Error(), ErrInvalidFilter)
		}
	}

	date := bson.M{}
	if params.StartDate != "" {
		start, err := dateformat.ParseDateOrDateTime(params.StartDate, false)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		date["$gte"] = start
	}
	if params.EndDate != "" {
		end, err := dateformat.ParseDateOrDateTime(params.EndDate, true)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		date["$lte"] = end
	}
	if len(date) != 0 {
		filter["date"] = date
	}
	if params.ProvenanceURI != "" {
		filter["provenanceUri"] = params.ProvenanceURI
	}
	if len(params.ConcernedItems) != 0 {
		filter["concernedItems.uri"] = bson.M{"$in": params.ConcernedItems}
	}
	if params.RDFType != "" {
		filter["rdfType"] = params.RDFType
	}
	return filter, nil
}

func (d *dao) Search(ctx context.Context, params SearchParams) ([]*FileDescription, error) {
	filter, err := Filter(params)
	if err != nil {
		return nil, err
	}
	order := -1
	if params.DateSortAsc {
		order = 1
	}
	pageSize := int64(d.sparql.PageSize(params.PageSize))
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: order}}).
		SetSkip(int64(max(params.Page, 0)) * pageSize).
		SetLimit(pageSize)

	d.logger.Debugf("find in %s: %v", Collection(params.RDFType), filter)
	cur, err := d.mongo.Collection(Collection(params.RDFType)).Find(ctx, filter, opts)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	found := []*FileDescription{}
	if err := cur.All(ctx, &found); err != nil {
		return nil, xe.Wrap(err)
	}
	return found, nil
}

func (d *dao) Count(ctx context.Context, params SearchParams) (int64, error) {
	filter, err := Filter(params)
	if err != nil {
		return 0, err
	}
	n, err := d.mongo.Collection(Collection(params.RDFType)).CountDocuments(ctx, filter)
	return n, xe.Wrap(err)
}

func (d *dao) Check(ctx context.Context, desc *FileDescription) (*results.CheckResult, error) {
	cr := new(results.CheckResult)
	exists := func(field string, u mapper.URI) error {
		if u == "" {
			cr.Failf("Missing field", "%s is required", field)
			return nil
		}
		ok, err := d.sparql.ExistURI(ctx, u)
		if err != nil {
			return err
		}
		if !ok {
			cr.Failf("Unknown URI", "%s %s does not exist", field, u)
		}
		return nil
	}

	if err := exists("rdfType", desc.RDFType); err != nil {
		return nil, err
	}
	if err := exists("provenanceUri", desc.ProvenanceURI); err != nil {
		return nil, err
	}
	if desc.Date.IsZero() {
		cr.Failf("Missing field", "date is required")
	}
	for _, item := range desc.ConcernedItems {
		if err := exists("concerned item", item.URI); err != nil {
			return nil, err
		}
		if err := exists("type of concerned item", item.TypeURI); err != nil {
			return nil, err
		}
	}
	return cr, nil
}

// storagePath is `{collection}/{base64url(uri)}`, relative to the storage root.
func storagePath(collection string, u mapper.URI) string {
	return collection + "/" + base64.URLEncoding.EncodeToString([]byte(u))
}

func (d *dao) PageSize(requested int) int {
	return d.sparql.PageSize(requested)
}

func (d *dao) CheckAndInsert(ctx context.Context, desc *FileDescription, content io.Reader) (mapper.URI, error) {
	cr, err := d.Check(ctx, desc)
	if err != nil {
		return "", err
	}
	if err := cr.Err(); err != nil {
		return "", xe.Wrap(err)
	}

	collection := Collection(desc.RDFType)
	if err := d.mongo.EnsureUniqueIndex(ctx, collection, "uri"); err != nil {
		return "", err
	}
	desc.URI = mapper.URI(uri.ForFile(d.sparql.BaseURI(), collection))
	desc.Path = storagePath(collection, desc.URI)

	err = storeThenRecord(ctx, d.storage, desc.Path, content, d.logger, func(ctx context.Context) error {
		return d.mongo.InTx(ctx, func(ctx context.Context) error {
			_, err := d.mongo.Collection(collection).InsertOne(ctx, desc)
			return xe.Wrap(err)
		})
	})
	if errors.Is(err, mongo.ErrDuplicated) {
		return "", xe.Wrap(sparql.AlreadyExists(desc.URI))
	}
	if err != nil {
		return "", err
	}
	return desc.URI, nil
}

// storeThenRecord writes content at path, then calls record.
//
// record may be retried (as transactions do) without touching content.
// When record fails, the written file is removed.
func storeThenRecord(
	ctx context.Context, fs storage.FileStorage, path string, content io.Reader,
	logger *log.Logger, record func(context.Context) error,
) error {
	if _, err := fs.Write(ctx, path, content); err != nil {
		return err
	}
	if err := record(ctx); err != nil {
		if rerr := fs.Remove(path); rerr != nil {
			logger.Warnf("failed to remove %s: %s", path, rerr)
		}
		return err
	}
	return nil
}

func (d *dao) CheckAndInsertWithWebPath(ctx context.Context, descs []*FileDescription) ([]mapper.URI, error) {
	cr := new(results.CheckResult)
	for _, desc := range descs {
		c, err := d.Check(ctx, desc)
		if err != nil {
			return nil, err
		}
		cr.Add(c.Statuses...)
		if !desc.WebPath() {
			cr.Failf("Wrong value", "path %q is not a web path", desc.Path)
		}
	}
	if err := cr.Err(); err != nil {
		return nil, xe.Wrap(err)
	}

	uris := make([]mapper.URI, len(descs))
	for i, desc := range descs {
		collection := Collection(desc.RDFType)
		if err := d.mongo.EnsureUniqueIndex(ctx, collection, "uri"); err != nil {
			return nil, err
		}
		desc.URI = mapper.URI(uri.ForFile(d.sparql.BaseURI(), collection))
		uris[i] = desc.URI
	}
	err := d.mongo.InTx(ctx, func(ctx context.Context) error {
		for _, desc := range descs {
			if _, err := d.mongo.Collection(Collection(desc.RDFType)).InsertOne(ctx, desc); err != nil {
				return xe.Wrap(err)
			}
		}
		return nil
	})
	if errors.Is(err, mongo.ErrDuplicated) {
		return nil, xe.Wrap(sparql.ErrAlreadyExists)
	}
	if err != nil {
		return nil, err
	}
	return uris, nil
}

func (d *dao) FindByURI(ctx context.Context, u mapper.URI) (*FileDescription, error) {
	found := new(FileDescription)
	err := d.mongo.Collection(uri.Collection(string(u))).FindOne(ctx, bson.M{"uri": u}).Decode(found)
	if errors.Is(err, mgo.ErrNoDocuments) {
		return nil, xe.Wrap(sparql.NotFound(u))
	}
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return found, nil
}

func (d *dao) URIExists(ctx context.Context, rdfType mapper.URI, u mapper.URI) (bool, error) {
	n, err := d.mongo.Collection(Collection(rdfType)).CountDocuments(
		ctx, bson.M{"uri": u}, options.Count().SetLimit(1),
	)
	if err != nil {
		return false, xe.Wrap(err)
	}
	return 0 < n, nil
}

func (d *dao) Open(desc *FileDescription) (io.ReadCloser, error) {
	if desc.WebPath() {
		return nil, xe.WrapWithNote("file is at "+desc.Path, sparql.ErrNotFoundURI)
	}
	return d.storage.Read(desc.Path)
}
