package file_test

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/labstack/gommon/log"
	"github.com/opensilex/phis/pkg/api/types/results"
	"github.com/opensilex/phis/pkg/conn/mongo"
	"github.com/opensilex/phis/pkg/conn/sparql/mocks"
	"github.com/opensilex/phis/pkg/dateformat"
	"github.com/opensilex/phis/pkg/domain/file"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/storage"
	"go.mongodb.org/mongo-driver/bson"

	ctxutil "github.com/opensilex/phis/internal/testutils/context"
)

const base = "http://example.com/demo"

func TestCollection(t *testing.T) {
	for in, expected := range map[mapper.URI]string{
		"http://www.opensilex.org/vocabulary/oeso#HemisphericalImage": "HemisphericalImage",
		"http://example.com/types/RawData":                            "RawData",
		"Plain":                                                       "Plain",
	} {
		if got := file.Collection(in); got != expected {
			t.Errorf("Collection(%s) = %s, expected %s", in, got, expected)
		}
	}
}

func TestFilter(t *testing.T) {
	for name, testcase := range map[string]struct {
		params   file.SearchParams
		expected bson.M
	}{
		"empty": {
			params:   file.SearchParams{},
			expected: bson.M{},
		},
		"type and provenance": {
			params: file.SearchParams{
				RDFType:       "http://example.com/types/RawData",
				ProvenanceURI: base + "/id/provenance/p1",
			},
			expected: bson.M{
				"rdfType":       mapper.URI("http://example.com/types/RawData"),
				"provenanceUri": mapper.URI(base + "/id/provenance/p1"),
			},
		},
		"dates are days": {
			params: file.SearchParams{StartDate: "2019-04-01", EndDate: "2019-04-02"},
			expected: bson.M{
				"date": bson.M{
					"$gte": time.Date(2019, 4, 1, 0, 0, 0, 0, time.UTC),
					"$lte": dateformat.EndOfDay(time.Date(2019, 4, 2, 0, 0, 0, 0, time.UTC)),
				},
			},
		},
		"concerned items and json filter": {
			params: file.SearchParams{
				ConcernedItems:  []mapper.URI{base + "/2019/o19000001"},
				JSONValueFilter: `{"metadata.camera": "left"}`,
			},
			expected: bson.M{
				"metadata.camera":    "left",
				"concernedItems.uri": bson.M{"$in": []mapper.URI{base + "/2019/o19000001"}},
			},
		},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := file.Filter(testcase.params)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(testcase.expected, got); diff != "" {
				t.Errorf("filter (-expected, +actual) = %s", diff)
			}
		})
	}

	t.Run("broken json filter", func(t *testing.T) {
		if _, err := file.Filter(file.SearchParams{JSONValueFilter: `{"a": `}); !errors.Is(err, file.ErrInvalidFilter) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("broken date", func(t *testing.T) {
		_, err := file.Filter(file.SearchParams{StartDate: "yesterday"})
		if !errors.As(err, new(dateformat.ErrInvalidDate)) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestCheck(t *testing.T) {
	conn := mocks.NewConn()
	conn.Impl.Ask = func(ctx context.Context, q string) (bool, error) {
		return !strings.Contains(q, "/nothing"), nil
	}
	testee := file.New(nil, sparql.NewService(conn, base), nil, log.New("test"))

	for name, testcase := range map[string]struct {
		desc     file.FileDescription
		expected []string
	}{
		"valid": {
			desc: file.FileDescription{
				RDFType:        "http://example.com/types/RawData",
				ProvenanceURI:  base + "/id/provenance/p1",
				Date:           time.Date(2019, 4, 1, 10, 0, 0, 0, time.UTC),
				ConcernedItems: []file.ConcernedItem{{URI: base + "/2019/o19000001", TypeURI: "http://example.com/types/Plot"}},
			},
			expected: nil,
		},
		"unknown and missing": {
			desc: file.FileDescription{
				RDFType:        "http://example.com/types/RawData",
				ConcernedItems: []file.ConcernedItem{{URI: base + "/nothing", TypeURI: "http://example.com/types/Plot"}},
			},
			expected: []string{
				"provenanceUri is required",
				"date is required",
				"concerned item " + base + "/nothing does not exist",
			},
		},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := testee.Check(context.Background(), &testcase.desc)
			if err != nil {
				t.Fatal(err)
			}
			var details []string
			for _, s := range got.Statuses {
				details = append(details, s.Exception.Details)
			}
			if diff := cmp.Diff(testcase.expected, details); diff != "" {
				t.Errorf("details (-expected, +actual) = %s", diff)
			}
			if got.OK() != (len(testcase.expected) == 0) {
				t.Errorf("OK() = %v", got.OK())
			}
		})
	}
}

func TestCheckAndInsertWithWebPath_RejectsLocalPath(t *testing.T) {
	conn := mocks.NewConn()
	conn.Impl.Ask = func(ctx context.Context, q string) (bool, error) { return true, nil }
	testee := file.New(nil, sparql.NewService(conn, base), nil, log.New("test"))

	_, err := testee.CheckAndInsertWithWebPath(context.Background(), []*file.FileDescription{
		{
			RDFType: "http://example.com/types/RawData", ProvenanceURI: base + "/id/provenance/p1",
			Date: time.Now(), Path: "/var/data/a.csv",
		},
	})
	var ce *results.CheckError
	if !errors.As(err, &ce) {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ce.Statuses) != 1 || ce.Statuses[0].Message != "Wrong value" {
		t.Errorf("unexpected statuses: %+v", ce.Statuses)
	}
}

// connects to a MongoDB replica set given by PHIS_TEST_MONGODB_URI.
func connectMongo(t *testing.T) *mongo.Client {
	t.Helper()
	u := os.Getenv("PHIS_TEST_MONGODB_URI")
	if u == "" {
		t.Skip("PHIS_TEST_MONGODB_URI is not set")
	}
	ctx := context.Background()
	db := "phis_test_" + strings.ReplaceAll(strings.ToLower(t.Name()), "/", "_")
	client, err := mongo.Connect(ctx, u, db, mongo.WithTimeout(10*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		client.Database().Drop(ctx)
		client.Disconnect(ctx)
	})
	return client
}

func TestCheckAndInsert_Mongo(t *testing.T) {
	client := connectMongo(t)
	ctx, cancel := ctxutil.WithTest(context.Background(), t)
	defer cancel()

	conn := mocks.NewConn()
	conn.Impl.Ask = func(ctx context.Context, q string) (bool, error) { return true, nil }
	fs, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	testee := file.New(client, sparql.NewService(conn, base), fs, log.New("test"))

	desc := &file.FileDescription{
		RDFType:       "http://example.com/types/RawData",
		ProvenanceURI: base + "/id/provenance/p1",
		Date:          time.Date(2019, 4, 1, 10, 0, 0, 0, time.UTC),
		Filename:      "a.csv",
		Metadata:      map[string]any{"camera": "left"},
	}
	u, err := testee.CheckAndInsert(ctx, desc, strings.NewReader("a,b\n1,2\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(u), base+"/id/file/RawData/") {
		t.Errorf("unexpected uri: %s", u)
	}

	found, err := testee.FindByURI(ctx, u)
	if err != nil {
		t.Fatal(err)
	}
	if found.Filename != "a.csv" || !found.Date.Equal(desc.Date) {
		t.Errorf("unexpected description: %+v", found)
	}

	r, err := testee.Open(found)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	content, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "a,b\n1,2\n" {
		t.Errorf("content = %q", content)
	}

	n, err := testee.Count(ctx, file.SearchParams{
		RDFType: desc.RDFType, JSONValueFilter: `{"metadata.camera": "left"}`,
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("count = %d", n)
	}

	if _, err := testee.FindByURI(ctx, base+"/id/file/RawData/none"); !errors.Is(err, sparql.ErrNotFoundURI) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStoreThenRecord(t *testing.T) {
	read := func(t *testing.T, fs storage.FileStorage, path string) (string, error) {
		t.Helper()
		r, err := fs.Read(path)
		if err != nil {
			return "", err
		}
		defer r.Close()
		b, err := io.ReadAll(r)
		return string(b), err
	}

	t.Run("retried record does not consume the content again", func(t *testing.T) {
		fs, err := storage.NewLocal(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		calls := 0
		err = file.StoreThenRecord(
			context.Background(), fs, "RawData/a", strings.NewReader("a,b\n1,2\n"), log.New("test"),
			func(context.Context) error {
				// a transaction retrying its body
				for i := 0; i < 2; i++ {
					calls += 1
				}
				return nil
			},
		)
		if err != nil {
			t.Fatal(err)
		}
		if calls != 2 {
			t.Errorf("record is called %d times", calls)
		}
		got, err := read(t, fs, "RawData/a")
		if err != nil {
			t.Fatal(err)
		}
		if got != "a,b\n1,2\n" {
			t.Errorf("content = %q", got)
		}
	})

	t.Run("content is stored before recording", func(t *testing.T) {
		fs, err := storage.NewLocal(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		var seen string
		err = file.StoreThenRecord(
			context.Background(), fs, "RawData/b", strings.NewReader("stored"), log.New("test"),
			func(context.Context) error {
				s, err := read(t, fs, "RawData/b")
				seen = s
				return err
			},
		)
		if err != nil {
			t.Fatal(err)
		}
		if seen != "stored" {
			t.Errorf("record sees %q", seen)
		}
	})

	t.Run("failed record removes the stored file", func(t *testing.T) {
		fs, err := storage.NewLocal(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		expectedErr := mongo.ErrDuplicated
		err = file.StoreThenRecord(
			context.Background(), fs, "RawData/c", strings.NewReader("x"), log.New("test"),
			func(context.Context) error { return expectedErr },
		)
		if !errors.Is(err, expectedErr) {
			t.Errorf("unexpected error: %v", err)
		}
		if _, err := read(t, fs, "RawData/c"); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("file is left: %v", err)
		}
	})

	t.Run("failed write does not record", func(t *testing.T) {
		fs, err := storage.NewLocal(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fs.Write(context.Background(), "RawData/d", strings.NewReader("first")); err != nil {
			t.Fatal(err)
		}
		recorded := false
		err = file.StoreThenRecord(
			context.Background(), fs, "RawData/d", strings.NewReader("second"), log.New("test"),
			func(context.Context) error { recorded = true; return nil },
		)
		if err == nil || recorded {
			t.Errorf("unexpected result: err = %v, recorded = %v", err, recorded)
		}
		if got, _ := read(t, fs, "RawData/d"); got != "first" {
			t.Errorf("existing content is overwritten: %q", got)
		}
	})
}
