package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	csparql "github.com/opensilex/phis/pkg/conn/sparql"
	smocks "github.com/opensilex/phis/pkg/conn/sparql/mocks"
	kdb "github.com/opensilex/phis/pkg/db"
	"github.com/opensilex/phis/pkg/db/mocks"
	"github.com/opensilex/phis/pkg/sparql"
	"golang.org/x/crypto/bcrypt"
)

func TestAddUser(t *testing.T) {
	uf := userFlags{
		email: "admin@opensilex.org", firstName: "admin", familyName: "phis",
		password: "azerty", language: "fr", admin: true,
		groups: []string{"http://example.com/group/agrophen"},
	}

	t.Run("it registers the user with hashed password, and puts it into groups", func(t *testing.T) {
		db := mocks.NewDatabase()
		db.UserInterface.Impl.Create = func(_ context.Context, p kdb.UserParam) (kdb.User, error) {
			return kdb.User{URI: p.URI, Email: p.Email, Admin: p.Admin}, nil
		}
		db.GroupInterface.Impl.AddMember = func(context.Context, string, string) error { return nil }

		u, err := addUser(context.Background(), db, "http://example.com", uf)
		if err != nil {
			t.Fatal(err)
		}
		if u.URI != "http://example.com/user/admin/phis" {
			t.Errorf("unexpected uri: %s", u.URI)
		}

		created := db.UserInterface.Calls.Create[0]
		if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("azerty")); err != nil {
			t.Errorf("password is not hashed: %s", err)
		}
		if !created.Admin || created.Language != "fr" {
			t.Errorf("unexpected param: %+v", created)
		}

		want := []struct{ GroupURI, UserURI string }{
			{GroupURI: "http://example.com/group/agrophen", UserURI: u.URI},
		}
		if diff := cmp.Diff(want, []struct{ GroupURI, UserURI string }(db.GroupInterface.Calls.AddMember)); diff != "" {
			t.Errorf("unexpected AddMember calls (-want +got):\n%s", diff)
		}
	})

	t.Run("registered email is an error", func(t *testing.T) {
		db := mocks.NewDatabase()
		db.UserInterface.Impl.Create = func(context.Context, kdb.UserParam) (kdb.User, error) {
			return kdb.User{}, kdb.ErrConflict
		}
		_, err := addUser(context.Background(), db, "http://example.com", uf)
		if !errors.Is(err, kdb.ErrConflict) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("malformed email is refused before registering", func(t *testing.T) {
		db := mocks.NewDatabase()
		broken := uf
		broken.email = "admin"
		if _, err := addUser(context.Background(), db, "http://example.com", broken); err == nil {
			t.Error("expected error, but not")
		}
		if db.UserInterface.Calls.Create.Times() != 0 {
			t.Error("user is created")
		}
	})
}

func TestRootCommand(t *testing.T) {
	t.Run("it has subcommands", func(t *testing.T) {
		root := newRootCommand()
		for _, path := range [][]string{
			{"schema", "upgrade"},
			{"schema", "version"},
			{"user", "add"},
			{"shacl", "enable"},
			{"shacl", "disable"},
			{"graph", "list"},
			{"graph", "clear"},
			{"graph", "rename"},
			{"graph", "dump"},
		} {
			c, _, err := root.Find(path)
			if err != nil || c.Name() != path[len(path)-1] {
				t.Errorf("command is not found: %v", path)
			}
		}
	})

	t.Run("clearing graphs requires confirmation", func(t *testing.T) {
		root := newRootCommand()
		out := new(bytes.Buffer)
		root.SetOut(out)
		root.SetErr(out)
		root.SetArgs([]string{"graph", "clear", "--config-path", "/nowhere/config.yaml"})
		err := root.ExecuteContext(context.Background())
		if err == nil || !strings.Contains(err.Error(), "--yes") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("shapes can be printed without triplestore", func(t *testing.T) {
		root := newRootCommand()
		out := new(bytes.Buffer)
		root.SetOut(out)
		root.SetArgs([]string{"shacl", "enable", "--print"})
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out.String(), "sh:NodeShape") {
			t.Errorf("unexpected shapes:\n%s", out.String())
		}
	})
}

func TestGraphCommands(t *testing.T) {
	const base = "http://example.com/phis"

	t.Run("rename moves the graph resolved against the base uri", func(t *testing.T) {
		conn := smocks.NewConn()
		conn.Impl.Update = func(context.Context, string) error { return nil }
		svc := sparql.NewService(conn, base)
		out := new(bytes.Buffer)

		if err := renameGraph(context.Background(), svc, out, "set/old", base+"/set/new"); err != nil {
			t.Fatal(err)
		}
		want := []string{"MOVE SILENT GRAPH <" + base + "/set/old> TO GRAPH <" + base + "/set/new>"}
		if diff := cmp.Diff(want, conn.Calls.Update); diff != "" {
			t.Errorf("unexpected updates (-want +got):\n%s", diff)
		}
		if !strings.Contains(out.String(), "moved "+base+"/set/old") {
			t.Errorf("unexpected output: %s", out.String())
		}
	})

	t.Run("rename onto itself is refused", func(t *testing.T) {
		conn := smocks.NewConn()
		svc := sparql.NewService(conn, base)
		if err := renameGraph(context.Background(), svc, new(bytes.Buffer), "set/same", base+"/set/same"); err == nil {
			t.Error("expected error, but not")
		}
		if len(conn.Calls.Update) != 0 {
			t.Errorf("update is sent: %v", conn.Calls.Update)
		}
	})

	t.Run("dump prints N-Triples of the graph", func(t *testing.T) {
		conn := smocks.NewConn()
		conn.Impl.Select = func(context.Context, string) (*csparql.Results, error) {
			return &csparql.Results{Bindings: []csparql.Binding{
				{
					"s": {Type: csparql.TermURI, Value: base + "/id/project/p1"},
					"p": {Type: csparql.TermURI, Value: "http://www.w3.org/2000/01/rdf-schema#label"},
					"o": {Type: csparql.TermLiteral, Value: "P1", Lang: "EN"},
				},
				{
					"s": {Type: csparql.TermURI, Value: base + "/id/project/p1"},
					"p": {Type: csparql.TermURI, Value: "http://www.opensilex.org/vocabulary/oeso#startDate"},
					"o": {Type: csparql.TermLiteral, Value: "2020-01-01", Datatype: "http://www.w3.org/2001/XMLSchema#date"},
				},
			}}, nil
		}
		svc := sparql.NewService(conn, base)
		out := new(bytes.Buffer)

		if err := dumpGraph(context.Background(), svc, out, "set/projects"); err != nil {
			t.Fatal(err)
		}
		want := "<" + base + "/id/project/p1> <http://www.w3.org/2000/01/rdf-schema#label> \"P1\"@en .\n" +
			"<" + base + "/id/project/p1> <http://www.opensilex.org/vocabulary/oeso#startDate> \"2020-01-01\"^^<http://www.w3.org/2001/XMLSchema#date> .\n"
		if diff := cmp.Diff(want, out.String()); diff != "" {
			t.Errorf("unexpected dump (-want +got):\n%s", diff)
		}
		if len(conn.Calls.Select) != 1 || !strings.Contains(conn.Calls.Select[0], "GRAPH <"+base+"/set/projects>") {
			t.Errorf("unexpected queries: %v", conn.Calls.Select)
		}
	})
}
