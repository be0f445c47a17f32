// Package mongo connects to the MongoDB database keeping file descriptions.
package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/gommon/log"
	xe "github.com/opensilex/phis/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// a document with the same unique key exists.
var ErrDuplicated = errors.New("duplicated key")

type Client struct {
	client *mongo.Client
	db     *mongo.Database
	logger *log.Logger
}

type Option func(*options.ClientOptions, *Client)

// WithTimeout limits each operation.
func WithTimeout(d time.Duration) Option {
	return func(co *options.ClientOptions, _ *Client) {
		if 0 < d {
			co.SetTimeout(d)
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(_ *options.ClientOptions, c *Client) {
		c.logger = l
	}
}

// Connect connects to the database at uri.
func Connect(ctx context.Context, uri string, database string, opts ...Option) (*Client, error) {
	co := options.Client().ApplyURI(uri)
	c := &Client{logger: log.New("mongo")}
	for _, o := range opts {
		o(co, c)
	}
	cl, err := mongo.Connect(ctx, co)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	c.client = cl
	c.db = cl.Database(database)
	return c, nil
}

func (c *Client) Database() *mongo.Database {
	return c.db
}

func (c *Client) Logger() *log.Logger {
	return c.logger
}

func (c *Client) Collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

func (c *Client) Ping(ctx context.Context) error {
	return xe.Wrap(c.client.Ping(ctx, readpref.Primary()))
}

func (c *Client) Disconnect(ctx context.Context) error {
	return xe.Wrap(c.client.Disconnect(ctx))
}

// EnsureUniqueIndex creates an unique index on the field of the collection, if missing.
func (c *Client) EnsureUniqueIndex(ctx context.Context, collection string, field string) error {
	_, err := c.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return xe.Wrap(err)
}

// InTx runs fn in a transaction. Operations in fn should use the given context.
//
// When fn returns error, the transaction is aborted. Otherwise, it is committed.
// Duplicate key errors are reported as ErrDuplicated.
func (c *Client) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := c.client.StartSession()
	if err != nil {
		return xe.Wrap(err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil {
		c.logger.Debugf("transaction aborted: %s", err)
	}
	if mongo.IsDuplicateKeyError(err) {
		return xe.WrapWithNote(err.Error(), ErrDuplicated)
	}
	return err
}
