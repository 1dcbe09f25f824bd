package database

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewMongo connects to a document store and pings the primary.
func NewMongo(ctx context.Context, o Opts) (*mongo.Client, error) {
	if strings.TrimSpace(o.DSN) == "" {
		return nil, ErrMissingDSN
	}
	opts := options.Client().ApplyURI(o.DSN).SetConnectTimeout(o.connectTimeout())
	if o.MaxOpenConns > 0 {
		opts.SetMaxPoolSize(uint64(o.MaxOpenConns))
	}
	if o.Username != "" {
		opts.SetAuth(options.Credential{Username: o.Username, Password: o.Password})
	}

	cctx, cancel := context.WithTimeout(ctx, o.connectTimeout())
	defer cancel()
	client, err := mongo.Connect(cctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database: connect mongodb: %w", err)
	}
	if err := client.Ping(cctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database: ping mongodb: %w", err)
	}
	return client, nil
}

// MongoConnector is the document-store counterpart of Connector.
type MongoConnector struct {
	opts Opts

	once   sync.Once
	client *mongo.Client
	db     *mongo.Database
	err    error
}

func NewMongoConnector(o Opts) *MongoConnector { return &MongoConnector{opts: o} }

func (c *MongoConnector) Connect(ctx context.Context) (*mongo.Database, error) {
	c.once.Do(func() {
		c.client, c.err = NewMongo(ctx, c.opts)
		if c.err == nil {
			name := c.opts.Database
			if name == "" {
				name = "portal"
			}
			c.db = c.client.Database(name)
		}
	})
	return c.db, c.err
}

func (c *MongoConnector) Close(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Disconnect(ctx)
}
