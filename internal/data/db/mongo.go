package db

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

const DefaultMongoDatabase = "pukpuk"

type MongoConfig struct {
	URI      string
	Database string
}

type MongoGateway struct {
	cfg MongoConfig
	log *logger.Logger

	once   sync.Once
	client *mongo.Client
	db     *mongo.Database
	err    error

	mu     sync.Mutex
	closed bool
}

// NewMongoGateway fails when no URI is configured; callers treat that as a
// startup precondition. No connection is made until the first Connect.
func NewMongoGateway(cfg MongoConfig, log *logger.Logger) (*MongoGateway, error) {
	cfg.URI = strings.TrimSpace(cfg.URI)
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo gateway: %w", ErrMissingURI)
	}
	if strings.TrimSpace(cfg.Database) == "" {
		cfg.Database = DefaultMongoDatabase
	}
	return &MongoGateway{cfg: cfg, log: log.With("service", "MongoGateway")}, nil
}

func (g *MongoGateway) DatabaseName() string { return g.cfg.Database }

// Connect returns the cached client and database, creating them on first use.
func (g *MongoGateway) Connect(ctx context.Context) (*mongo.Client, *mongo.Database, error) {
	g.mu.Lock()
	closed := g.closed
	g.mu.Unlock()
	if closed {
		return nil, nil, ErrClosed
	}

	g.once.Do(func() {
		g.log.Info("Connecting to MongoDB...", "database", g.cfg.Database)
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(g.cfg.URI))
		if err != nil {
			g.err = fmt.Errorf("connect to mongo: %w", err)
			g.log.Error("MongoDB connect failed", "error", err)
			return
		}
		g.client = client
		g.db = client.Database(g.cfg.Database)
	})
	if g.err != nil {
		return nil, nil, g.err
	}
	return g.client, g.db, nil
}

func (g *MongoGateway) Database(ctx context.Context) (*mongo.Database, error) {
	_, database, err := g.Connect(ctx)
	return database, err
}

func (g *MongoGateway) Ping(ctx context.Context) error {
	client, _, err := g.Connect(ctx)
	if err != nil {
		return err
	}
	return client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client if one was created. Later Connect calls fail
// with ErrClosed.
func (g *MongoGateway) Close(ctx context.Context) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	g.mu.Unlock()

	// Prevent a late first Connect from opening a client nobody will close.
	g.once.Do(func() { g.err = ErrClosed })
	if g.client == nil {
		return nil
	}
	g.log.Info("Disconnecting from MongoDB...")
	return g.client.Disconnect(ctx)
}
