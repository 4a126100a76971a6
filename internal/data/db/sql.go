package db

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/pukpuk-backend/internal/domain/demand"
	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type SQLConfig struct {
	Driver string
	DSN    string
	// Silent disables gorm's own statement logging.
	Silent bool
}

type SQLGateway struct {
	cfg SQLConfig
	log *logger.Logger

	once sync.Once
	db   *gorm.DB
	err  error

	mu     sync.Mutex
	closed bool
}

func NewSQLGateway(cfg SQLConfig, log *logger.Logger) (*SQLGateway, error) {
	cfg.Driver = strings.ToLower(strings.TrimSpace(cfg.Driver))
	cfg.DSN = strings.TrimSpace(cfg.DSN)
	switch cfg.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("sql gateway: unsupported driver %q", cfg.Driver)
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("sql gateway: %w", ErrMissingURI)
	}
	return &SQLGateway{cfg: cfg, log: log.With("service", "SQLGateway", "driver", cfg.Driver)}, nil
}

func (g *SQLGateway) Driver() string { return g.cfg.Driver }

// Connect opens the gorm handle on first use and returns the cached one after.
func (g *SQLGateway) Connect(ctx context.Context) (*gorm.DB, error) {
	g.mu.Lock()
	closed := g.closed
	g.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	g.once.Do(func() {
		var dialector gorm.Dialector
		switch g.cfg.Driver {
		case DriverPostgres:
			dialector = postgres.Open(g.cfg.DSN)
		case DriverSQLite:
			dialector = sqlite.Open(g.cfg.DSN)
		}

		level := gormLogger.Warn
		if g.cfg.Silent {
			level = gormLogger.Silent
		}
		gormLog := gormLogger.New(gormWriter{log: g.log}, gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		})

		g.log.Info("Connecting to SQL database...")
		conn, err := gorm.Open(dialector, &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLog,
		})
		if err != nil {
			g.err = fmt.Errorf("connect to %s: %w", g.cfg.Driver, err)
			return
		}
		g.db = conn
	})
	if g.err != nil {
		return nil, g.err
	}
	return g.db.WithContext(ctx), nil
}

func (g *SQLGateway) AutoMigrate(ctx context.Context) error {
	conn, err := g.Connect(ctx)
	if err != nil {
		return err
	}
	g.log.Info("Auto migrating tables...")
	if err := conn.AutoMigrate(&demand.Record{}, &demand.Metadata{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (g *SQLGateway) Ping(ctx context.Context) error {
	conn, err := g.Connect(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (g *SQLGateway) Close(_ context.Context) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	g.mu.Unlock()

	g.once.Do(func() { g.err = ErrClosed })
	if g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormWriter struct {
	log *logger.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.SugaredLogger.Warnf(format, args...)
}
