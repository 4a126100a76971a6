package app

import (
	"context"
	"fmt"

	"github.com/yungbote/pukpuk-backend/internal/data/db"
	"github.com/yungbote/pukpuk-backend/internal/data/repos"
	"github.com/yungbote/pukpuk-backend/internal/data/repos/mongorepo"
	"github.com/yungbote/pukpuk-backend/internal/data/repos/sqlrepo"
	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

type Repos struct {
	Demand   repos.DemandRepo
	Metadata repos.MetadataRepo
}

// store is the connected backend plus its schema hook.
type store struct {
	gateway db.Gateway
	migrate func(ctx context.Context) error
	repos   Repos
}

func wireStore(ctx context.Context, log *logger.Logger, cfg Config) (*store, error) {
	log.Info("Wiring repos...", "driver", cfg.DBDriver)
	switch cfg.DBDriver {
	case db.DriverMongo:
		gw, err := db.NewMongoGateway(db.MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDB}, log)
		if err != nil {
			return nil, err
		}
		mdb, err := gw.Database(ctx)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		return &store{
			gateway: gw,
			migrate: func(ctx context.Context) error { return mongorepo.EnsureIndexes(ctx, mdb) },
			repos: Repos{
				Demand:   mongorepo.NewDemandRepo(mdb, log),
				Metadata: mongorepo.NewMetadataRepo(mdb, log),
			},
		}, nil

	case db.DriverPostgres, db.DriverSQLite:
		dsn := cfg.PostgresDSN
		if cfg.DBDriver == db.DriverSQLite {
			dsn = cfg.SQLitePath
		}
		gw, err := db.NewSQLGateway(db.SQLConfig{Driver: cfg.DBDriver, DSN: dsn}, log)
		if err != nil {
			return nil, err
		}
		gdb, err := gw.Connect(ctx)
		if err != nil {
			return nil, fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
		}
		return &store{
			gateway: gw,
			migrate: gw.AutoMigrate,
			repos: Repos{
				Demand:   sqlrepo.NewDemandRepo(gdb, log),
				Metadata: sqlrepo.NewMetadataRepo(gdb, log),
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
}
