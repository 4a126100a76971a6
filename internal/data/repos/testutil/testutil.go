package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/yungbote/pukpuk-backend/internal/data/db"
	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

var (
	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// SQLite returns a migrated in-memory database private to the calling test.
func SQLite(tb testing.TB) *gorm.DB {
	tb.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	g, err := db.NewSQLGateway(db.SQLConfig{Driver: db.DriverSQLite, DSN: dsn, Silent: true}, Logger(tb))
	if err != nil {
		tb.Fatalf("sqlite gateway: %v", err)
	}
	if err := g.AutoMigrate(ctx); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	conn, err := g.Connect(ctx)
	if err != nil {
		tb.Fatalf("connect: %v", err)
	}
	tb.Cleanup(func() { _ = g.Close(context.Background()) })
	return conn
}

// Mongo returns a throwaway database on TEST_MONGODB_URI, dropped on cleanup.
func Mongo(tb testing.TB) *mongo.Database {
	tb.Helper()
	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		tb.Skip("set TEST_MONGODB_URI to run mongo repo tests")
	}
	ctx := context.Background()

	name := "pukpuk_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	g, err := db.NewMongoGateway(db.MongoConfig{URI: uri, Database: name}, Logger(tb))
	if err != nil {
		tb.Fatalf("mongo gateway: %v", err)
	}
	database, err := g.Database(ctx)
	if err != nil {
		tb.Fatalf("mongo connect: %v", err)
	}
	tb.Cleanup(func() {
		_ = database.Drop(context.Background())
		_ = g.Close(context.Background())
	})
	return database
}
