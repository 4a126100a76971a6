package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/pukpuk-backend/internal/data/db"
	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

func TestNewWiresSQLiteStack(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "pukpuk.db"))
	cfg, err := LoadConfig(NewViper(), "")
	require.NoError(t, err)

	ctx := context.Background()
	a, err := New(ctx, logger.Nop(), cfg)
	require.NoError(t, err)
	defer a.Close(ctx)
	require.NoError(t, a.Migrate(ctx))
	require.NoError(t, a.Migrate(ctx))

	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Without a configured project every token is rejected.
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec = httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNewFailsWithoutMongoURI(t *testing.T) {
	t.Setenv("DB_DRIVER", "mongo")
	t.Setenv("MONGODB_URI", "")
	cfg, err := LoadConfig(NewViper(), "")
	require.NoError(t, err)

	_, err = New(context.Background(), logger.Nop(), cfg)
	assert.ErrorIs(t, err, db.ErrMissingURI)
}
