package db

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

func TestMongoGatewayRequiresURI(t *testing.T) {
	_, err := NewMongoGateway(MongoConfig{URI: "  "}, logger.Nop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingURI))
}

func TestMongoGatewayDefaultsDatabaseName(t *testing.T) {
	g, err := NewMongoGateway(MongoConfig{URI: "mongodb://127.0.0.1:27017"}, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, DefaultMongoDatabase, g.DatabaseName())
}

func TestMongoGatewayClosedBeforeConnect(t *testing.T) {
	g, err := NewMongoGateway(MongoConfig{URI: "mongodb://127.0.0.1:27017", Database: "x"}, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, g.Close(context.Background()))
	require.NoError(t, g.Close(context.Background()))

	_, _, err = g.Connect(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMongoGatewayLive(t *testing.T) {
	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("set TEST_MONGODB_URI to run mongo gateway tests")
	}
	ctx := context.Background()
	g, err := NewMongoGateway(MongoConfig{URI: uri, Database: "pukpuk_test"}, logger.Nop())
	require.NoError(t, err)
	defer g.Close(ctx)

	var wg sync.WaitGroup
	clients := make([]any, 8)
	for i := range clients {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, _, err := g.Connect(ctx)
			assert.NoError(t, err)
			clients[i] = c
		}(i)
	}
	wg.Wait()
	for _, c := range clients[1:] {
		assert.Same(t, clients[0], c)
	}
	require.NoError(t, g.Ping(ctx))
}
