package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(redact bool) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}
	if redact {
		l.redact = &redactor{salt: "pepper"}
	}
	return l, logs
}

func TestRedactsSensitiveKeys(t *testing.T) {
	log, logs := observed(true)

	log.Info("verify", "token", "abc", "Authorization", "Bearer x", "firebase_private_key", "pem", "product_id", "p1")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "[REDACTED]", fields["token"])
	assert.Equal(t, "[REDACTED]", fields["Authorization"])
	assert.Equal(t, "[REDACTED]", fields["firebase_private_key"])
	assert.Equal(t, "p1", fields["product_id"])
}

func TestHashesUserIDsStably(t *testing.T) {
	log, logs := observed(true)

	log.With("user_id", "u1").Warn("first")
	log.Warn("second", "user_id", "u1")

	require.Equal(t, 2, logs.Len())
	a := logs.All()[0].ContextMap()["user_id"]
	b := logs.All()[1].ContextMap()["user_id"]
	assert.Equal(t, a, b)
	assert.NotEqual(t, "u1", a)
	assert.Contains(t, a, "hash:")
}

func TestRedactsJWTLookingValues(t *testing.T) {
	log, logs := observed(true)
	log.Debug("raw", "value", "eyJhbGciOiJSUzI1NiJ9.eyJzdWIiOiJ1MSIsImF1ZCI6InAifQ.sig")
	assert.Equal(t, "[REDACTED]", logs.All()[0].ContextMap()["value"])
}

func TestNoRedactionPassesThrough(t *testing.T) {
	log, logs := observed(false)
	log.Error("plain", "token", "abc")
	assert.Equal(t, "abc", logs.All()[0].ContextMap()["token"])
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"production", "development", "test", ""} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		l.Sync()
	}
	assert.NotNil(t, Nop())
}
