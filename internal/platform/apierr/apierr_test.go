package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		KindUnauthorized: http.StatusUnauthorized,
		KindForbidden:    http.StatusForbidden,
		KindInvalid:      http.StatusBadRequest,
		KindNotFound:     http.StatusNotFound,
		KindUpstream:     http.StatusInternalServerError,
		KindInternal:     http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.Status(), kind.String())
	}
}

func TestAsThroughWrapping(t *testing.T) {
	base := Upstream("fetch_products_failed", "Failed to fetch products", errors.New("connection reset"))
	wrapped := fmt.Errorf("list: %w", base)

	ae, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindUpstream, ae.Kind)
	assert.True(t, Is(wrapped, KindUpstream))
	assert.False(t, Is(wrapped, KindNotFound))
	assert.Empty(t, ae.Details)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestDetailedCopiesCause(t *testing.T) {
	base := Upstream("clear_failed", "Failed to clear all data", errors.New("disk full"))
	d := base.Detailed()

	assert.Equal(t, "disk full", d.Details)
	assert.Empty(t, base.Details)
	assert.Equal(t, "Failed to clear all data: disk full", d.Error())
}

func TestDefaultCode(t *testing.T) {
	e := New(KindForbidden, "", "", nil)
	assert.Equal(t, "forbidden", e.Code)
	assert.Equal(t, "forbidden", e.Error())
}
