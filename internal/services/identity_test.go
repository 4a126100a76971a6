package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

const testProject = "pukpuk-test"

type jwksFixture struct {
	key     *rsa.PrivateKey
	server  *httptest.Server
	fetches atomic.Int32
	now     time.Time
}

func newJWKSFixture(t *testing.T) *jwksFixture {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	f := &jwksFixture{key: key, now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.fetches.Add(1)
		pub := key.PublicKey
		_ = json.NewEncoder(w).Encode(map[string]any{
			"keys": []map[string]string{{
				"kty": "RSA",
				"kid": "k1",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			}},
		})
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *jwksFixture) verifier(admins ...string) IdentityVerifier {
	return NewFirebaseVerifier(FirebaseConfig{
		ProjectID: testProject,
		JWKSURL:   f.server.URL,
		AdminUIDs: admins,
		Now:       func() time.Time { return f.now },
	}, logger.Nop())
}

func (f *jwksFixture) claims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":   "https://securetoken.google.com/" + testProject,
		"aud":   testProject,
		"sub":   "user-1",
		"email": "a@example.com",
		"iat":   f.now.Add(-time.Minute).Unix(),
		"exp":   f.now.Add(time.Hour).Unix(),
	}
}

func (f *jwksFixture) sign(t *testing.T, claims jwt.MapClaims, kid string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if kid != "" {
		tok.Header["kid"] = kid
	}
	s, err := tok.SignedString(f.key)
	require.NoError(t, err)
	return s
}

func TestFirebaseVerifierAcceptsValidToken(t *testing.T) {
	f := newJWKSFixture(t)
	v := f.verifier()

	id := v.Verify(context.Background(), f.sign(t, f.claims(), "k1"))
	require.NotNil(t, id)
	assert.Equal(t, "user-1", id.UID)
	assert.Equal(t, "a@example.com", id.Email)
	assert.False(t, id.Admin)

	require.NotNil(t, v.Verify(context.Background(), f.sign(t, f.claims(), "k1")))
	assert.EqualValues(t, 1, f.fetches.Load(), "keys are cached between verifications")
}

func TestFirebaseVerifierAdmin(t *testing.T) {
	f := newJWKSFixture(t)

	c := f.claims()
	c["admin"] = true
	id := f.verifier().Verify(context.Background(), f.sign(t, c, "k1"))
	require.NotNil(t, id)
	assert.True(t, id.Admin)

	id = f.verifier("user-1").Verify(context.Background(), f.sign(t, f.claims(), "k1"))
	require.NotNil(t, id)
	assert.True(t, id.Admin)
}

func TestFirebaseVerifierRejects(t *testing.T) {
	f := newJWKSFixture(t)

	cases := map[string]func() string{
		"empty":     func() string { return "" },
		"malformed": func() string { return "not.a.jwt" },
		"wrong audience": func() string {
			c := f.claims()
			c["aud"] = "other-project"
			return f.sign(t, c, "k1")
		},
		"wrong issuer": func() string {
			c := f.claims()
			c["iss"] = "https://accounts.google.com"
			return f.sign(t, c, "k1")
		},
		"expired": func() string {
			c := f.claims()
			c["exp"] = f.now.Add(-time.Minute).Unix()
			return f.sign(t, c, "k1")
		},
		"missing exp": func() string {
			c := f.claims()
			delete(c, "exp")
			return f.sign(t, c, "k1")
		},
		"issued in the future": func() string {
			c := f.claims()
			c["iat"] = f.now.Add(time.Hour).Unix()
			return f.sign(t, c, "k1")
		},
		"empty subject": func() string {
			c := f.claims()
			c["sub"] = ""
			return f.sign(t, c, "k1")
		},
		"unknown kid": func() string { return f.sign(t, f.claims(), "k2") },
		"missing kid": func() string { return f.sign(t, f.claims(), "") },
		"hmac": func() string {
			tok := jwt.NewWithClaims(jwt.SigningMethodHS256, f.claims())
			tok.Header["kid"] = "k1"
			s, err := tok.SignedString([]byte("secret"))
			require.NoError(t, err)
			return s
		},
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, f.verifier().Verify(context.Background(), token()))
		})
	}
}

func TestFirebaseVerifierInertProject(t *testing.T) {
	f := newJWKSFixture(t)
	v := NewFirebaseVerifier(FirebaseConfig{JWKSURL: f.server.URL, Now: func() time.Time { return f.now }}, logger.Nop())
	assert.Nil(t, v.Verify(context.Background(), f.sign(t, f.claims(), "k1")))

	c := f.claims()
	c["aud"] = InertProjectID
	c["iss"] = "https://securetoken.google.com/" + InertProjectID
	assert.NotNil(t, v.Verify(context.Background(), f.sign(t, c, "k1")))
}

func TestFirebaseVerifierProviderDown(t *testing.T) {
	f := newJWKSFixture(t)
	token := f.sign(t, f.claims(), "k1")
	f.server.Close()
	assert.Nil(t, f.verifier().Verify(context.Background(), token))
}
