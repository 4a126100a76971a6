package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

const (
	FirebaseJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
	// InertProjectID is used when no project is configured; no real token
	// carries it as audience, so every verification fails.
	InertProjectID = "demo-pukpuk"
)

// Identity is the verified caller behind a bearer token.
type Identity struct {
	UID   string
	Email string
	Admin bool
}

// IdentityVerifier returns nil for any token it cannot verify.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) *Identity
}

type FirebaseConfig struct {
	ProjectID   string
	ClientEmail string
	PrivateKey  string
	JWKSURL     string
	AdminUIDs   []string
	HTTPClient  *http.Client
	// Now overrides the clock for claim validation.
	Now func() time.Time
}

type firebaseVerifier struct {
	log       *logger.Logger
	projectID string
	issuer    string
	admins    map[string]struct{}
	jwks      *jwksCache
	now       func() time.Time
}

type firebaseClaims struct {
	Email string `json:"email"`
	Admin any    `json:"admin"`
	jwt.RegisteredClaims
}

func NewFirebaseVerifier(cfg FirebaseConfig, log *logger.Logger) IdentityVerifier {
	serviceLog := log.With("service", "FirebaseVerifier")

	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		serviceLog.Warn("FIREBASE_PROJECT_ID not set; bearer tokens will not verify", "project_id", InertProjectID)
		projectID = InertProjectID
	}
	if strings.TrimSpace(cfg.ClientEmail) == "" || strings.TrimSpace(cfg.PrivateKey) == "" {
		serviceLog.Debug("Firebase service account credentials not set; ID token verification does not need them")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	url := strings.TrimSpace(cfg.JWKSURL)
	if url == "" {
		url = FirebaseJWKSURL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	admins := make(map[string]struct{}, len(cfg.AdminUIDs))
	for _, uid := range cfg.AdminUIDs {
		if uid = strings.TrimSpace(uid); uid != "" {
			admins[uid] = struct{}{}
		}
	}

	return &firebaseVerifier{
		log:       serviceLog,
		projectID: projectID,
		issuer:    "https://securetoken.google.com/" + projectID,
		admins:    admins,
		jwks:      newJWKSCache(httpClient, url),
		now:       now,
	}
}

func (v *firebaseVerifier) Verify(ctx context.Context, token string) *Identity {
	claims, err := v.verify(ctx, token)
	if err != nil {
		v.log.Debug("ID token rejected", "error", err)
		return nil
	}
	id := &Identity{UID: claims.Subject, Email: claims.Email, Admin: parseBool(claims.Admin)}
	if _, ok := v.admins[id.UID]; ok {
		id.Admin = true
	}
	return id
}

func (v *firebaseVerifier) verify(ctx context.Context, token string) (*firebaseClaims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("id token is empty")
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)

	claims := &firebaseClaims{}
	tok, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if strings.TrimSpace(kid) == "" {
			return nil, fmt.Errorf("missing kid")
		}
		return v.jwks.getKey(ctx, kid)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid id token: %w", err)
	}
	if tok == nil || !tok.Valid {
		return nil, fmt.Errorf("invalid id token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("missing sub")
	}
	return claims, nil
}

func parseBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return strings.EqualFold(x, "true") || x == "1"
	case float64:
		return x != 0
	default:
		return false
	}
}
