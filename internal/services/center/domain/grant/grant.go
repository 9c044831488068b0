// Package grant verifies signed approvals for replacing a center's lane
// layout. Replacing lanes invalidates downstream bookings, so the operation
// needs an explicit ed25519-signed grant scoped to the target center.
package grant

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/laneworks/laneworks/internal/platform/errors"
)

// ScopeLayoutWrite is the scope claim a layout grant must carry.
const ScopeLayoutWrite = "layout:write"

// Environment variable names for layout grant verification and signing.
const (
	EnvGrantIssuer     = "LANEWORKS_LAYOUT_GRANT_ISSUER"
	EnvGrantAudience   = "LANEWORKS_LAYOUT_GRANT_AUDIENCE"
	EnvGrantPublicKey  = "LANEWORKS_LAYOUT_GRANT_PUBLIC_KEY"
	EnvGrantPrivateKey = "LANEWORKS_LAYOUT_GRANT_PRIVATE_KEY"
	EnvGrantTTL        = "LANEWORKS_LAYOUT_GRANT_TTL"
)

// grantEnv holds raw env values before post-parse validation.
type grantEnv struct {
	Issuer    string `env:"LANEWORKS_LAYOUT_GRANT_ISSUER"`
	Audience  string `env:"LANEWORKS_LAYOUT_GRANT_AUDIENCE"`
	PublicKey string `env:"LANEWORKS_LAYOUT_GRANT_PUBLIC_KEY"`
}

// Config defines how layout grants are verified.
type Config struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// Claims captures validated layout grant claims.
type Claims struct {
	Issuer    string
	Audience  []string
	Subject   string
	Scope     string
	ExpiresAt time.Time
	NotBefore time.Time
	IssuedAt  time.Time
	JWTID     string
}

// grantClaims is the internal claims type used for JWT parsing.
type grantClaims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope"`
}

// LoadConfigFromEnv reads layout grant verification configuration.
func LoadConfigFromEnv(now func() time.Time) (Config, error) {
	var raw grantEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse layout grant env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" {
		return Config{}, fmt.Errorf("LANEWORKS_LAYOUT_GRANT_ISSUER is required")
	}
	if audience == "" {
		return Config{}, fmt.Errorf("LANEWORKS_LAYOUT_GRANT_AUDIENCE is required")
	}
	if publicKey == "" {
		return Config{}, fmt.Errorf("LANEWORKS_LAYOUT_GRANT_PUBLIC_KEY is required")
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return Config{}, fmt.Errorf("decode layout grant public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return Config{}, fmt.Errorf("layout grant public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return Config{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, nil
}

// Validate verifies a layout grant token against the target center.
func Validate(token string, centerID string, cfg Config) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, apperrors.New(apperrors.CodeLayoutGrantRequired, "layout grant is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PublicKeySize {
		return Claims{}, errors.New("layout grant verifier is not configured")
	}

	var parsed grantClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if parsed.Issuer == "" || parsed.Issuer != cfg.Issuer {
		return Claims{}, apperrors.WithMetadata(
			apperrors.CodeLayoutGrantMismatch,
			"layout grant issuer mismatch",
			map[string]string{"field": "issuer"},
		)
	}
	if !audienceContains(parsed.Audience, cfg.Audience) {
		return Claims{}, apperrors.WithMetadata(
			apperrors.CodeLayoutGrantMismatch,
			"layout grant audience mismatch",
			map[string]string{"field": "audience"},
		)
	}

	if parsed.ID == "" {
		return Claims{}, apperrors.New(apperrors.CodeLayoutGrantInvalid, "layout grant jti is required")
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, apperrors.New(apperrors.CodeLayoutGrantInvalid, "layout grant exp is required")
	}

	now := cfg.Now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return Claims{}, apperrors.New(apperrors.CodeLayoutGrantExpired, "layout grant is expired")
	}
	if parsed.NotBefore != nil {
		nbf := parsed.NotBefore.Time.UTC()
		if now.Before(nbf) {
			return Claims{}, apperrors.New(apperrors.CodeLayoutGrantInvalid, "layout grant not active yet")
		}
	}

	if parsed.Scope != ScopeLayoutWrite {
		return Claims{}, apperrors.WithMetadata(
			apperrors.CodeLayoutGrantMismatch,
			"layout grant scope mismatch",
			map[string]string{"field": "scope"},
		)
	}
	if strings.TrimSpace(parsed.Subject) == "" || parsed.Subject != centerID {
		return Claims{}, apperrors.WithMetadata(
			apperrors.CodeLayoutGrantMismatch,
			"layout grant center mismatch",
			map[string]string{"field": "subject"},
		)
	}

	claims := Claims{
		Issuer:    parsed.Issuer,
		Audience:  []string(parsed.Audience),
		Subject:   parsed.Subject,
		Scope:     parsed.Scope,
		ExpiresAt: exp,
		JWTID:     parsed.ID,
	}
	if parsed.NotBefore != nil {
		claims.NotBefore = parsed.NotBefore.Time.UTC()
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.New(apperrors.CodeLayoutGrantInvalid, "layout grant signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeLayoutGrantInvalid, "layout grant alg is invalid")
	}
	return apperrors.New(apperrors.CodeLayoutGrantInvalid, "layout grant is invalid")
}

// audienceContains reports whether the audience list contains the given value.
func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
