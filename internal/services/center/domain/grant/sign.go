package grant

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/laneworks/laneworks/internal/platform/id"
)

// issuerEnv holds raw env values before post-parse validation.
type issuerEnv struct {
	Issuer     string        `env:"LANEWORKS_LAYOUT_GRANT_ISSUER"`
	Audience   string        `env:"LANEWORKS_LAYOUT_GRANT_AUDIENCE"`
	PrivateKey string        `env:"LANEWORKS_LAYOUT_GRANT_PRIVATE_KEY"`
	TTL        time.Duration `env:"LANEWORKS_LAYOUT_GRANT_TTL"         envDefault:"10m"`
}

// IssuerConfig defines how layout grants are signed.
type IssuerConfig struct {
	Issuer   string
	Audience string
	Key      ed25519.PrivateKey
	TTL      time.Duration
}

// LoadIssuerConfigFromEnv reads layout grant signing configuration.
func LoadIssuerConfigFromEnv() (IssuerConfig, error) {
	var raw issuerEnv
	if err := env.Parse(&raw); err != nil {
		return IssuerConfig{}, fmt.Errorf("parse layout grant env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	privateKey := strings.TrimSpace(raw.PrivateKey)
	if issuer == "" {
		return IssuerConfig{}, fmt.Errorf("LANEWORKS_LAYOUT_GRANT_ISSUER is required")
	}
	if audience == "" {
		return IssuerConfig{}, fmt.Errorf("LANEWORKS_LAYOUT_GRANT_AUDIENCE is required")
	}
	if privateKey == "" {
		return IssuerConfig{}, fmt.Errorf("LANEWORKS_LAYOUT_GRANT_PRIVATE_KEY is required")
	}
	keyBytes, err := decodeBase64(privateKey)
	if err != nil {
		return IssuerConfig{}, fmt.Errorf("decode layout grant private key: %w", err)
	}
	if len(keyBytes) != ed25519.PrivateKeySize {
		return IssuerConfig{}, fmt.Errorf("layout grant private key must be %d bytes", ed25519.PrivateKeySize)
	}
	if raw.TTL <= 0 {
		return IssuerConfig{}, fmt.Errorf("layout grant ttl must be positive")
	}

	return IssuerConfig{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PrivateKey(keyBytes),
		TTL:      raw.TTL,
	}, nil
}

// Issue signs a layout grant for the given center.
func Issue(cfg IssuerConfig, centerID string, now func() time.Time) (string, error) {
	if now == nil {
		now = time.Now
	}
	centerID = strings.TrimSpace(centerID)
	if centerID == "" {
		return "", errors.New("center id is required")
	}
	jti, err := id.NewID()
	if err != nil {
		return "", fmt.Errorf("generate grant id: %w", err)
	}

	issuedAt := now().UTC()
	payload := map[string]any{
		"iss":   cfg.Issuer,
		"aud":   cfg.Audience,
		"sub":   centerID,
		"scope": ScopeLayoutWrite,
		"iat":   issuedAt.Unix(),
		"exp":   issuedAt.Add(cfg.TTL).Unix(),
		"jti":   jti,
	}
	return encodeGrant(cfg, payload)
}

// encodeGrant signs an EdDSA JWS over the payload claims.
func encodeGrant(cfg IssuerConfig, payload map[string]any) (string, error) {
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PrivateKeySize {
		return "", errors.New("layout grant signer is not configured")
	}
	headerJSON, err := json.Marshal(map[string]string{
		"alg": "EdDSA",
		"typ": "JWT",
	})
	if err != nil {
		return "", fmt.Errorf("encode layout grant header: %w", err)
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode layout grant payload: %w", err)
	}

	encodedHeader := base64.RawURLEncoding.EncodeToString(headerJSON)
	encodedPayload := base64.RawURLEncoding.EncodeToString(payloadJSON)
	signingInput := encodedHeader + "." + encodedPayload
	signature := ed25519.Sign(cfg.Key, []byte(signingInput))
	encodedSig := base64.RawURLEncoding.EncodeToString(signature)
	return signingInput + "." + encodedSig, nil
}
