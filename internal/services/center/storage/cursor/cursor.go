// Package cursor provides opaque pagination token encoding/decoding.
package cursor

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Cursor represents the internal state of a list pagination token.
type Cursor struct {
	// LastID is the center ID the next page resumes after.
	LastID string `json:"last_id"`
	// FilterHash invalidates tokens when the filter expression changes.
	FilterHash string `json:"filter_hash,omitempty"`
}

// New creates a cursor resuming after lastID under the given filter.
func New(lastID, filter string) Cursor {
	return Cursor{
		LastID:     lastID,
		FilterHash: HashFilter(filter),
	}
}

// Encode encodes a cursor to an opaque base64 string.
func Encode(c Cursor) (string, error) {
	if c.LastID == "" {
		return "", fmt.Errorf("cursor last id is required")
	}
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// Decode decodes an opaque base64 string to a cursor.
// Returns an error if the token is invalid or malformed.
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, fmt.Errorf("empty token")
	}

	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode base64: %w", err)
	}

	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return Cursor{}, fmt.Errorf("unmarshal cursor: %w", err)
	}
	if c.LastID == "" {
		return Cursor{}, fmt.Errorf("cursor last id is required")
	}
	return c, nil
}

// HashFilter computes a short hash of the filter string for cursor validation.
// Returns empty string for empty filter.
func HashFilter(filter string) string {
	if filter == "" {
		return ""
	}
	h := sha256.Sum256([]byte(filter))
	return hex.EncodeToString(h[:8])
}

// ValidateFilterHash checks if the cursor's filter hash matches the current filter.
// Returns an error if the filter has changed since the cursor was created.
func ValidateFilterHash(c Cursor, currentFilter string) error {
	currentHash := HashFilter(currentFilter)
	if c.FilterHash != currentHash {
		return fmt.Errorf("filter changed since cursor was created")
	}
	return nil
}
