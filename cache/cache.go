// Package cache holds the result stores the client's engine writes through
// and, where policy allows, reads from, plus the deterministic keying scheme
// shared by every implementation.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/perihelia/graphlink/internal/canon"
)

// ErrMiss reports that a key has no entry.
var ErrMiss = errors.New("cache: miss")

// Store holds raw response data keyed by Key. Implementations must be safe
// for concurrent use.
type Store interface {
	// Read returns the data stored under key, or ErrMiss.
	Read(ctx context.Context, key string) ([]byte, error)
	// Write stores data under key, replacing any previous entry.
	Write(ctx context.Context, key string, data []byte) error
}

// Key derives the cache key for an operation: a hex SHA-256 over the
// operation text and the canonical JSON of its variables. Equal operations
// produce equal keys no matter how the variables map was built.
func Key(query string, variables map[string]any) (string, error) {
	sum := sha256.New()
	sum.Write([]byte(query))
	sum.Write([]byte{0})
	if len(variables) > 0 {
		b, err := canon.JSON(variables)
		if err != nil {
			return "", fmt.Errorf("canonicalize variables: %w", err)
		}
		sum.Write(b)
	}
	return hex.EncodeToString(sum.Sum(nil)), nil
}
