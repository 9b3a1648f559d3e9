// Package snapshot persists rendered host trees and compares them.
//
// A snapshot is the serialized HTML of a host tree at one commit. Stores
// keep snapshots by key on local disk (FileStore) or in an S3 bucket
// (S3Store); Diff renders a line diff between two snapshots.
package snapshot

import (
	"context"
	"strings"

	"github.com/vango-dev/minifiber/internal/errors"
)

// Store persists snapshots by key.
type Store interface {
	Put(ctx context.Context, key string, html []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// ValidateKey rejects keys that could escape a directory or prefix.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return errors.New("E150").WithDetail("empty key")
	case strings.ContainsAny(key, `/\`), strings.Contains(key, ".."):
		return errors.New("E150").WithDetailf("invalid key %q", key)
	}
	return nil
}
