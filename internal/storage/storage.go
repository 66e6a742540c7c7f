// Package storage keeps rendered reports in an object store so clients can
// download them through short-lived links.
package storage

import (
	"context"
	"fmt"
	"path"
	"time"
)

// DefaultLinkExpiry is how long a report download link stays valid.
const DefaultLinkExpiry = 15 * time.Minute

// ObjectStore is the subset of an object store the report flow needs.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	// PresignGet returns a URL that allows one unauthenticated GET of key
	// until ttl elapses. ttl <= 0 means DefaultLinkExpiry.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// ReportKey is reports/<userID>/<range>-<id>.html.
func ReportKey(userID, rng, id string) string {
	return path.Join("reports", userID, fmt.Sprintf("%s-%s.html", rng, id))
}
