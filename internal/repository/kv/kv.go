// Package kv implements the repositories over a flat key-value store: one
// users table, one session pointer and one plan/log/chat document per user.
package kv

import (
	"context"
	"errors"
)

// Store is the key-value substrate. Values are opaque bytes.
type Store interface {
	// Get returns ok=false when the key does not exist.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Update runs fn as a single read-modify-write on key. fn receives the
	// current value (ok=false when absent) and returns the value to store.
	// Returning ErrSkipWrite leaves the key untouched and Update returns nil.
	Update(ctx context.Context, key string, fn func(old []byte, ok bool) ([]byte, error)) error
	Close() error
}

// ErrSkipWrite lets an Update callback abort without writing.
var ErrSkipWrite = errors.New("kv: skip write")

// Key layout.
const (
	keyUsers      = "fittrack_users_db"
	keySession    = "fittrack_session"
	keyPlanPrefix = "fittrack_plan_"
	keyLogsPrefix = "fittrack_logs_"
	keyChatPrefix = "fittrack_chat_"
	keyTheme      = "fittrack_theme"
)
