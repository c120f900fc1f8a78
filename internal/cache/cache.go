// Package cache is the always-available local persistence layer. It is a
// plain key-value store: one JSON payload per storage namespace. The sync
// coordinator treats a successful cache write as the durability guarantee of
// record - the remote mirror is best-effort on top.
package cache

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a namespace has no cached entry.
var ErrNotFound = errors.New("cache: entry not found")

const (
	// demoKey is the fixed namespace for demo sessions.
	demoKey = "fingemini_demo_data"

	// userKeyPrefix prefixes per-identity namespaces.
	userKeyPrefix = "fingemini_"
)

// Store is the key-value contract both backends implement.
type Store interface {
	// Get returns the payload stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores the payload under key, replacing any previous value.
	Put(ctx context.Context, key string, payload []byte) error

	// Delete removes the entry under key. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, key string) error
}

// DemoKey returns the namespace key for demo sessions.
func DemoKey() string {
	return demoKey
}

// UserKey returns the namespace key for the given user identity.
func UserKey(userID string) string {
	return userKeyPrefix + userID
}
