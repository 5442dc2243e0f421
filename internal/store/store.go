// Package store is the key-value persistence gateway the session core
// saves and restores itself through. The substrate is pluggable so the
// core stays testable with an in-memory fake.
package store

import (
	"context"
	"fmt"
)

// Gateway is the minimal key-value contract the session layer depends on.
// Get reports (value, found, error); a missing key is not an error.
type Gateway interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type KeyStruct struct{}

func NewKeyStruct() *KeyStruct {
	return &KeyStruct{}
}

// CurrentSession returns the key holding the active session snapshot.
func (k *KeyStruct) CurrentSession() string {
	return "quiz:session:current"
}

// LatestResult returns the key holding the most recent result snapshot.
func (k *KeyStruct) LatestResult() string {
	return "quiz:result:latest"
}

// LatestReview returns the key holding the most recent review snapshot.
func (k *KeyStruct) LatestReview() string {
	return "quiz:review:latest"
}

// Progress returns the per-test incremental progress key.
func (k *KeyStruct) Progress(testSetID string) string {
	return fmt.Sprintf("quiz:progress:%s", testSetID)
}

var Key = NewKeyStruct()
