// Package repository provides the typed data-access layer over the
// record store. Repositories own id generation, default-field
// population, and soft-delete semantics; they are the only writers of
// storage.
package repository

import (
	"time"

	"github.com/hmcleod/gamelobby/internal/store"
)

// Collection names
const (
	usersCollection = "users"
	gamesCollection = "games"
	chatCollection  = "chat"
)

// Document field helpers. The store normalizes every value through
// JSON, so numbers come back as float64 and timestamps are stored as
// Unix-millisecond numbers.

func docString(doc store.Document, key string) string {
	s, _ := doc[key].(string)
	return s
}

func docBool(doc store.Document, key string) bool {
	b, _ := doc[key].(bool)
	return b
}

func docInt(doc store.Document, key string) int {
	f, _ := doc[key].(float64)
	return int(f)
}

func docTime(doc store.Document, key string) time.Time {
	f, ok := doc[key].(float64)
	if !ok {
		return time.Time{}
	}
	return time.UnixMilli(int64(f)).UTC()
}

func docTimePtr(doc store.Document, key string) *time.Time {
	f, ok := doc[key].(float64)
	if !ok {
		return nil
	}
	t := time.UnixMilli(int64(f)).UTC()
	return &t
}

func millis(t time.Time) float64 {
	return float64(t.UnixMilli())
}
