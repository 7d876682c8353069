package store

import (
	"context"
	"errors"
)

// PrimaryKey is the document field holding the store-assigned id
const PrimaryKey = "_id"

// ErrNoDocument is returned by FindOne and Transform when no document
// matches the query
var ErrNoDocument = errors.New("no matching document")

// Document is a schemaless record in a named collection. Values are
// restricted to JSON-representable types; timestamps are stored as
// Unix-millisecond numbers so both backends compare them identically.
type Document map[string]any

// Query is a flat field-equality mapping; all keys are ANDed together.
// An empty query matches every document in the collection.
type Query map[string]any

// Direction orders a sort ascending or descending
type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// Sort orders results by a single field
type Sort struct {
	Field     string
	Direction Direction
}

// FindOptions constrains a Find call. The zero value returns all
// matches in insertion order.
type FindOptions struct {
	Sort  *Sort
	Limit int // 0 = no limit
}

// TransformFunc mutates a document inside Transform. It receives a
// private copy and returns the replacement; returning an error aborts
// the transform without writing.
type TransformFunc func(Document) (Document, error)

// Store is a minimal CRUD engine over named collections, implemented
// by a process-local backend and a Redis-backed durable backend.
//
// Update applies a shallow merge of fields into every matching
// document; both backends share these update-many semantics.
type Store interface {
	// Find returns all documents matching the query, optionally
	// sorted and limited.
	Find(ctx context.Context, collection string, query Query, opts FindOptions) ([]Document, error)

	// FindOne returns the first document matching the query, or
	// ErrNoDocument.
	FindOne(ctx context.Context, collection string, query Query) (Document, error)

	// Insert stores a new document and returns it with the
	// store-assigned primary key merged in if the caller did not
	// supply one.
	Insert(ctx context.Context, collection string, doc Document) (Document, error)

	// Update shallow-merges fields into all matching documents and
	// returns the number modified.
	Update(ctx context.Context, collection string, query Query, fields Document) (int, error)

	// Delete removes all matching documents and returns the number
	// removed.
	Delete(ctx context.Context, collection string, query Query) (int, error)

	// Transform atomically applies fn to the first document matching
	// the query and persists the result. No concurrent operation can
	// observe or interleave with the read-modify-write. Returns the
	// stored result, ErrNoDocument if nothing matches, or the error
	// returned by fn.
	Transform(ctx context.Context, collection string, query Query, fn TransformFunc) (Document, error)

	// Clear removes every document in every collection. Used by tests
	// and explicit resets.
	Clear(ctx context.Context) error

	// Close releases any resources held by the backend.
	Close() error
}

// Matches reports whether doc satisfies every field equality in query
func (q Query) Matches(doc Document) bool {
	for key, want := range q {
		if doc[key] != want {
			return false
		}
	}
	return true
}
