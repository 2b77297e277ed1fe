// Package store archives compiled save files.
//
// A [Store] keeps [Document]s: the serialized save together with the scene
// name and the hash of the source it was compiled from. Backends:
//
//   - [MemoryStore]: process-local, for development and tests
//   - [FileStore]: one JSON file per document, for the CLI
//   - [MongoStore]: MongoDB collection, for the compile service
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/ttgen/pkg/errors"
)

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Document is one archived save.
type Document struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Hash      string    `json:"hash" bson:"hash"`
	Save      []byte    `json:"save,omitempty" bson:"save,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// NewDocument stamps a fresh ID and creation time.
func NewDocument(name, hash string, save []byte) *Document {
	return &Document{
		ID:        uuid.NewString(),
		Name:      name,
		Hash:      hash,
		Save:      save,
		CreatedAt: time.Now().UTC(),
	}
}

// Store is the interface for save archives. Implementations are safe for
// concurrent use.
type Store interface {
	// Put inserts or replaces doc by ID. A missing ID or CreatedAt is filled in.
	Put(ctx context.Context, doc *Document) error

	// Get returns the document with the given ID, or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Document, error)

	// List returns up to limit documents, newest first, without their Save
	// payload.
	List(ctx context.Context, limit int) ([]Document, error)

	// Delete removes a document. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	Close() error
}

func prepare(doc *Document) error {
	if doc == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil document")
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "save %q not found", id)
}

func listLimit(n int) int {
	if n <= 0 {
		return DefaultListLimit
	}
	return n
}
