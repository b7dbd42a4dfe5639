package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound = errors.New("document not found")
)

// Document is an untyped field bag, matching what the admin UI sends.
// Implementations return a copy that includes the "_id" key.
type Document map[string]interface{}

// Filter is a single equality/ordering predicate for Query.
// Only "==" is required by callers today.
type Filter struct {
	Field string
	Op    string
	Value interface{}
}

// OrderBy sorts query results by a single field.
type OrderBy struct {
	Field string
	Desc  bool
}

// OpKind selects the write semantics of a batch operation.
// The semantics mirror the hosted document store the frontend was built
// against: Set is a full-document upsert, Merge upserts individual fields,
// Update patches fields and fails when the document is absent, Delete is a
// no-op when the document is absent.
type OpKind string

const (
	OpSet    OpKind = "set"
	OpMerge  OpKind = "merge"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
)

// Op is one write inside an atomic batch.
type Op struct {
	Kind OpKind
	Path string // collection path, e.g. "_blogs" or "categories/tech/blogs"
	ID   string
	Data Document // nil for Delete
}

// Store is the contract against the external document database. BatchWrite
// MUST be atomic: either every op in the batch applies or none does. The
// blog coordinator's consistency guarantees stand or fall with that
// property, so implementations may not weaken it.
type Store interface {
	Get(ctx context.Context, path, id string) (Document, error)
	Query(ctx context.Context, path string, filters []Filter, order *OrderBy, limit int) ([]Document, error)
	BatchWrite(ctx context.Context, ops []Op) error
	// Now returns the timestamp used for createdAt/updatedAt fields.
	Now() time.Time
}

// Collection path helpers. Mirror blogs live in a per-category subcollection
// sharing the canonical blog id.
const (
	BlogsPath      = "_blogs"
	CategoriesPath = "categories"
	CommentsPath   = "comments"
	MessagesPath   = "messages"
	TeamPath       = "team"
)

// CategoryBlogsPath returns the mirror subcollection path for a category.
func CategoryBlogsPath(categoryID string) string {
	return fmt.Sprintf("%s/%s/blogs", CategoriesPath, categoryID)
}

// Clone returns a deep copy of the document. Nested maps and slices are
// copied; scalar values are shared.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case Document:
		return t.Clone()
	case map[string]interface{}:
		return Document(t).Clone()
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
