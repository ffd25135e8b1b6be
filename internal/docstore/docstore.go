// Package docstore is the document-database boundary: named collections of
// (id, field-map) documents with full-collection reads and per-document
// merge updates. Repos adapt it into typed APIs.
package docstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("document not found")

// Document is one record in a collection. Fields is a flat JSON-style
// field map; nested values are maps and slices of plain values.
type Document struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type Store interface {
	// List returns a snapshot of the collection in insertion order.
	List(ctx context.Context, collection string) ([]Document, error)

	// Insert creates a document and returns its generated id.
	Insert(ctx context.Context, collection string, fields map[string]any) (string, error)

	// Update merges the given fields into an existing document. Keys not
	// present in fields are left untouched.
	Update(ctx context.Context, collection, id string, fields map[string]any) error

	// Delete physically removes a document.
	Delete(ctx context.Context, collection, id string) error
}

// cloneFields deep-copies a field map so callers never alias store-owned
// state.
func cloneFields(in map[string]any) map[string]any {
	if in == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneFields(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		out := make([]string, len(x))
		copy(out, x)
		return out
	default:
		return v
	}
}
