// Package docstore is a collection-oriented document store. Records are JSON
// objects grouped by collection, addressed by a store-assigned id and
// queryable by field equality.
package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrNotFound is returned when an id does not resolve to a stored document.
var ErrNotFound = errors.New("docstore: document not found")

// Document is a single record. Documents returned by a Store always carry
// their id under the "id" key.
type Document map[string]any

// IDField is the key under which a document's id is exposed.
const IDField = "id"

// ID returns the document id, or "" if absent.
func (d Document) ID() string {
	id, _ := d[IDField].(string)
	return id
}

// OpEqual is the only supported filter operator.
const OpEqual = "=="

// Filter restricts a query to documents whose Field compares to Value.
type Filter struct {
	Field string
	Op    string
	Value any
}

// Eq builds an equality filter.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEqual, Value: value}
}

// Store is the persistence collaborator used by the services.
type Store interface {
	// Add persists doc in collection and returns the assigned id. An "id"
	// key in doc is ignored.
	Add(ctx context.Context, collection string, doc Document) (string, error)
	// Get returns the document or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Update merges fields into the stored document. A nil value stores
	// null. Returns ErrNotFound if the document does not exist.
	Update(ctx context.Context, collection, id string, fields Document) error
	// Delete removes the document or returns ErrNotFound.
	Delete(ctx context.Context, collection, id string) error
	// Query returns every document in collection matching all filters, in
	// insertion order.
	Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
}

// Encode converts a typed record into a Document using its JSON field names.
func Encode(v any) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("docstore: encode: %w", err)
	}
	return doc, nil
}

// Decode fills the typed record v from doc.
func Decode(doc Document, v any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("docstore: decode: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("docstore: decode: %w", err)
	}
	return nil
}

// DecodeAll decodes a query result into a slice of typed records.
func DecodeAll[T any](docs []Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := Decode(doc, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
