package testutil

import (
	"context"
	"errors"

	"fintrack/internal/docstore"
)

// ErrStoreDown is the error injected by FailingStore.
var ErrStoreDown = errors.New("store unavailable")

// FailingStore wraps a Store and fails the operations whose flag is set.
type FailingStore struct {
	docstore.Store

	FailAdd    bool
	FailGet    bool
	FailUpdate bool
	FailDelete bool
	FailQuery  bool
}

func (f *FailingStore) Add(ctx context.Context, collection string, doc docstore.Document) (string, error) {
	if f.FailAdd {
		return "", ErrStoreDown
	}
	return f.Store.Add(ctx, collection, doc)
}

func (f *FailingStore) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	if f.FailGet {
		return nil, ErrStoreDown
	}
	return f.Store.Get(ctx, collection, id)
}

func (f *FailingStore) Update(ctx context.Context, collection, id string, fields docstore.Document) error {
	if f.FailUpdate {
		return ErrStoreDown
	}
	return f.Store.Update(ctx, collection, id, fields)
}

func (f *FailingStore) Delete(ctx context.Context, collection, id string) error {
	if f.FailDelete {
		return ErrStoreDown
	}
	return f.Store.Delete(ctx, collection, id)
}

func (f *FailingStore) Query(ctx context.Context, collection string, filters ...docstore.Filter) ([]docstore.Document, error) {
	if f.FailQuery {
		return nil, ErrStoreDown
	}
	return f.Store.Query(ctx, collection, filters...)
}
