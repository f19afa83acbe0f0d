package services

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"fintrack/internal/docstore"
	apperrors "fintrack/internal/errors"
)

// storeError translates a document store failure into an AppError. A missing
// document becomes notFound; anything else is logged and reported as a
// persistence failure.
func storeError(log *zap.SugaredLogger, op string, err error, notFound *apperrors.AppError) error {
	if errors.Is(err, docstore.ErrNotFound) && notFound != nil {
		return notFound
	}
	log.Errorw("document store call failed", "op", op, "error", err)
	return apperrors.Wrap(apperrors.ErrPersistence, err)
}

// load fetches one document and decodes it into a T.
func load[T any](ctx context.Context, store docstore.Store, log *zap.SugaredLogger, collection, id string, notFound *apperrors.AppError) (*T, error) {
	if id == "" {
		return nil, notFound
	}
	doc, err := store.Get(ctx, collection, id)
	if err != nil {
		return nil, storeError(log, "get "+collection, err, notFound)
	}
	var out T
	if err := docstore.Decode(doc, &out); err != nil {
		return nil, storeError(log, "decode "+collection, err, nil)
	}
	return &out, nil
}

// loadAll runs an equality query and decodes every match into a T.
func loadAll[T any](ctx context.Context, store docstore.Store, log *zap.SugaredLogger, collection string, filters ...docstore.Filter) ([]T, error) {
	docs, err := store.Query(ctx, collection, filters...)
	if err != nil {
		return nil, storeError(log, "query "+collection, err, nil)
	}
	out, err := docstore.DecodeAll[T](docs)
	if err != nil {
		return nil, storeError(log, "decode "+collection, err, nil)
	}
	return out, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// validAmount reports whether v is a finite, non-negative amount.
func validAmount(v float64) bool {
	return finite(v) && v >= 0
}
