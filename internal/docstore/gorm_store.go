package docstore

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/goccy/go-json"
	"gorm.io/gorm"

	"fintrack/internal/models"
)

// Connector yields the shared database session. It is called on every
// operation, so it must return a cached connection after the first call.
type Connector func() (*gorm.DB, error)

// gormStore keeps documents as JSON rows in the documents table.
type gormStore struct {
	connect Connector
}

// New creates a Store that obtains its session from connect.
func New(connect Connector) Store {
	return &gormStore{connect: connect}
}

// NewWithDB creates a Store over an already opened session.
func NewWithDB(db *gorm.DB) Store {
	return New(func() (*gorm.DB, error) { return db, nil })
}

func (s *gormStore) session(ctx context.Context) (*gorm.DB, error) {
	db, err := s.connect()
	if err != nil {
		return nil, fmt.Errorf("docstore: connect: %w", err)
	}
	return db.WithContext(ctx), nil
}

func (s *gormStore) Add(ctx context.Context, collection string, doc Document) (string, error) {
	db, err := s.session(ctx)
	if err != nil {
		return "", err
	}

	data, err := marshalPayload(doc)
	if err != nil {
		return "", err
	}

	row := &models.Document{Collection: collection, Data: data}
	if err := db.Create(row).Error; err != nil {
		return "", fmt.Errorf("docstore: add to %s: %w", collection, err)
	}
	return row.ID, nil
}

func (s *gormStore) Get(ctx context.Context, collection, id string) (Document, error) {
	db, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	row, err := findRow(db, collection, id)
	if err != nil {
		return nil, err
	}
	return unmarshalRow(row)
}

func (s *gormStore) Update(ctx context.Context, collection, id string, fields Document) error {
	db, err := s.session(ctx)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		row, err := findRow(tx, collection, id)
		if err != nil {
			return err
		}

		current, err := unmarshalRow(row)
		if err != nil {
			return err
		}
		for k, v := range fields {
			current[k] = v
		}

		data, err := marshalPayload(current)
		if err != nil {
			return err
		}
		row.Data = data
		if err := tx.Save(row).Error; err != nil {
			return fmt.Errorf("docstore: update %s/%s: %w", collection, id, err)
		}
		return nil
	})
}

func (s *gormStore) Delete(ctx context.Context, collection, id string) error {
	db, err := s.session(ctx)
	if err != nil {
		return err
	}

	res := db.Where("id = ? AND collection = ?", id, collection).Delete(&models.Document{})
	if res.Error != nil {
		return fmt.Errorf("docstore: delete %s/%s: %w", collection, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	wanted := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f.Op != OpEqual {
			return nil, fmt.Errorf("docstore: unsupported operator %q", f.Op)
		}
		norm, err := normalize(f.Value)
		if err != nil {
			return nil, err
		}
		wanted = append(wanted, Filter{Field: f.Field, Op: f.Op, Value: norm})
	}

	db, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	var rows []models.Document
	if err := db.Where("collection = ?", collection).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("docstore: query %s: %w", collection, err)
	}

	out := make([]Document, 0, len(rows))
	for i := range rows {
		doc, err := unmarshalRow(&rows[i])
		if err != nil {
			return nil, err
		}
		if matches(doc, wanted) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func findRow(db *gorm.DB, collection, id string) (*models.Document, error) {
	var row models.Document
	if err := db.Where("id = ? AND collection = ?", id, collection).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("docstore: get %s/%s: %w", collection, id, err)
	}
	return &row, nil
}

// marshalPayload encodes doc without its id; the id lives in its own column.
func marshalPayload(doc Document) (string, error) {
	payload := make(Document, len(doc))
	for k, v := range doc {
		if k != IDField {
			payload[k] = v
		}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("docstore: encode document: %w", err)
	}
	return string(raw), nil
}

func unmarshalRow(row *models.Document) (Document, error) {
	doc := Document{}
	if err := json.Unmarshal([]byte(row.Data), &doc); err != nil {
		return nil, fmt.Errorf("docstore: decode document %s: %w", row.ID, err)
	}
	doc[IDField] = row.ID
	return doc, nil
}

// normalize gives a filter value the same shape a decoded document field has
// (numbers as float64, structs as maps).
func normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode filter value: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("docstore: encode filter value: %w", err)
	}
	return out, nil
}

func matches(doc Document, filters []Filter) bool {
	for _, f := range filters {
		if !reflect.DeepEqual(doc[f.Field], f.Value) {
			return false
		}
	}
	return true
}
