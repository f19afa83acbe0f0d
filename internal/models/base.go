package models

import (
	"time"

	"fintrack/internal/uuid"

	"gorm.io/gorm"
)

// Document is the storage row behind every record: one JSON payload per row,
// grouped by collection.
type Document struct {
	ID         string    `gorm:"type:varchar(36);primaryKey"`
	Collection string    `gorm:"type:varchar(64);not null;index:idx_documents_collection,priority:1"`
	Data       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"index:idx_documents_collection,priority:2"`
	UpdatedAt  time.Time
}

// TableName pins the table name used by the SQL migrations.
func (Document) TableName() string {
	return "documents"
}

// BeforeCreate hook generates a UUIDv7 for new rows
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New()
	}
	return nil
}

// Collection names for every record kind.
const (
	CollectionGoals        = "goals"
	CollectionTransactions = "transactions"
	CollectionCategories   = "categories"
	CollectionUsers        = "users"
	CollectionAuditLogs    = "audit_logs"
)
