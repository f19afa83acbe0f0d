package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fintrack/internal/docstore"
	"fintrack/internal/logger"
	"fintrack/internal/models"
)

// auditService handles audit log recording.
type auditService struct {
	store docstore.Store
	log   *zap.SugaredLogger
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(store docstore.Store) AuditServicer {
	return &auditService{store: store, log: logger.Named("audit")}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changes,
		CreatedAt:    time.Now().UTC(),
	}

	doc, err := docstore.Encode(entry)
	if err == nil {
		_, err = s.store.Add(ctx, models.CollectionAuditLogs, doc)
	}
	if err != nil {
		s.log.Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}
