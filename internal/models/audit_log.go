package models

import "time"

// AuditLog records sensitive user operations for security and compliance.
type AuditLog struct {
	ID           string         `json:"id,omitempty"`
	UserID       string         `json:"user_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	IPAddress    string         `json:"ip_address"`
	Changes      map[string]any `json:"changes,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}
