package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of action being audited
type AuditAction string

const (
	AuditActionCreate       AuditAction = "CREATE"
	AuditActionUpdate       AuditAction = "UPDATE"
	AuditActionDelete       AuditAction = "DELETE"
	AuditActionStatusChange AuditAction = "STATUS_CHANGE"
	AuditActionDrawExecute  AuditAction = "DRAW_EXECUTE"
	AuditActionDisqualify   AuditAction = "DISQUALIFY"
)

// AuditLog represents a record of changes made to any entity in the system
type AuditLog struct {
	ID        uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TableName string      `json:"table_name" gorm:"type:varchar(50);not null"`
	RecordID  uuid.UUID   `json:"record_id" gorm:"type:uuid;not null"`
	Action    AuditAction `json:"action" gorm:"not null"`
	OldData   *string     `json:"old_data" gorm:"type:jsonb"`
	NewData   *string     `json:"new_data" gorm:"type:jsonb"`
	ChangedBy *string     `json:"changed_by"`
	ChangedAt time.Time   `json:"changed_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}
