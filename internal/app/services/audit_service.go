package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tvsorteo/campaign-core/internal/app/errors"
	"github.com/tvsorteo/campaign-core/internal/app/models"
	"gorm.io/gorm"
)

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{
		db: db,
	}
}

// LogAudit creates an audit log entry for an administrative change.
// Approvals, rejections, deletions, draw execution and winner
// disqualification all pass through here.
func (s *AuditService) LogAudit(tableName string, recordID uuid.UUID, action models.AuditAction, oldData, newData interface{}, changedBy *string) error {
	var oldDataJSON, newDataJSON *string

	if oldData != nil {
		jsonBytes, err := json.Marshal(oldData)
		if err != nil {
			return fmt.Errorf("failed to marshal old data: %w", err)
		}
		strJSON := string(jsonBytes)
		oldDataJSON = &strJSON
	}

	if newData != nil {
		jsonBytes, err := json.Marshal(newData)
		if err != nil {
			return fmt.Errorf("failed to marshal new data: %w", err)
		}
		strJSON := string(jsonBytes)
		newDataJSON = &strJSON
	}

	auditLog := &models.AuditLog{
		TableName: tableName,
		RecordID:  recordID,
		Action:    action,
		OldData:   oldDataJSON,
		NewData:   newDataJSON,
		ChangedBy: changedBy,
		ChangedAt: time.Now(),
	}

	if err := s.db.Create(auditLog).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to create audit log")
	}

	return nil
}

func (s *AuditService) GetAuditLogs(tableName string, recordID uuid.UUID) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := s.db.Where("table_name = ? AND record_id = ?", tableName, recordID).
		Order("changed_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get audit logs")
	}
	return logs, nil
}
