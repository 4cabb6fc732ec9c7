package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"moneyboard/internal/logger"
	"moneyboard/internal/models"
)

type auditService struct {
	db *gorm.DB
}

// NewAuditService creates an AuditServicer writing to the audit_logs table.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log appends one audit row for a committed mutation. It never fails the
// caller: encoding and storage problems are logged and dropped.
func (s *auditService) Log(tenantID, userID, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	log := logger.Named("audit")

	entry := models.AuditLog{
		TenantID:     tenantID,
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      encodeChanges(changes, log.Errorw),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Errorw("audit write failed",
			"error", err,
			"tenant_id", tenantID,
			"action", action,
			"resource", resourceType+"/"+resourceID,
		)
	}
}

// encodeChanges renders the change set as JSON; nil stays empty and an
// unencodable set is stored as "{}".
func encodeChanges(changes map[string]any, logErr func(string, ...any)) string {
	if changes == nil {
		return ""
	}
	data, err := json.Marshal(changes)
	if err != nil {
		logErr("audit changes not encodable", "error", err)
		return "{}"
	}
	return string(data)
}
