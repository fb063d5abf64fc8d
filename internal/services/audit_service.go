package services

import (
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"dwight/internal/logger"
	"dwight/internal/models"
)

// Audit actions recorded by the HTTP layer.
const (
	AuditRegister      = "REGISTER"
	AuditLogin         = "LOGIN"
	AuditResetPassword = "RESET_PASSWORD"
	AuditUpdateUser    = "UPDATE_USER"
	AuditCreateHolding = "CREATE_HOLDING"
	AuditUpdateHolding = "UPDATE_HOLDING"
	AuditDeleteHolding = "DELETE_HOLDING"
)

// Audited resource types.
const (
	AuditResourceUser    = "user"
	AuditResourceHolding = "holding"
)

type auditService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// NewAuditService returns an AuditServicer that appends to the audit_logs table.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db, log: logger.Get().With("component", "audit")}
}

// Log appends one entry to the trail. The trail is best effort: a failed
// write is logged and the caller's request carries on.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	entry := models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      s.encodeChanges(action, changes),
	}

	if err := s.db.Create(&entry).Error; err != nil {
		s.log.Errorw("audit entry dropped",
			"error", err,
			"action", action,
			"user_id", userID,
			"resource", resourceType+":"+resourceID,
		)
	}
}

// encodeChanges renders changes as a JSON object. Empty input is stored as
// an empty column.
func (s *auditService) encodeChanges(action string, changes map[string]interface{}) string {
	if len(changes) == 0 {
		return ""
	}
	data, err := json.Marshal(changes)
	if err != nil {
		s.log.Warnw("audit changes not encodable", "error", err, "action", action)
		return "{}"
	}
	return string(data)
}
