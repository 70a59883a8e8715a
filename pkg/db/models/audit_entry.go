package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tiendalopez/pos-backend/pkg/enums"
)

// AuditEntry is an append-only trace of operator actions.
type AuditEntry struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Action     enums.AuditAction `gorm:"column:action;not null;index"`
	ActorID    uuid.UUID         `gorm:"column:actor_id;type:uuid;not null"`
	ActorName  string            `gorm:"column:actor_name;not null"`
	EntityType string            `gorm:"column:entity_type;not null"`
	EntityID   *string           `gorm:"column:entity_id"`
	Details    string            `gorm:"column:details;not null"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime;index"`
}
