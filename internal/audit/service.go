package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tiendalopez/pos-backend/pkg/db"
	"github.com/tiendalopez/pos-backend/pkg/db/models"
	"github.com/tiendalopez/pos-backend/pkg/enums"
	pkgerrors "github.com/tiendalopez/pos-backend/pkg/errors"
	"github.com/tiendalopez/pos-backend/pkg/logger"
	"gorm.io/gorm"
)

// Actor identifies who performed an audited action.
type Actor struct {
	ID   uuid.UUID
	Name string
}

// Service appends and lists audit entries. Recording is best effort: a write
// failure is logged and swallowed so the business action it trails never
// fails on audit plumbing.
type Service struct {
	conn *gorm.DB
	logg *logger.Logger
}

// NewService builds the audit trail over the shared database client.
func NewService(client *db.Client, logg *logger.Logger) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &Service{conn: client.DB(), logg: logg}, nil
}

// Record appends one entry.
func (s *Service) Record(ctx context.Context, action enums.AuditAction, actor Actor, entityType string, entityID *string, details string) {
	entry := models.AuditEntry{
		ID:         uuid.New(),
		Action:     action,
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	if err := s.conn.WithContext(ctx).Create(&entry).Error; err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "failed to record audit entry", err)
		}
	}
}

// ListFilter narrows List results.
type ListFilter struct {
	Action enums.AuditAction
	Since  *time.Time
	Limit  int
}

// List returns entries newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.AuditEntry, error) {
	query := s.conn.WithContext(ctx).Model(&models.AuditEntry{}).Order("created_at DESC")
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var entries []models.AuditEntry
	if err := query.Limit(limit).Find(&entries).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list audit entries")
	}
	return entries, nil
}
