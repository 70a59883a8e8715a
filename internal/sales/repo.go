package sales

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tiendalopez/pos-backend/pkg/db"
	"github.com/tiendalopez/pos-backend/pkg/db/models"
	"github.com/tiendalopez/pos-backend/pkg/enums"
	pkgerrors "github.com/tiendalopez/pos-backend/pkg/errors"
	"gorm.io/gorm"
)

// Repository persists sale records.
type Repository struct {
	conn *gorm.DB
}

// NewRepository builds the sales store over the shared database client.
func NewRepository(client *db.Client) (*Repository, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &Repository{conn: client.DB()}, nil
}

// Create inserts the sale and its lines in one transaction.
func (r *Repository) Create(ctx context.Context, sale *models.Sale) error {
	if err := r.conn.WithContext(ctx).Create(sale).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to persist sale")
	}
	return nil
}

// ListFilter narrows List results.
type ListFilter struct {
	BranchID *uuid.UUID
	Method   *enums.PaymentMethod
	Status   *enums.SaleStatus
	// Day restricts to sales created on this calendar day, local time.
	Day   *time.Time
	Limit int
}

// List returns sales newest first, lines preloaded.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Sale, error) {
	query := r.conn.WithContext(ctx).
		Model(&models.Sale{}).
		Preload("Lines").
		Order("created_at DESC")

	if filter.BranchID != nil {
		query = query.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.Method != nil {
		query = query.Where("method = ?", *filter.Method)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Day != nil {
		start := time.Date(filter.Day.Year(), filter.Day.Month(), filter.Day.Day(), 0, 0, 0, 0, filter.Day.Location())
		query = query.Where("created_at >= ? AND created_at < ?", start, start.Add(24*time.Hour))
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 200
	}

	var sales []models.Sale
	if err := query.Limit(limit).Find(&sales).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list sales")
	}
	return sales, nil
}

// GetByID returns one sale with its lines.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	err := r.conn.WithContext(ctx).Preload("Lines").First(&sale, "id = ?", id).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load sale")
	}
	return &sale, nil
}

// UpdateStatus moves a sale to a new status with its reason column.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.SaleStatus, reasonColumn string, reason string) error {
	updates := map[string]any{"status": status}
	if reasonColumn != "" {
		updates[reasonColumn] = reason
	}
	result := r.conn.WithContext(ctx).Model(&models.Sale{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, result.Error, "failed to update sale status")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
	}
	return nil
}

// CountByBranch reports how many sales a branch has recorded. Used to seed
// the ticket sequence after a restart.
func (r *Repository) CountByBranch(ctx context.Context, branchID uuid.UUID) (int64, error) {
	var count int64
	err := r.conn.WithContext(ctx).Model(&models.Sale{}).Where("branch_id = ?", branchID).Count(&count).Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to count sales")
	}
	return count, nil
}
