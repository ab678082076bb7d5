package ledger

import (
	"context"
	"fmt"

	"finance-ledger/internal/models"

	"gorm.io/gorm"
)

// ListAuditLog returns a page of owner's audit rows, newest first, and the
// total number of rows.
func (s *Service) ListAuditLog(ctx context.Context, owner uint, page, size int) ([]models.AuditLog, int64, error) {
	if owner == 0 {
		return nil, 0, fmt.Errorf("owner: %w", ErrNotFound)
	}
	base := s.db.WithContext(ctx).Model(&models.AuditLog{}).Where("user_id = ?", owner)
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.AuditLog
	err := base.Session(&gorm.Session{}).
		Order("id DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
