package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/resonancehq/archetype-api/internal/domain"
	"github.com/resonancehq/archetype-api/internal/infra/database/models"
)

// SubmissionLogRepository writes the per-submission audit trail to
// postgres. Inserts are best effort; callers log and continue on failure.
type SubmissionLogRepository struct {
	db *gorm.DB
}

func NewSubmissionLogRepository(db *gorm.DB) *SubmissionLogRepository {
	return &SubmissionLogRepository{db: db}
}

func (r *SubmissionLogRepository) Insert(ctx context.Context, record domain.Record, role string) error {
	row := models.SubmissionLog{
		ID:           record.ID,
		Email:        record.Email,
		Name:         record.Name,
		Company:      record.Company,
		Role:         role,
		ArchetypeID:  record.ArchetypeID,
		DemoInterest: record.DemoInterest,
		Enriched:     record.Enriched,
		CreatedAt:    record.CreatedAt,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		DoNothing: true,
	}).Create(&row).Error
}
