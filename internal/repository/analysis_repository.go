package repository

import (
	"context"
	"errors"

	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

var ErrRecordNotFound = errors.New("analysis record not found")

type AnalysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{db}
}

// Migrate enables pgvector and creates the analysis_records table.
func (r *AnalysisRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).AutoMigrate(&model.AnalysisRecord{})
}

func (r *AnalysisRepository) Create(ctx context.Context, record *model.AnalysisRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *AnalysisRepository) FindByID(ctx context.Context, id string) (*model.AnalysisRecord, error) {
	var record model.AnalysisRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns one page of records, newest first, plus the total count.
func (r *AnalysisRepository) List(ctx context.Context, page, pageSize int) ([]model.AnalysisRecord, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.AnalysisRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.AnalysisRecord
	err := r.db.WithContext(ctx).
		Omit("embedding").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error
	return records, total, err
}

// SearchSimilar orders the other embedded records by distance to embedding.
func (r *AnalysisRepository) SearchSimilar(ctx context.Context, excludeID string, embedding pgvector.Vector, topK int) ([]model.AnalysisRecord, error) {
	var records []model.AnalysisRecord

	err := r.db.WithContext(ctx).Raw(`
        SELECT *
        FROM analysis_records
        WHERE embedding IS NOT NULL AND id <> ?
        ORDER BY embedding <-> ?
        LIMIT ?
    `, excludeID, embedding, topK).Scan(&records).Error

	return records, err
}
