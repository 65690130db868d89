package usecase

import (
	"context"
	"errors"

	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/pgvector/pgvector-go"
)

var ErrNoEmbedding = errors.New("analysis has no stored embedding")

const (
	DefaultPageSize   = 20
	MaxPageSize       = 100
	DefaultSimilarTop = 5
	MaxSimilarTop     = 50
)

type HistoryReader interface {
	FindByID(ctx context.Context, id string) (*model.AnalysisRecord, error)
	List(ctx context.Context, page, pageSize int) ([]model.AnalysisRecord, int64, error)
	SearchSimilar(ctx context.Context, excludeID string, embedding pgvector.Vector, topK int) ([]model.AnalysisRecord, error)
}

// HistoryPage is one page of stored analyses.
type HistoryPage struct {
	Records  []model.AnalysisRecord
	Total    int64
	Page     int
	PageSize int
}

type HistoryUsecase struct {
	repo HistoryReader
}

func NewHistoryUsecase(repo HistoryReader) *HistoryUsecase {
	return &HistoryUsecase{repo: repo}
}

func (uc *HistoryUsecase) Get(ctx context.Context, id string) (*model.AnalysisRecord, error) {
	return uc.repo.FindByID(ctx, id)
}

// List clamps page and pageSize to sane bounds before querying.
func (uc *HistoryUsecase) List(ctx context.Context, page, pageSize int) (*HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	records, total, err := uc.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &HistoryPage{Records: records, Total: total, Page: page, PageSize: pageSize}, nil
}

// Similar returns the k analyses whose resume embedding is nearest to id's.
func (uc *HistoryUsecase) Similar(ctx context.Context, id string, k int) ([]model.AnalysisRecord, error) {
	if k < 1 {
		k = DefaultSimilarTop
	}
	if k > MaxSimilarTop {
		k = MaxSimilarTop
	}

	record, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Embedding == nil {
		return nil, ErrNoEmbedding
	}
	return uc.repo.SearchSimilar(ctx, record.ID.String(), *record.Embedding, k)
}
