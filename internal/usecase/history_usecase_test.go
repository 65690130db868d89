package usecase

import (
	"context"
	"testing"

	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/fadilmartias/resume-analyzer/internal/repository"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistoryReader struct {
	records   map[string]*model.AnalysisRecord
	page      int
	pageSize  int
	excludeID string
	topK      int
}

func (f *fakeHistoryReader) FindByID(ctx context.Context, id string) (*model.AnalysisRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return rec, nil
}

func (f *fakeHistoryReader) List(ctx context.Context, page, pageSize int) ([]model.AnalysisRecord, int64, error) {
	f.page, f.pageSize = page, pageSize
	return []model.AnalysisRecord{{ResumeScore: 1}}, 41, nil
}

func (f *fakeHistoryReader) SearchSimilar(ctx context.Context, excludeID string, embedding pgvector.Vector, topK int) ([]model.AnalysisRecord, error) {
	f.excludeID, f.topK = excludeID, topK
	return []model.AnalysisRecord{{ResumeScore: 2}}, nil
}

func TestHistoryListClampsPaging(t *testing.T) {
	repo := &fakeHistoryReader{}
	uc := NewHistoryUsecase(repo)

	page, err := uc.List(context.Background(), 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.page)
	assert.Equal(t, MaxPageSize, repo.pageSize)
	assert.Equal(t, int64(41), page.Total)
	assert.Len(t, page.Records, 1)

	page, err = uc.List(context.Background(), 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, DefaultPageSize, page.PageSize)
}

func TestHistorySimilar(t *testing.T) {
	id := uuid.New()
	vec := pgvector.NewVector([]float32{1, 0})
	repo := &fakeHistoryReader{records: map[string]*model.AnalysisRecord{
		id.String(): {ID: id, Embedding: &vec},
	}}
	uc := NewHistoryUsecase(repo)

	records, err := uc.Similar(context.Background(), id.String(), 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, id.String(), repo.excludeID)
	assert.Equal(t, DefaultSimilarTop, repo.topK)
}

func TestHistorySimilarWithoutEmbedding(t *testing.T) {
	id := uuid.New()
	repo := &fakeHistoryReader{records: map[string]*model.AnalysisRecord{id.String(): {ID: id}}}

	_, err := NewHistoryUsecase(repo).Similar(context.Background(), id.String(), 3)
	assert.ErrorIs(t, err, ErrNoEmbedding)
}

func TestHistoryGetNotFound(t *testing.T) {
	repo := &fakeHistoryReader{records: map[string]*model.AnalysisRecord{}}

	_, err := NewHistoryUsecase(repo).Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
}
