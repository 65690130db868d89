package dto

import (
	"time"

	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/google/uuid"
)

type AnalyzeResponseDTO struct {
	Result     model.AnalysisResult `json:"result"`
	Logged     bool                 `json:"logged"`
	LogWarning string               `json:"log_warning,omitempty"`
	ID         *uuid.UUID           `json:"id,omitempty"`
}

type AnalysisRecordDTO struct {
	ID             uuid.UUID            `json:"id"`
	SourceFilename string               `json:"source_filename"`
	JobDescription string               `json:"job_description,omitempty"`
	Result         model.AnalysisResult `json:"result"`
	Logged         bool                 `json:"logged"`
	HasEmbedding   bool                 `json:"has_embedding"`
	CreatedAt      time.Time            `json:"created_at"`
}

func NewAnalysisRecordDTO(rec *model.AnalysisRecord) (AnalysisRecordDTO, error) {
	result, err := rec.Result()
	if err != nil {
		return AnalysisRecordDTO{}, err
	}
	return AnalysisRecordDTO{
		ID:             rec.ID,
		SourceFilename: rec.SourceFilename,
		JobDescription: rec.JobDescription,
		Result:         result,
		Logged:         rec.Logged,
		HasEmbedding:   rec.Embedding != nil,
		CreatedAt:      rec.CreatedAt,
	}, nil
}

func NewAnalysisRecordDTOs(records []model.AnalysisRecord) ([]AnalysisRecordDTO, error) {
	out := make([]AnalysisRecordDTO, 0, len(records))
	for i := range records {
		d, err := NewAnalysisRecordDTO(&records[i])
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
