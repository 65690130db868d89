package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// EmbeddingDimension matches the output size of gemini-embedding-001.
const EmbeddingDimension = 3072

// AnalysisRecord is the local history copy of a LogRecord.
type AnalysisRecord struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	SourceFilename  string           `gorm:"type:text" json:"source_filename"`
	JobDescription  string           `gorm:"type:text" json:"job_description"`
	ResumeScore     int              `gorm:"type:integer;index" json:"resume_score"`
	Strengths       string           `gorm:"type:jsonb" json:"strengths"`
	Gaps            string           `gorm:"type:jsonb" json:"gaps"`
	MissingKeywords string           `gorm:"type:jsonb" json:"missing_keywords"`
	Improvements    string           `gorm:"type:jsonb" json:"improvements"`
	Logged          bool             `json:"logged"`
	Embedding       *pgvector.Vector `gorm:"type:vector(3072)" json:"-"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func (r *AnalysisRecord) TableName() string {
	return "analysis_records"
}

func (r *AnalysisRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// NewAnalysisRecord copies a log record into its history form.
func NewAnalysisRecord(rec LogRecord, jobDescription string, logged bool) (*AnalysisRecord, error) {
	lists := make([]string, 0, 4)
	for _, items := range [][]string{rec.Strengths, rec.Gaps, rec.MissingKeywords, rec.Improvements} {
		b, err := json.Marshal(nonNil(items))
		if err != nil {
			return nil, fmt.Errorf("marshal list: %w", err)
		}
		lists = append(lists, string(b))
	}
	return &AnalysisRecord{
		ID:              uuid.New(),
		SourceFilename:  rec.SourceFilename,
		JobDescription:  jobDescription,
		ResumeScore:     rec.ResumeScore,
		Strengths:       lists[0],
		Gaps:            lists[1],
		MissingKeywords: lists[2],
		Improvements:    lists[3],
		Logged:          logged,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.CreatedAt,
	}, nil
}

// Result decodes the stored lists back into an AnalysisResult.
func (r *AnalysisRecord) Result() (AnalysisResult, error) {
	result := AnalysisResult{ResumeScore: r.ResumeScore}
	targets := []struct {
		raw string
		dst *[]string
	}{
		{r.Strengths, &result.Strengths},
		{r.Gaps, &result.Gaps},
		{r.MissingKeywords, &result.MissingKeywords},
		{r.Improvements, &result.Improvements},
	}
	for _, t := range targets {
		if err := json.Unmarshal([]byte(t.raw), t.dst); err != nil {
			return AnalysisResult{}, fmt.Errorf("decode record %s: %w", r.ID, err)
		}
	}
	return result, nil
}
