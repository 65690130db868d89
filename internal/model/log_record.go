package model

import (
	"encoding/json"
	"strings"
	"time"
)

// ListSeparator joins list columns when the sheet uses the "joined" list format.
const ListSeparator = "; "

// LogColumns is the fixed column order of a spreadsheet row.
var LogColumns = []string{
	"resume_score",
	"strengths",
	"gaps",
	"missing_keywords",
	"improvements",
	"timestamp",
	"source_filename",
}

type ListFormat string

const (
	ListFormatJoined ListFormat = "joined"
	ListFormatJSON   ListFormat = "json"
)

// LogRecord is the flattened, append-only form of an AnalysisResult.
type LogRecord struct {
	ResumeScore     int
	Strengths       []string
	Gaps            []string
	MissingKeywords []string
	Improvements    []string
	CreatedAt       time.Time
	SourceFilename  string
}

func NewLogRecord(result AnalysisResult, sourceFilename string, createdAt time.Time) LogRecord {
	return LogRecord{
		ResumeScore:     result.ResumeScore,
		Strengths:       result.Strengths,
		Gaps:            result.Gaps,
		MissingKeywords: result.MissingKeywords,
		Improvements:    result.Improvements,
		CreatedAt:       createdAt.UTC(),
		SourceFilename:  sourceFilename,
	}
}

// Row renders the record in LogColumns order.
func (r LogRecord) Row(format ListFormat) []interface{} {
	return []interface{}{
		r.ResumeScore,
		formatList(r.Strengths, format),
		formatList(r.Gaps, format),
		formatList(r.MissingKeywords, format),
		formatList(r.Improvements, format),
		r.CreatedAt.Format(time.RFC3339),
		r.SourceFilename,
	}
}

func formatList(items []string, format ListFormat) string {
	if format == ListFormatJSON {
		b, err := json.Marshal(nonNil(items))
		if err != nil {
			return strings.Join(items, ListSeparator)
		}
		return string(b)
	}
	return strings.Join(items, ListSeparator)
}
