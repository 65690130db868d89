package model

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// AnalysisRequest is the input to the prompt builder.
type AnalysisRequest struct {
	ResumeText     string
	JobDescription string
}

// HasJobDescription reports whether a non-blank job description was supplied.
func (r AnalysisRequest) HasJobDescription() bool {
	return strings.TrimSpace(r.JobDescription) != ""
}

// AnalysisResult is the fixed schema the model is asked to return.
type AnalysisResult struct {
	ResumeScore     int      `json:"resume_score" validate:"gte=0,lte=100"`
	Strengths       []string `json:"strengths" validate:"required"`
	Gaps            []string `json:"gaps" validate:"required"`
	MissingKeywords []string `json:"missing_keywords" validate:"required"`
	Improvements    []string `json:"improvements" validate:"required"`
}

// Validate checks the score range and that every list is present.
func (r AnalysisResult) Validate() error {
	return validate.Struct(r)
}

// MarshalJSON always emits lists as arrays, never null.
func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	type plain AnalysisResult
	out := plain(r)
	out.Strengths = nonNil(out.Strengths)
	out.Gaps = nonNil(out.Gaps)
	out.MissingKeywords = nonNil(out.MissingKeywords)
	out.Improvements = nonNil(out.Improvements)
	return json.Marshal(out)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
