package usecase

import (
	"strings"

	"github.com/fadilmartias/resume-analyzer/internal/model"
)

const analysisInstructions = `You are a technical resume analyzer for software and data roles.
Be direct, ATS-aware, and practical. No fluff.

Return ONLY valid JSON (no markdown, no extra text) with exactly these keys:
{
  "resume_score": <integer 0-100, overall quality of the resume>,
  "strengths": [<string>, ...],
  "gaps": [<string>, ...],
  "missing_keywords": [<string>, ...],
  "improvements": [<string>, ...]
}
Every list must be present; use [] when there is nothing to report.
`

const jobComparisonInstructions = `Compare the resume against the job description below.
Score fit for that role, list gaps relative to its requirements, and list the job
description keywords the resume does not mention.
`

const generalReviewInstructions = `No job description was provided. Review the resume on its own merits
for software and data roles.
`

// BuildPrompt renders the instruction payload. It is deterministic and always
// contains the resume text verbatim.
func BuildPrompt(req model.AnalysisRequest) string {
	var sb strings.Builder

	sb.WriteString(analysisInstructions)
	sb.WriteString("\n")
	if req.HasJobDescription() {
		sb.WriteString(jobComparisonInstructions)
	} else {
		sb.WriteString(generalReviewInstructions)
	}

	sb.WriteString("\nRESUME TEXT:\n")
	sb.WriteString(req.ResumeText)
	sb.WriteString("\n")

	if req.HasJobDescription() {
		sb.WriteString("\nJOB DESCRIPTION:\n")
		sb.WriteString(req.JobDescription)
		sb.WriteString("\n")
	}

	return sb.String()
}
