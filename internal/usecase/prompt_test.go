package usecase

import (
	"strings"
	"testing"

	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestBuildPromptContainsResumeAndJobDescription(t *testing.T) {
	req := model.AnalysisRequest{
		ResumeText:     "Jane Doe\nSenior Go engineer, 7 years of Kubernetes",
		JobDescription: "Platform engineer: Go, Terraform, AWS",
	}

	prompt := BuildPrompt(req)

	assert.Contains(t, prompt, req.ResumeText)
	assert.Contains(t, prompt, req.JobDescription)
	assert.Contains(t, prompt, "JOB DESCRIPTION:")
	assert.Contains(t, prompt, "resume_score")
	assert.Less(t, strings.Index(prompt, req.ResumeText), strings.Index(prompt, req.JobDescription))
}

func TestBuildPromptWithoutJobDescription(t *testing.T) {
	for _, jd := range []string{"", "   \n\t"} {
		prompt := BuildPrompt(model.AnalysisRequest{ResumeText: "resume body", JobDescription: jd})

		assert.Contains(t, prompt, "resume body")
		assert.NotContains(t, prompt, "JOB DESCRIPTION:")
		assert.Contains(t, prompt, "No job description was provided")
	}
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	req := model.AnalysisRequest{ResumeText: "a", JobDescription: "b"}
	assert.Equal(t, BuildPrompt(req), BuildPrompt(req))
}

func TestBuildPromptEmptyResume(t *testing.T) {
	prompt := BuildPrompt(model.AnalysisRequest{})

	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "RESUME TEXT:\n\n")
}
