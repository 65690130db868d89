package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/fadilmartias/resume-analyzer/internal/service"
	"github.com/fadilmartias/resume-analyzer/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	response string
}

func (s stubClient) Analyze(ctx context.Context, prompt string) (string, error) {
	return s.response, nil
}

type failingSheet struct{}

func (failingSheet) AppendRow(ctx context.Context, record model.LogRecord) error {
	return service.ErrSpreadsheetNotFound
}

func writeResume(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cv.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))
	return path
}

func newUsecase(response string) *usecase.AnalysisUsecase {
	extract := func([]byte) (string, error) { return "Go developer", nil }
	return usecase.NewAnalysisUsecase(extract, stubClient{response: response},
		usecase.WithResultLogger(failingSheet{}))
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		err  error
		code int
		out  string
	}{
		{model.NewLoadError(errors.New("file is not a PDF")), exitLoad, "error [load]: file is not a PDF\n"},
		{model.NewAPIError(errors.New("timeout")), exitAPI, "error [api]: timeout\n"},
		{model.NewParseError(errors.New("no JSON")), exitParse, "error [parse]: no JSON\n"},
		{model.NewSchemaError(errors.New("bad score")), exitSchema, "error [schema]: bad score\n"},
		{errors.New("boom"), exitOther, "error: boom\n"},
	}
	for _, tt := range tests {
		var stderr bytes.Buffer
		assert.Equal(t, tt.code, reportError(&stderr, tt.err))
		assert.Equal(t, tt.out, stderr.String())
	}
}

func TestRunRequiresPDF(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(nil, &stdout, &stderr)

	assert.Equal(t, exitOther, code)
	assert.Contains(t, stderr.String(), "-pdf is required")
	assert.Empty(t, stdout.String())
}

func TestRunRejectsBothJobFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"-pdf", "cv.pdf", "-job", "a", "-job-file", "b.txt"}, &stdout, &stderr)

	assert.Equal(t, exitOther, code)
	assert.Contains(t, stderr.String(), "not both")
}

func TestAnalyzePrintsResultAndWarnsOnLogFailure(t *testing.T) {
	uc := newUsecase(`{"resume_score": 82, "strengths": ["Go"], "gaps": [], "missing_keywords": ["Kubernetes"], "improvements": ["Quantify impact"]}`)
	var stdout, stderr bytes.Buffer

	code := analyze(context.Background(), uc, writeResume(t), "", &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stderr.String(), "warning: log error: spreadsheet not found")

	var result model.AnalysisResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result), stdout.String())
	assert.Equal(t, 82, result.ResumeScore)
	assert.Equal(t, []string{"Go"}, result.Strengths)
	assert.Equal(t, []string{}, result.Gaps)
}

func TestAnalyzeParseFailureExitCode(t *testing.T) {
	uc := newUsecase("I cannot read this resume.")
	var stdout, stderr bytes.Buffer

	code := analyze(context.Background(), uc, writeResume(t), "", &stdout, &stderr)

	assert.Equal(t, exitParse, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "error [parse]:")
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()

	assert.NoError(t, loadEnvFile(filepath.Join(dir, "missing.env")))

	good := filepath.Join(dir, "good.env")
	require.NoError(t, os.WriteFile(good, []byte("RESUME_ANALYZER_TEST_KEY=value\n"), 0o600))
	t.Setenv("RESUME_ANALYZER_TEST_KEY", "")
	require.NoError(t, os.Unsetenv("RESUME_ANALYZER_TEST_KEY"))
	require.NoError(t, loadEnvFile(good))
	assert.Equal(t, "value", os.Getenv("RESUME_ANALYZER_TEST_KEY"))

	bad := filepath.Join(dir, "bad.env")
	require.NoError(t, os.WriteFile(bad, []byte("BROKEN=\"unterminated\n"), 0o600))
	assert.Error(t, loadEnvFile(bad))
}
