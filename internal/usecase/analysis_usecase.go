package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/fadilmartias/resume-analyzer/internal/service"
	"github.com/fadilmartias/resume-analyzer/internal/util"
	"github.com/google/uuid"
	"github.com/phuslu/log"
	"github.com/pgvector/pgvector-go"
)

// AnalysisClient sends a prompt to a hosted model and returns its raw text.
type AnalysisClient interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}

// ResultLogger appends a record to the remote spreadsheet.
type ResultLogger interface {
	AppendRow(ctx context.Context, record model.LogRecord) error
}

// HistoryStore keeps the optional local copy of each analysis.
type HistoryStore interface {
	Create(ctx context.Context, record *model.AnalysisRecord) error
}

// Embedder produces resume embeddings for similarity search.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// AnalyzeRequest is one pipeline run.
type AnalyzeRequest struct {
	Filename       string
	PDF            []byte
	JobDescription string
}

// AnalysisOutcome is what a successful run returns. LogErr is set when the
// spreadsheet append failed; the result is still valid in that case.
type AnalysisOutcome struct {
	ID         *uuid.UUID
	Result     model.AnalysisResult
	Record     model.LogRecord
	Logged     bool
	LogErr     error
	HistoryErr error
}

// Warnings lists the non-fatal failures of the run.
func (o *AnalysisOutcome) Warnings() []string {
	var out []string
	if o.LogErr != nil {
		out = append(out, o.LogErr.Error())
	}
	if o.HistoryErr != nil {
		out = append(out, o.HistoryErr.Error())
	}
	return out
}

type AnalysisUsecase struct {
	extract  util.PDFTextExtractor
	client   AnalysisClient
	logger   ResultLogger
	history  HistoryStore
	embedder Embedder
	now      func() time.Time
}

type Option func(uc *AnalysisUsecase)

// WithResultLogger enables the spreadsheet append.
func WithResultLogger(l ResultLogger) Option {
	return func(uc *AnalysisUsecase) { uc.logger = l }
}

// WithHistory stores every successful analysis; embedder may be nil.
func WithHistory(store HistoryStore, embedder Embedder) Option {
	return func(uc *AnalysisUsecase) {
		uc.history = store
		uc.embedder = embedder
	}
}

func WithClock(now func() time.Time) Option {
	return func(uc *AnalysisUsecase) { uc.now = now }
}

func NewAnalysisUsecase(extract util.PDFTextExtractor, client AnalysisClient, opts ...Option) *AnalysisUsecase {
	uc := &AnalysisUsecase{
		extract: extract,
		client:  client,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// AnalyzeFile reads a PDF from disk and runs the pipeline on it.
func (uc *AnalysisUsecase) AnalyzeFile(ctx context.Context, path, jobDescription string) (*AnalysisOutcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.NewLoadError(fmt.Errorf("failed to open PDF: %w", err))
	}
	return uc.Analyze(ctx, AnalyzeRequest{
		Filename:       filepath.Base(path),
		PDF:            data,
		JobDescription: jobDescription,
	})
}

// Analyze runs load → prompt → model → parse → log. The first failure up to and
// including parsing aborts the run and nothing is logged.
func (uc *AnalysisUsecase) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalysisOutcome, error) {
	logger := log.DefaultLogger
	start := time.Now()

	resumeText, err := uc.extract(req.PDF)
	if err != nil {
		return nil, model.NewLoadError(err)
	}
	if strings.TrimSpace(resumeText) == "" {
		logger.Warn().Str("file", req.Filename).Msg("no readable text in PDF, the analysis will be unreliable")
	}
	logger.Info().Str("file", req.Filename).Int("chars", len(resumeText)).Msg("resume text extracted")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	analysisReq := model.AnalysisRequest{
		ResumeText:     resumeText,
		JobDescription: req.JobDescription,
	}
	prompt := BuildPrompt(analysisReq)

	raw, err := uc.client.Analyze(ctx, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, model.NewAPIError(err)
	}

	result, err := ParseAnalysisResult(raw)
	if err != nil {
		logger.Warn().Err(err).Int("response_chars", len(raw)).Msg("model response rejected")
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcome := &AnalysisOutcome{
		Result: *result,
		Record: model.NewLogRecord(*result, req.Filename, uc.now()),
	}

	if uc.logger != nil {
		if err := uc.logger.AppendRow(ctx, outcome.Record); err != nil {
			outcome.LogErr = model.NewLogError(err)
			logger.Warn().Err(err).Msg("result logging failed, returning analysis anyway")
		} else {
			outcome.Logged = true
		}
	}

	if uc.history != nil {
		id, err := uc.saveHistory(ctx, outcome, analysisReq)
		if err != nil {
			outcome.HistoryErr = fmt.Errorf("history: %w", err)
			logger.Warn().Err(err).Msg("saving analysis history failed")
		} else {
			outcome.ID = &id
		}
	}

	logger.Info().
		Str("file", req.Filename).
		Int("score", result.ResumeScore).
		Bool("logged", outcome.Logged).
		Dur("elapsed", time.Since(start)).
		Msg("analysis completed")
	return outcome, nil
}

func (uc *AnalysisUsecase) saveHistory(ctx context.Context, outcome *AnalysisOutcome, req model.AnalysisRequest) (uuid.UUID, error) {
	record, err := model.NewAnalysisRecord(outcome.Record, req.JobDescription, outcome.Logged)
	if err != nil {
		return uuid.Nil, err
	}

	if uc.embedder != nil && strings.TrimSpace(req.ResumeText) != "" {
		emb, err := uc.embedder.GenerateEmbedding(ctx, req.ResumeText)
		if err != nil {
			log.Warn().Err(err).Msg("resume embedding failed, storing record without it")
		} else {
			vec := pgvector.NewVector(emb)
			record.Embedding = &vec
		}
	}

	if err := uc.history.Create(ctx, record); err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}

// Describe turns a pipeline error into its stage tag and a human message.
func Describe(err error) (model.Stage, string) {
	stage, ok := model.StageOf(err)
	if !ok {
		return "", err.Error()
	}
	var pe *model.PipelineError
	errors.As(err, &pe)

	msg := pe.Err.Error()
	if stage == model.StageAPI && errors.Is(err, service.ErrQuotaExceeded) {
		msg = "model quota or rate limit exceeded; wait, enable billing or use another key (" + msg + ")"
	}
	return stage, msg
}
