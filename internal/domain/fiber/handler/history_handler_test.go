package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/fadilmartias/resume-analyzer/internal/repository"
	"github.com/fadilmartias/resume-analyzer/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistory struct {
	records map[string]*model.AnalysisRecord
	similar []model.AnalysisRecord
	simErr  error
}

func (f *fakeHistory) Get(ctx context.Context, id string) (*model.AnalysisRecord, error) {
	if rec, ok := f.records[id]; ok {
		return rec, nil
	}
	return nil, repository.ErrRecordNotFound
}

func (f *fakeHistory) List(ctx context.Context, page, pageSize int) (*usecase.HistoryPage, error) {
	out := make([]model.AnalysisRecord, 0, len(f.records))
	for _, rec := range f.records {
		out = append(out, *rec)
	}
	return &usecase.HistoryPage{Records: out, Total: int64(len(out)), Page: page, PageSize: pageSize}, nil
}

func (f *fakeHistory) Similar(ctx context.Context, id string, k int) ([]model.AnalysisRecord, error) {
	if f.simErr != nil {
		return nil, f.simErr
	}
	return f.similar, nil
}

func storedRecord(t *testing.T) *model.AnalysisRecord {
	t.Helper()
	rec, err := model.NewAnalysisRecord(model.NewLogRecord(model.AnalysisResult{
		ResumeScore: 64,
		Strengths:   []string{"SQL"},
	}, "cv.pdf", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)), "data engineer", true)
	require.NoError(t, err)
	return rec
}

func newHistoryApp(h History) *fiber.App {
	app := fiber.New()
	NewHistoryHandler(h).RegisterRoutes(app)
	return app
}

func getJSON(t *testing.T, app *fiber.App, url string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", url, nil))
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return resp.StatusCode, body
}

func TestHistoryGet(t *testing.T) {
	rec := storedRecord(t)
	app := newHistoryApp(&fakeHistory{records: map[string]*model.AnalysisRecord{rec.ID.String(): rec}})

	code, body := getJSON(t, app, "/analyses/"+rec.ID.String())

	require.Equal(t, fiber.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "cv.pdf", data["source_filename"])
	result := data["result"].(map[string]any)
	assert.EqualValues(t, 64, result["resume_score"])
	assert.Equal(t, []any{"SQL"}, result["strengths"])
}

func TestHistoryGetErrors(t *testing.T) {
	app := newHistoryApp(&fakeHistory{records: map[string]*model.AnalysisRecord{}})

	code, _ := getJSON(t, app, "/analyses/not-a-uuid")
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = getJSON(t, app, "/analyses/"+uuid.NewString())
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestHistoryList(t *testing.T) {
	rec := storedRecord(t)
	app := newHistoryApp(&fakeHistory{records: map[string]*model.AnalysisRecord{rec.ID.String(): rec}})

	code, body := getJSON(t, app, "/analyses?page=1&page_size=10")

	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, body["data"], 1)
	pagination := body["pagination"].(map[string]any)
	assert.EqualValues(t, 1, pagination["total_items"])
	assert.EqualValues(t, 10, pagination["page_size"])
}

func TestHistorySimilar(t *testing.T) {
	rec := storedRecord(t)
	app := newHistoryApp(&fakeHistory{similar: []model.AnalysisRecord{*rec}})

	code, body := getJSON(t, app, "/analyses/"+uuid.NewString()+"/similar?k=3")
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, body["data"], 1)

	app = newHistoryApp(&fakeHistory{simErr: usecase.ErrNoEmbedding})
	code, _ = getJSON(t, app, "/analyses/"+uuid.NewString()+"/similar")
	assert.Equal(t, fiber.StatusConflict, code)
}
