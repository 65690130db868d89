package handler

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/fadilmartias/resume-analyzer/internal/dto"
	"github.com/fadilmartias/resume-analyzer/internal/middleware"
	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/fadilmartias/resume-analyzer/internal/service"
	"github.com/fadilmartias/resume-analyzer/internal/usecase"
	"github.com/fadilmartias/resume-analyzer/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/phuslu/log"
)

//go:embed form.html
var formPage []byte

type Analyzer interface {
	Analyze(ctx context.Context, req usecase.AnalyzeRequest) (*usecase.AnalysisOutcome, error)
}

type AnalyzeHandler struct {
	uc       Analyzer
	maxBytes int64
}

func NewAnalyzeHandler(uc Analyzer, maxBytes int64) *AnalyzeHandler {
	return &AnalyzeHandler{uc: uc, maxBytes: maxBytes}
}

func (h *AnalyzeHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/", h.Form)
	app.Post("/analyze", middleware.RateLimiter(5, 1*time.Minute), h.Analyze)
}

func (h *AnalyzeHandler) Form(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(formPage)
}

func (h *AnalyzeHandler) Analyze(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "resume file is required",
			Details: fiber.Map{"error_class": model.StageLoad},
		}, err)
	}

	if h.maxBytes > 0 && file.Size > h.maxBytes {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusRequestEntityTooLarge,
			Message: fmt.Sprintf("resume file is too large (max %d bytes)", h.maxBytes),
			Details: fiber.Map{"error_class": model.StageLoad},
		})
	}

	filename := filepath.Base(file.Filename)
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "unsupported resume file type, only PDF is accepted",
			Details: fiber.Map{"error_class": model.StageLoad},
		})
	}

	data, err := readFormFile(file)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "cannot read resume file",
			Details: fiber.Map{"error_class": model.StageLoad},
		}, err)
	}

	outcome, err := h.uc.Analyze(c.UserContext(), usecase.AnalyzeRequest{
		Filename:       filename,
		PDF:            data,
		JobDescription: c.FormValue("job_description"),
	})
	if err != nil {
		return analysisError(c, err)
	}

	resp := dto.AnalyzeResponseDTO{
		Result: outcome.Result,
		Logged: outcome.Logged,
		ID:     outcome.ID,
	}
	if warnings := outcome.Warnings(); len(warnings) > 0 {
		resp.LogWarning = strings.Join(warnings, "; ")
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success analyze resume",
		Data:    resp,
	})
}

func readFormFile(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func analysisError(c *fiber.Ctx, err error) error {
	stage, msg := usecase.Describe(err)

	code := fiber.StatusInternalServerError
	switch stage {
	case model.StageLoad:
		code = fiber.StatusUnprocessableEntity
	case model.StageAPI:
		code = fiber.StatusBadGateway
		if errors.Is(err, service.ErrQuotaExceeded) {
			code = fiber.StatusTooManyRequests
		}
	case model.StageParse, model.StageSchema:
		code = fiber.StatusBadGateway
	}
	if errors.Is(err, context.Canceled) {
		code = fiber.StatusRequestTimeout
	}

	log.Warn().Str("error_class", string(stage)).Err(err).Msg("analysis failed")

	details := fiber.Map{}
	if stage != "" {
		details["error_class"] = stage
	}
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Code:    code,
		Message: msg,
		Details: details,
	}, err)
}
