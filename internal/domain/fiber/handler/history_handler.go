package handler

import (
	"context"
	"errors"

	"github.com/fadilmartias/resume-analyzer/internal/dto"
	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/fadilmartias/resume-analyzer/internal/repository"
	"github.com/fadilmartias/resume-analyzer/internal/response"
	"github.com/fadilmartias/resume-analyzer/internal/usecase"
	"github.com/fadilmartias/resume-analyzer/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type History interface {
	Get(ctx context.Context, id string) (*model.AnalysisRecord, error)
	List(ctx context.Context, page, pageSize int) (*usecase.HistoryPage, error)
	Similar(ctx context.Context, id string, k int) ([]model.AnalysisRecord, error)
}

type HistoryHandler struct {
	uc History
}

func NewHistoryHandler(uc History) *HistoryHandler {
	return &HistoryHandler{uc: uc}
}

func (h *HistoryHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/analyses", h.List)
	app.Get("/analyses/:id", h.Get)
	app.Get("/analyses/:id/similar", h.Similar)
}

func (h *HistoryHandler) List(c *fiber.Ctx) error {
	page, err := h.uc.List(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("page_size", usecase.DefaultPageSize))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list analyses",
		}, err)
	}

	data, err := dto.NewAnalysisRecordDTOs(page.Records)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to decode analyses",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get analyses",
		Data:       data,
		Pagination: response.NewPagination(page.Page, page.PageSize, page.Total, len(data)),
	})
}

func (h *HistoryHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}

	record, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return historyError(c, err)
	}

	data, err := dto.NewAnalysisRecordDTO(record)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to decode analysis",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get analysis",
		Data:    data,
	})
}

func (h *HistoryHandler) Similar(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}

	records, err := h.uc.Similar(c.UserContext(), id, c.QueryInt("k", usecase.DefaultSimilarTop))
	if err != nil {
		return historyError(c, err)
	}

	data, err := dto.NewAnalysisRecordDTOs(records)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to decode analyses",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get similar analyses",
		Data:    data,
	})
}

func parseID(c *fiber.Ctx) (string, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func invalidID(c *fiber.Ctx) error {
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Code:    fiber.StatusBadRequest,
		Message: "invalid analysis id",
	})
}

func historyError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repository.ErrRecordNotFound):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "analysis not found",
		})
	case errors.Is(err, usecase.ErrNoEmbedding):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusConflict,
			Message: "analysis has no embedding, enable HISTORY_EMBEDDINGS to use similarity search",
		})
	}
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Message: "failed to get analysis",
	}, err)
}
