package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-service/internal/dto"
	"repair-service/internal/services"
	"repair-service/pkg/api"
	"repair-service/pkg/types"
)

type RequestController struct {
	requestService  services.RequestServiceInterface
	trackingService services.TrackingServiceInterface
	logger          *zap.Logger
}

func NewRequestController(
	requestService services.RequestServiceInterface,
	trackingService services.TrackingServiceInterface,
	logger *zap.Logger,
) *RequestController {
	return &RequestController{
		requestService:  requestService,
		trackingService: trackingService,
		logger:          logger,
	}
}

func (c *RequestController) SubmitRepair(ctx echo.Context) error {
	var data dto.CreateRepairRequestDTO
	if err := ctx.Bind(&data); err != nil {
		return api.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректный JSON в теле запроса"))
	}
	if err := ctx.Validate(&data); err != nil {
		return api.ErrorResponse(ctx, err)
	}

	res, err := c.requestService.SubmitRepair(ctx.Request().Context(), data)
	if err != nil {
		c.logger.Error("Ошибка оформления заявки на ремонт", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "Заявка на ремонт успешно оформлена", res)
}

func (c *RequestController) SubmitBuyback(ctx echo.Context) error {
	var data dto.CreateBuybackRequestDTO
	if err := ctx.Bind(&data); err != nil {
		return api.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректный JSON в теле запроса"))
	}
	if err := ctx.Validate(&data); err != nil {
		return api.ErrorResponse(ctx, err)
	}

	res, err := c.requestService.SubmitBuyback(ctx.Request().Context(), data)
	if err != nil {
		c.logger.Error("Ошибка оформления заявки на выкуп", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "Предложение о выкупе сформировано", res)
}

func (c *RequestController) Track(ctx echo.Context) error {
	code := ctx.Param("code")
	if code == "" {
		return api.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "трек-код не указан"))
	}

	res, err := c.trackingService.Track(ctx.Request().Context(), code)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Заявка найдена", res)
}

func (c *RequestController) GetRequests(ctx echo.Context) error {
	filter := parseFilter(ctx)

	list, total, err := c.requestService.GetRequests(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("Ошибка при получении списка заявок из сервиса", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessList(ctx, "Заявки успешно получены", list, total)
}

func (c *RequestController) ChangeStatus(ctx echo.Context) error {
	code := ctx.Param("code")
	var data dto.ChangeStatusDTO
	if err := ctx.Bind(&data); err != nil {
		return api.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректный JSON в теле запроса"))
	}
	if err := ctx.Validate(&data); err != nil {
		return api.ErrorResponse(ctx, err)
	}

	if err := c.requestService.ChangeStatus(ctx.Request().Context(), code, data); err != nil {
		c.logger.Error("Ошибка смены статуса заявки", zap.String("trackingCode", code), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Статус заявки обновлен", struct{}{})
}

func parseFilter(ctx echo.Context) types.Filter {
	filter := types.Filter{
		Search: ctx.QueryParam("search"),
		Filter: map[string]interface{}{},
	}
	if kind := ctx.QueryParam("kind"); kind != "" {
		filter.Filter["kind"] = kind
	}
	if status := ctx.QueryParam("status"); status != "" {
		filter.Filter["status"] = status
	}
	if limit, err := strconv.ParseUint(ctx.QueryParam("limit"), 10, 64); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.ParseUint(ctx.QueryParam("offset"), 10, 64); err == nil {
		filter.Offset = offset
	}
	return filter
}
