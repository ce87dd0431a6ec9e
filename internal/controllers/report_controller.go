package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"repair-service/internal/dto"
	"repair-service/internal/services"
	"repair-service/pkg/api"
)

var reportHeaders = []interface{}{
	"Трек-код", "Тип", "Бренд", "Модель", "Статус", "Оценка", "Клиент", "Создана",
}

type ReportController struct {
	requestService services.RequestServiceInterface
	logger         *zap.Logger
}

func NewReportController(requestService services.RequestServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{requestService: requestService, logger: logger}
}

// ExportRequests выгружает заявки в XLSX по тем же фильтрам, что и список.
func (c *ReportController) ExportRequests(ctx echo.Context) error {
	filter := parseFilter(ctx)
	if filter.Limit == 0 {
		filter.Limit = 1000
	}

	list, _, err := c.requestService.GetRequests(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("Ошибка получения данных для выгрузки", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return c.respondWithXLSX(ctx, list)
}

func rowToSlice(item dto.RequestListItemDTO) []interface{} {
	return []interface{}{
		item.TrackingCode, item.Kind, item.Brand, item.Model,
		item.Status, item.EstimatedValue, item.CustomerName, item.CreatedAt,
	}
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, data []dto.RequestListItemDTO) error {
	f := excelize.NewFile()
	sheet := "Заявки"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &reportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "H1", style)

	for i, item := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := rowToSlice(item)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "C", "D", 20)
	f.SetColWidth(sheet, "G", "G", 25)

	fileName := fmt.Sprintf("requests_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
