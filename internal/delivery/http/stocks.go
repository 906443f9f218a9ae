package http

import (
	"market-sentiment/internal/dto"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupStocks(base *echo.Group) {
	base.GET("/topMovers", h.TopMovers)
	base.GET("/stocks", h.Stocks)
	base.GET("/stock-details", h.StockDetails)
}

func (h *HttpAPIHandler) TopMovers(c echo.Context) error {
	var query dto.TopMoversQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid query parameters"))
	}
	if err := h.validator.Struct(&query); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error()))
	}

	movers, err := h.service.StockService.TopMovers(c.Request().Context(), query.Limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(err.Error()))
	}
	return c.JSON(http.StatusOK, movers)
}

func (h *HttpAPIHandler) Stocks(c echo.Context) error {
	var query dto.StocksQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid query parameters"))
	}
	if err := h.validator.Struct(&query); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error()))
	}

	stocks, err := h.service.StockService.Stocks(c.Request().Context(), query.Limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(err.Error()))
	}
	return c.JSON(http.StatusOK, stocks)
}

func (h *HttpAPIHandler) StockDetails(c echo.Context) error {
	var query dto.StockDetailsQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid query parameters"))
	}
	if err := h.validator.Struct(&query); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewErrorResponse("ticker is required"))
	}

	details, err := h.service.StockService.StockDetails(c.Request().Context(), query.Ticker)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(err.Error()))
	}
	return c.JSON(http.StatusOK, details)
}
