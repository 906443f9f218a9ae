package http

import (
	"market-sentiment/internal/dto"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupNews(base *echo.Group) {
	base.GET("/news", h.News)
	base.GET("/newsBuzz", h.NewsBuzz)
}

func (h *HttpAPIHandler) News(c echo.Context) error {
	var query dto.NewsQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid query parameters"))
	}
	if err := h.validator.Struct(&query); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error()))
	}

	news, err := h.service.NewsService.GetNews(c.Request().Context(), query)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(err.Error()))
	}
	return c.JSON(http.StatusOK, news)
}

func (h *HttpAPIHandler) NewsBuzz(c echo.Context) error {
	var query dto.NewsBuzzQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid query parameters"))
	}
	if err := h.validator.Struct(&query); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error()))
	}

	buzz, err := h.service.NewsService.NewsBuzz(c.Request().Context(), query.Limit, query.TimePeriod)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(err.Error()))
	}
	return c.JSON(http.StatusOK, buzz)
}
