package http

import (
	"errors"
	"market-sentiment/internal/dto"
	"market-sentiment/internal/service"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupSentiment(base *echo.Group) {
	base.GET("/sentimentMovers", h.SentimentMovers)
	base.GET("/sentiment/:id", h.Sentiment)
}

func (h *HttpAPIHandler) SentimentMovers(c echo.Context) error {
	var query dto.SentimentMoversQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid query parameters"))
	}
	if err := h.validator.Struct(&query); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error()))
	}

	movers, err := h.service.SentimentService.SentimentMovers(c.Request().Context(), query.Limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(err.Error()))
	}
	return c.JSON(http.StatusOK, movers)
}

func (h *HttpAPIHandler) Sentiment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid news id"))
	}

	sentiment, err := h.service.SentimentService.SentimentForNews(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, dto.NewErrorResponse("news not found"))
		}
		return c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(err.Error()))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data": dto.SentimentResponse{Sentiment: string(sentiment)},
	})
}
