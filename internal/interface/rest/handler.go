package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/resonancehq/archetype-api/internal/domain"
	"github.com/resonancehq/archetype-api/internal/usecase"
)

// Pinger reports record-store availability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	quiz  *usecase.QuizUsecase
	store Pinger
}

func NewHandler(quiz *usecase.QuizUsecase, store Pinger) *Handler {
	return &Handler{
		quiz:  quiz,
		store: store,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/submissions", h.handleSubmit)
	e.GET("/api/v1/records/:id", h.handleGetRecord)
	e.POST("/api/v1/records/:id/enrich", h.handleTriggerEnrichment)
	e.PUT("/api/v1/records/:id/card", h.handleCaptureCard)
	e.GET("/health", h.handleHealth)
}

func (h *Handler) handleSubmit(c echo.Context) error {
	ctx := c.Request().Context()

	var sub domain.QuizSubmission
	if err := c.Bind(&sub); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	id, err := h.quiz.Submit(ctx, sub)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"recordId": id})
}

func (h *Handler) handleGetRecord(c echo.Context) error {
	ctx := c.Request().Context()

	record, err := h.quiz.GetRecord(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, record)
}

func (h *Handler) handleTriggerEnrichment(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		ProfileURL string `json:"profileUrl"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	record, err := h.quiz.TriggerEnrichment(ctx, c.Param("id"), req.ProfileURL)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, record)
}

func (h *Handler) handleCaptureCard(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		CardURL string `json:"cardUrl"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	record, err := h.quiz.CaptureCardAsset(ctx, c.Param("id"), req.CardURL)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, record)
}

func (h *Handler) handleHealth(c echo.Context) error {
	if err := h.store.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// writeError maps the domain error taxonomy onto status codes. Only
// validation and store failures can fail a request; everything else was
// already absorbed into record state by the layers below.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalid):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
}
