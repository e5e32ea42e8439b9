package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octobees/leads-generator/collector/internal/dto"
	"github.com/octobees/leads-generator/collector/internal/middleware"
	"github.com/octobees/leads-generator/collector/internal/service"
)

// CollectHandler starts collection runs and reports their progress.
type CollectHandler struct {
	service *service.CollectService
	logger  *zap.Logger
}

// NewCollectHandler constructs a CollectHandler.
func NewCollectHandler(svc *service.CollectService, logger *zap.Logger) *CollectHandler {
	if logger == nil {
		logger = zap.L()
	}
	return &CollectHandler{service: svc, logger: logger}
}

// Trigger handles POST /collect requests.
func (h *CollectHandler) Trigger(c echo.Context) error {
	var req dto.CollectRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	run, err := h.service.Trigger(c.Request().Context(), req.Query)
	if err != nil {
		if errors.Is(err, service.ErrRunInProgress) {
			return Error(c, http.StatusConflict, err.Error())
		}
		return Error(c, http.StatusInternalServerError, "unable to start collection")
	}

	h.logger.Info("collection triggered",
		zap.String("run_id", run.ID.String()),
		zap.String("operator", middleware.OperatorFromContext(c)),
		zap.String("request_id", middleware.RequestIDFromContext(c)))

	c.Response().Header().Set(echo.HeaderLocation, "/collect/runs/"+run.ID.String())
	return Success(c, http.StatusAccepted, "collection started", toRunResponse(run))
}

// Status handles GET /collect/runs/:id requests.
func (h *CollectHandler) Status(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid run id")
	}

	run, err := h.service.Status(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			return Error(c, http.StatusNotFound, "run not found")
		}
		return Error(c, http.StatusInternalServerError, "unable to load run")
	}
	return Success(c, http.StatusOK, "run retrieved", toRunResponse(run))
}

func toRunResponse(run service.Run) dto.RunResponse {
	resp := dto.RunResponse{
		ID:         run.ID.String(),
		Status:     string(run.Status),
		Query:      run.Query,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Error:      run.Err,
	}
	if run.Stats != nil {
		resp.Stats = &dto.RunStats{
			Outcome:    string(run.Stats.Outcome),
			Pages:      run.Stats.Pages,
			Discovered: run.Stats.Discovered,
			Emitted:    run.Stats.Emitted,
			Dropped:    run.Stats.Dropped,
		}
	}
	return resp
}
