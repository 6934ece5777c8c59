package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"partyvote/internal/api/handler/v1/request"
	"partyvote/internal/api/handler/v1/response"
	"partyvote/internal/domain"
	"partyvote/internal/service"
)

type MaintenanceService interface {
	OptimizeScores(ctx context.Context, eventID uint) (domain.MaintenanceResult, error)
	RemoveOldVotes(ctx context.Context, eventID uint) (domain.MaintenanceResult, error)
	TransferRights(ctx context.Context, eventID, fromTicketID, toTicketID uint) (domain.MaintenanceResult, error)
}

type MaintenanceHandler struct {
	svc  MaintenanceService
	uSvc UserService
}

func NewMaintenanceHandler(svc MaintenanceService, uSvc UserService) *MaintenanceHandler {
	return &MaintenanceHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleOptimizeScores godoc
// @Summary      Recompute all scores and ranks of an event
// @Description  Organizer only. Safe to run any number of times; failures are collected per entity.
// @Tags         maintenance
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200  {object}  domain.MaintenanceResult
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/maintenance/optimize-scores [post]
// @Security     BearerAuth
func (h *MaintenanceHandler) HandleOptimizeScores(ctx *gin.Context) {
	eventID, ok := h.authorize(ctx)
	if !ok {
		return
	}

	result, err := h.svc.OptimizeScores(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleOptimizeScores -> h.svc.OptimizeScores -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleRemoveOldVotes godoc
// @Summary      Delete the stored ballots of an archived event
// @Description  Organizer only. Computed scores and ranks are kept; only the individual votes go away.
// @Tags         maintenance
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200  {object}  domain.MaintenanceResult
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/maintenance/remove-old-votes [post]
// @Security     BearerAuth
func (h *MaintenanceHandler) HandleRemoveOldVotes(ctx *gin.Context) {
	eventID, ok := h.authorize(ctx)
	if !ok {
		return
	}

	result, err := h.svc.RemoveOldVotes(ctx.Request.Context(), eventID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrEventNotArchived):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleRemoveOldVotes -> h.svc.RemoveOldVotes -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleTransferRights godoc
// @Summary      Move a vote code's backing ticket to another ticket
// @Description  Organizer only. For re-issued tickets; the vote code and any ballots cast under it are untouched.
// @Tags         maintenance
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                           true  "Event ID"
// @Param        request  body      request.TransferRightsRequest true  "request body"
// @Success      200  {object}  domain.MaintenanceResult
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/maintenance/transfer-rights [post]
// @Security     BearerAuth
func (h *MaintenanceHandler) HandleTransferRights(ctx *gin.Context) {
	eventID, ok := h.authorize(ctx)
	if !ok {
		return
	}

	var req request.TransferRightsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.TransferRights(ctx.Request.Context(), eventID, req.FromTicketID, req.ToTicketID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrTicketNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ticket", "ID", req.FromTicketID))
		case errors.Is(err, service.ErrTicketNotBacking):
			response.RenderErr(ctx, response.ErrNotFound("vote code backed by ticket", "ID", req.FromTicketID))
		case errors.Is(err, service.ErrTicketMismatch):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrTicketAlreadyBacks):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleTransferRights -> h.svc.TransferRights -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// authorize resolves the caller, enforces the organizer role and parses the
// event ID shared by every maintenance route.
func (h *MaintenanceHandler) authorize(ctx *gin.Context) (uint, bool) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return 0, false
	}

	if !user.IsOrganizer() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an organizer", user.ID)))
		return 0, false
	}

	eventID, respErr := parseUintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return 0, false
	}

	return eventID, true
}
