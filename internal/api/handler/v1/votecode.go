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

type VoteCodeService interface {
	IssueOrGet(ctx context.Context, eventID, userID uint) (domain.VoteCode, error)
	RequestCode(ctx context.Context, eventID, userID uint, reason string) (domain.VoteCodeRequest, error)
	ApproveRequest(ctx context.Context, requestID uint) (domain.VoteCodeRequest, error)
	RejectRequest(ctx context.Context, requestID uint) (domain.VoteCodeRequest, error)
}

type VoteCodeHandler struct {
	svc  VoteCodeService
	uSvc UserService
}

func NewVoteCodeHandler(svc VoteCodeService, uSvc UserService) *VoteCodeHandler {
	return &VoteCodeHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleIssueVoteCode godoc
// @Summary      Issue or return the caller's vote code for an event
// @Description  At most one code per user per event; repeated calls return the same code.
// @Tags         vote-codes
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200  {object}  domain.VoteCode
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/vote-code [post]
// @Security     BearerAuth
func (h *VoteCodeHandler) HandleIssueVoteCode(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseUintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	code, err := h.svc.IssueOrGet(ctx.Request.Context(), eventID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrNotEligible):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleIssueVoteCode -> h.svc.IssueOrGet -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, code)
}

// HandleRequestVoteCode godoc
// @Summary      Request a vote code without a ticket
// @Description  Opens a request for organizer review. A rejected request may be re-submitted; a pending or approved one is a conflict.
// @Tags         vote-codes
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                            true  "Event ID"
// @Param        request  body      request.RequestVoteCodeRequest true  "request body"
// @Success      201  {object}  domain.VoteCodeRequest
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/vote-code-requests [post]
// @Security     BearerAuth
func (h *VoteCodeHandler) HandleRequestVoteCode(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseUintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RequestVoteCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.RequestCode(ctx.Request.Context(), eventID, user.ID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrDuplicateRequest):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleRequestVoteCode -> h.svc.RequestCode -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleApproveRequest godoc
// @Summary      Approve a vote code request
// @Description  Organizer only. Issues the vote code and notifies the requester. Approving twice is a no-op.
// @Tags         vote-codes
// @Produce      json
// @Param        requestID  path      int  true  "Request ID"
// @Success      200  {object}  domain.VoteCodeRequest
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /vote-code-requests/{requestID}/approve [post]
// @Security     BearerAuth
func (h *VoteCodeHandler) HandleApproveRequest(ctx *gin.Context) {
	h.decideRequest(ctx, "v1.HandleApproveRequest", h.svc.ApproveRequest)
}

// HandleRejectRequest godoc
// @Summary      Reject a vote code request
// @Description  Organizer only. No code is issued. Rejecting an approved request is refused.
// @Tags         vote-codes
// @Produce      json
// @Param        requestID  path      int  true  "Request ID"
// @Success      200  {object}  domain.VoteCodeRequest
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /vote-code-requests/{requestID}/reject [post]
// @Security     BearerAuth
func (h *VoteCodeHandler) HandleRejectRequest(ctx *gin.Context) {
	h.decideRequest(ctx, "v1.HandleRejectRequest", h.svc.RejectRequest)
}

func (h *VoteCodeHandler) decideRequest(ctx *gin.Context, op string, decide func(context.Context, uint) (domain.VoteCodeRequest, error)) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsOrganizer() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an organizer", user.ID)))
		return
	}

	requestID, respErr := parseUintParam(ctx, "requestID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	decided, err := decide(ctx.Request.Context(), requestID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			response.RenderErr(ctx, response.ErrNotFound("vote code request", "ID", requestID))
		case errors.Is(err, service.ErrRequestClosed):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("%v -> %w", op, err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, decided)
}
