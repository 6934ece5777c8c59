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

type BallotService interface {
	SubmitBallot(ctx context.Context, voterID, compoID uint, points map[uint]float64) (domain.VoteGroup, error)
}

type BallotHandler struct {
	svc  BallotService
	uSvc UserService
}

func NewBallotHandler(svc BallotService, uSvc UserService) *BallotHandler {
	return &BallotHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleSubmitBallot godoc
// @Summary      Submit a ballot for a compo
// @Description  Replaces the caller's previous ballot for the compo, if any. Requires a vote code for the compo's event and an open voting window.
// @Tags         compos,votes
// @Accept       json
// @Produce      json
// @Param        compoID  path      int                         true  "Compo ID"
// @Param        request  body      request.SubmitBallotRequest true  "request body"
// @Success      200  {object}  domain.VoteGroup
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /compos/{compoID}/votes [post]
// @Security     BearerAuth
func (h *BallotHandler) HandleSubmitBallot(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	compoID, respErr := parseUintParam(ctx, "compoID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.SubmitBallotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	group, err := h.svc.SubmitBallot(ctx.Request.Context(), user.ID, compoID, req.PointsByEntry())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCompoNotFound):
			response.RenderErr(ctx, response.ErrNotFound("compo", "ID", compoID))
		case errors.Is(err, service.ErrNotEligible):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrVotingClosed),
			errors.Is(err, service.ErrUnknownEntry),
			errors.Is(err, service.ErrEntryDisqualified):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleSubmitBallot -> h.svc.SubmitBallot -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, group)
}
