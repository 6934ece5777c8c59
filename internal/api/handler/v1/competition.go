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

type CompetitionService interface {
	CreateCompetition(ctx context.Context, competition domain.Competition) (domain.Competition, error)
	ListCompetitions(ctx context.Context, eventID uint, privileged bool) ([]domain.Competition, error)
	CreateParticipation(ctx context.Context, participation domain.CompetitionParticipation) (domain.CompetitionParticipation, error)
	ListParticipations(ctx context.Context, competitionID uint, privileged bool) ([]domain.CompetitionParticipation, error)
	SetScore(ctx context.Context, participationID uint, score float64) (domain.CompetitionParticipation, error)
}

type CompetitionHandler struct {
	svc  CompetitionService
	uSvc UserService
}

func NewCompetitionHandler(svc CompetitionService, uSvc UserService) *CompetitionHandler {
	return &CompetitionHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListCompetitions godoc
// @Summary      List an event's competitions visible to the caller
// @Tags         competitions
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200  {array}   domain.Competition
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/competitions [get]
// @Security     BearerAuth
func (h *CompetitionHandler) HandleListCompetitions(ctx *gin.Context) {
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

	competitions, err := h.svc.ListCompetitions(ctx.Request.Context(), eventID, user.IsOrganizer())
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleListCompetitions -> h.svc.ListCompetitions -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, competitions)
}

// HandleCreateCompetition godoc
// @Summary      Create a competition for an event
// @Description  Organizer only.
// @Tags         competitions
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                              true  "Event ID"
// @Param        request  body      request.CreateCompetitionRequest true  "request body"
// @Success      201  {object}  domain.Competition
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/competitions [post]
// @Security     BearerAuth
func (h *CompetitionHandler) HandleCreateCompetition(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsOrganizer() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an organizer", user.ID)))
		return
	}

	eventID, respErr := parseUintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateCompetitionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	competition, err := h.svc.CreateCompetition(ctx.Request.Context(), domain.Competition{
		EventID:          eventID,
		Name:             req.Name,
		ParticipationEnd: req.ParticipationEnd,
		Start:            req.Start,
		End:              req.End,
		ScoreType:        req.ScoreType,
		ScoreSort:        req.ScoreSort,
		ShowResults:      req.ShowResults,
		Active:           req.Active,
		HideFromArchive:  req.HideFromArchive,
	})
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleCreateCompetition -> h.svc.CreateCompetition -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, competition)
}

// HandleListParticipations godoc
// @Summary      List a competition's participations
// @Description  Scores and ranks are redacted until results are published, unless the caller is an organizer.
// @Tags         competitions
// @Produce      json
// @Param        competitionID  path      int  true  "Competition ID"
// @Success      200  {array}   domain.CompetitionParticipation
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /competitions/{competitionID}/participations [get]
// @Security     BearerAuth
func (h *CompetitionHandler) HandleListParticipations(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	competitionID, respErr := parseUintParam(ctx, "competitionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	participations, err := h.svc.ListParticipations(ctx.Request.Context(), competitionID, user.IsOrganizer())
	if err != nil {
		if errors.Is(err, service.ErrCompetitionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("competition", "ID", competitionID))
			return
		}

		err = fmt.Errorf("v1.HandleListParticipations -> h.svc.ListParticipations -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, participations)
}

// HandleCreateParticipation godoc
// @Summary      Register a participant in a competition
// @Description  Organizer only.
// @Tags         competitions
// @Accept       json
// @Produce      json
// @Param        competitionID  path      int                                true  "Competition ID"
// @Param        request        body      request.CreateParticipationRequest true  "request body"
// @Success      201  {object}  domain.CompetitionParticipation
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /competitions/{competitionID}/participations [post]
// @Security     BearerAuth
func (h *CompetitionHandler) HandleCreateParticipation(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsOrganizer() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an organizer", user.ID)))
		return
	}

	competitionID, respErr := parseUintParam(ctx, "competitionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateParticipationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	participation, err := h.svc.CreateParticipation(ctx.Request.Context(), domain.CompetitionParticipation{
		CompetitionID: competitionID,
		UserID:        req.UserID,
	})
	if err != nil {
		if errors.Is(err, service.ErrCompetitionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("competition", "ID", competitionID))
			return
		}
		if errors.Is(err, service.ErrParticipationClosed) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateParticipation -> h.svc.CreateParticipation -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, participation)
}

// HandleSetScore godoc
// @Summary      Set a participant's score
// @Description  Organizer only. Latest write wins; ranks are rebuilt right away.
// @Tags         competitions
// @Accept       json
// @Produce      json
// @Param        competitionID    path      int                     true  "Competition ID"
// @Param        participationID  path      int                     true  "Participation ID"
// @Param        request          body      request.SetScoreRequest true  "request body"
// @Success      200  {object}  domain.CompetitionParticipation
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /competitions/{competitionID}/participations/{participationID}/score [put]
// @Security     BearerAuth
func (h *CompetitionHandler) HandleSetScore(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsOrganizer() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an organizer", user.ID)))
		return
	}

	participationID, respErr := parseUintParam(ctx, "participationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.SetScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	participation, err := h.svc.SetScore(ctx.Request.Context(), participationID, *req.Score)
	if err != nil {
		if errors.Is(err, service.ErrParticipationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("participation", "ID", participationID))
			return
		}

		err = fmt.Errorf("v1.HandleSetScore -> h.svc.SetScore -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, participation)
}
