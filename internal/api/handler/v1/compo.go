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

type CompoService interface {
	CreateCompo(ctx context.Context, compo domain.Compo) (domain.Compo, error)
	ListCompos(ctx context.Context, eventID uint, privileged bool) ([]domain.Compo, error)
	CreateEntry(ctx context.Context, entry domain.CompoEntry) (domain.CompoEntry, error)
	ListEntries(ctx context.Context, compoID uint, privileged bool) ([]domain.CompoEntry, error)
	DisqualifyEntry(ctx context.Context, entryID uint, reason string) (domain.CompoEntry, error)
}

type CompoHandler struct {
	svc  CompoService
	uSvc UserService
}

func NewCompoHandler(svc CompoService, uSvc UserService) *CompoHandler {
	return &CompoHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListCompos godoc
// @Summary      List an event's compos visible to the caller
// @Tags         compos
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200  {array}   domain.Compo
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/compos [get]
// @Security     BearerAuth
func (h *CompoHandler) HandleListCompos(ctx *gin.Context) {
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

	compos, err := h.svc.ListCompos(ctx.Request.Context(), eventID, user.IsOrganizer())
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleListCompos -> h.svc.ListCompos -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, compos)
}

// HandleCreateCompo godoc
// @Summary      Create a compo for an event
// @Description  Organizer only.
// @Tags         compos
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                        true  "Event ID"
// @Param        request  body      request.CreateCompoRequest true  "request body"
// @Success      201  {object}  domain.Compo
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/compos [post]
// @Security     BearerAuth
func (h *CompoHandler) HandleCreateCompo(ctx *gin.Context) {
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

	var req request.CreateCompoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	compo, err := h.svc.CreateCompo(ctx.Request.Context(), domain.Compo{
		EventID:           eventID,
		Name:              req.Name,
		EditingEnd:        req.EditingEnd,
		VotingStart:       req.VotingStart,
		VotingEnd:         req.VotingEnd,
		ShowVotingResults: req.ShowVotingResults,
		Active:            req.Active,
		ScoreSort:         req.ScoreSort,
		Aggregation:       req.Aggregation,
	})
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleCreateCompo -> h.svc.CreateCompo -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, compo)
}

// HandleListEntries godoc
// @Summary      List a compo's entries
// @Description  Scores and ranks are redacted until results are published, unless the caller is an organizer.
// @Tags         compos,entries
// @Produce      json
// @Param        compoID  path      int  true  "Compo ID"
// @Success      200  {array}   domain.CompoEntry
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /compos/{compoID}/entries [get]
// @Security     BearerAuth
func (h *CompoHandler) HandleListEntries(ctx *gin.Context) {
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

	entries, err := h.svc.ListEntries(ctx.Request.Context(), compoID, user.IsOrganizer())
	if err != nil {
		if errors.Is(err, service.ErrCompoNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("compo", "ID", compoID))
			return
		}

		err = fmt.Errorf("v1.HandleListEntries -> h.svc.ListEntries -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, entries)
}

// HandleCreateEntry godoc
// @Summary      Submit an entry to a compo
// @Tags         compos,entries
// @Accept       json
// @Produce      json
// @Param        compoID  path      int                        true  "Compo ID"
// @Param        request  body      request.CreateEntryRequest true  "request body"
// @Success      201  {object}  domain.CompoEntry
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /compos/{compoID}/entries [post]
// @Security     BearerAuth
func (h *CompoHandler) HandleCreateEntry(ctx *gin.Context) {
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

	var req request.CreateEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	entry, err := h.svc.CreateEntry(ctx.Request.Context(), domain.CompoEntry{
		CompoID: compoID,
		UserID:  user.ID,
		Title:   req.Title,
	})
	if err != nil {
		if errors.Is(err, service.ErrCompoNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("compo", "ID", compoID))
			return
		}
		if errors.Is(err, service.ErrEditingClosed) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateEntry -> h.svc.CreateEntry -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, entry)
}

// HandleDisqualifyEntry godoc
// @Summary      Disqualify an entry
// @Description  Organizer only. The entry keeps its frozen score but loses its rank; the compo is recomputed immediately.
// @Tags         compos,entries
// @Accept       json
// @Produce      json
// @Param        entryID  path      int                            true  "Entry ID"
// @Param        request  body      request.DisqualifyEntryRequest true  "request body"
// @Success      200  {object}  domain.CompoEntry
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /entries/{entryID}/disqualify [post]
// @Security     BearerAuth
func (h *CompoHandler) HandleDisqualifyEntry(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsOrganizer() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an organizer", user.ID)))
		return
	}

	entryID, respErr := parseUintParam(ctx, "entryID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.DisqualifyEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	entry, err := h.svc.DisqualifyEntry(ctx.Request.Context(), entryID, req.Reason)
	if err != nil {
		if errors.Is(err, service.ErrEntryNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("entry", "ID", entryID))
			return
		}

		err = fmt.Errorf("v1.HandleDisqualifyEntry -> h.svc.DisqualifyEntry -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, entry)
}
