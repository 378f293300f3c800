package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/CLDWare/methods-lab/config"
	"github.com/CLDWare/methods-lab/internal/i18n"
	"github.com/CLDWare/methods-lab/internal/store"
	"github.com/CLDWare/methods-lab/internal/views"
	models "github.com/CLDWare/methods-lab/pkg/db"
	"github.com/MonkyMars/gecho"
)

// ViewHandler serves the rendered state of the presenter, projector and
// student screens
type ViewHandler struct {
	config *config.Config
	store  *store.Store
}

// NewViewHandler creates a new ViewHandler
func NewViewHandler(cfg *config.Config, st *store.Store) *ViewHandler {
	return &ViewHandler{
		config: cfg,
		store:  st,
	}
}

type LandingResponse struct {
	Name      string `json:"name" example:"methods-lab"`
	Title     string `json:"title" example:"Methods Lab"`
	Presenter string `json:"presenter" example:"/presenter"`
	Projector string `json:"projector" example:"/projector"`
	SessionID string `json:"session_id,omitempty"`
}

type BoardResponse struct {
	Title       string      `json:"title"`
	PhaseTitle  string      `json:"phase_title,omitempty"`
	StatusLabel string      `json:"status_label,omitempty"`
	Message     string      `json:"message"`
	Answers     string      `json:"answers,omitempty"`
	Board       views.Board `json:"board"`
}

type StudentViewResponse struct {
	Title      string            `json:"title"`
	PhaseTitle string            `json:"phase_title"`
	Message    string            `json:"message,omitempty"`
	Submitted  bool              `json:"submitted"`
	Closed     bool              `json:"closed"`
	Outcomes   []string          `json:"outcomes,omitempty"`
	Session    models.Session    `json:"session"`
	Group      *views.GroupBoard `json:"group"`
}

// GetLanding
//
// @Summary		Landing page
// @Description	App name, links to the presenter and projector boards and the current session id
// @Tags			views
// @Produce		json
// @Success		200	{object}	apiResponses.BaseResponse{data=LandingResponse}
// @Router			/ [get]
func (h *ViewHandler) GetLanding(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodGet); err != nil {
		err.Send()
		return
	}

	ctx := r.Context()
	landing := LandingResponse{
		Name:      h.config.App.Name,
		Title:     i18n.T(ctx, "AppTitle"),
		Presenter: "/presenter",
		Projector: "/projector",
	}
	session, err := h.store.CurrentSession(ctx)
	if err != nil {
		sendStoreError(w, err)
		return
	}
	if session != nil {
		landing.SessionID = session.ID
	}
	gecho.Success(w).WithData(landing).Send()
}

func (h *ViewHandler) board(ctx context.Context, role views.Role) (BoardResponse, error) {
	resp := BoardResponse{Title: i18n.T(ctx, "AppTitle")}
	session, err := h.store.CurrentSession(ctx)
	if err != nil {
		return resp, err
	}
	in := views.BoardInput{Role: role, Session: session, Now: time.Now(), JoinURL: h.config.JoinURL}
	if session == nil {
		resp.Board = views.Build(in)
		resp.Message = i18n.T(ctx, "NoSession")
		return resp, nil
	}
	if in.Groups, err = h.store.Groups(ctx, session.ID); err != nil {
		return resp, err
	}
	if in.Submissions, err = h.store.Submissions(ctx, session.ID); err != nil {
		return resp, err
	}

	resp.Board = views.Build(in)
	resp.PhaseTitle = i18n.PhaseTitle(ctx, session.CurrentPhase)
	resp.StatusLabel = i18n.StatusLabel(ctx, session.Status)
	resp.Answers = i18n.Tp(ctx, "AnswersReceived", resp.Board.Total)
	if resp.Board.RemainingSeconds > 0 {
		resp.Message = i18n.Td(ctx, "TimeLeft", map[string]any{"Clock": resp.Board.Clock})
	} else {
		resp.Message = i18n.T(ctx, "TimeUp")
	}
	return resp, nil
}

// GetPresenter
//
// @Summary		Presenter board
// @Description	Current session with join links, every tally and the correct answers
// @Tags			views requiresAuth
// @Produce		json
// @Success		200	{object}	apiResponses.BaseResponse{data=BoardResponse}
// @Failure		401	{object}	apiResponses.UnauthorizedError
// @Router			/presenter [get]
func (h *ViewHandler) GetPresenter(w http.ResponseWriter, r *http.Request) {
	h.sendBoard(w, r, views.Presenter)
}

// GetProjector
//
// @Summary		Projector board
// @Description	Current session as shown on the classroom screen. What is visible depends on the phase.
// @Tags			views
// @Produce		json
// @Success		200	{object}	apiResponses.BaseResponse{data=BoardResponse}
// @Router			/projector [get]
func (h *ViewHandler) GetProjector(w http.ResponseWriter, r *http.Request) {
	h.sendBoard(w, r, views.Projector)
}

func (h *ViewHandler) sendBoard(w http.ResponseWriter, r *http.Request, role views.Role) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodGet); err != nil {
		err.Send()
		return
	}

	resp, err := h.board(r.Context(), role)
	if err != nil {
		sendStoreError(w, err)
		return
	}
	gecho.Success(w).WithData(resp).Send()
}

// GetStudent
//
// @Summary		Student view of a group
// @Description	The group scenario, the timer and whether this device already answered
// @Tags			views
// @Produce		json
// @Param			id		path		string	true	"Group ID"
// @Param			device	query		string	false	"Device hash of the student"
// @Success		200	{object}	apiResponses.BaseResponse{data=StudentViewResponse}
// @Failure		404	{object}	apiResponses.NotFoundError
// @Router			/group/{id} [get]
func (h *ViewHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodGet); err != nil {
		err.Send()
		return
	}

	ctx := r.Context()
	gb, session, err := studentGroup(r, h.store, h.config, r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		gecho.NotFound(w).WithMessage(i18n.T(ctx, "GroupNotFound")).Send()
		return
	} else if err != nil {
		sendStoreError(w, err)
		return
	}

	resp := StudentViewResponse{
		PhaseTitle: i18n.PhaseTitle(ctx, session.CurrentPhase),
		Session:    *session,
		Group:      gb,
		Closed:     session.Status == models.StatusFinished,
	}
	if gb.Scenario != nil {
		resp.Title = i18n.Td(ctx, "GroupTitle", map[string]any{"Number": gb.Group.GroupNumber, "Title": gb.Scenario.Title})
		for _, c := range gb.Scenario.Cases {
			resp.Outcomes = append(resp.Outcomes, i18n.OutcomeLabel(ctx, gb.Scenario.Outcome, c.Outcome))
		}
	}

	if device := r.URL.Query().Get("device"); device != "" {
		resp.Submitted, err = h.store.HasSubmitted(ctx, gb.Group.ID, device)
		if err != nil {
			sendStoreError(w, err)
			return
		}
	}

	switch {
	case resp.Closed:
		resp.Message = i18n.T(ctx, "SessionEnded")
	case resp.Submitted:
		resp.Message = i18n.T(ctx, "AlreadySubmitted")
	case gb.Scenario != nil && gb.Scenario.CorrectAnswer != "":
		resp.Message = i18n.Td(ctx, "CorrectAnswer", map[string]any{"Answer": gb.Scenario.CorrectAnswer})
	default:
		resp.Message = i18n.T(ctx, "ChooseOption")
	}
	gecho.Success(w).WithData(resp).Send()
}
