package handlers

import (
	"net/http"
	"time"

	"github.com/CLDWare/methods-lab/config"
	"github.com/CLDWare/methods-lab/internal/phase"
	"github.com/CLDWare/methods-lab/internal/store"
	models "github.com/CLDWare/methods-lab/pkg/db"
	"github.com/MonkyMars/gecho"
)

// SessionHandler handles requests about sessions
type SessionHandler struct {
	config *config.Config
	store  *store.Store
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(cfg *config.Config, st *store.Store) *SessionHandler {
	return &SessionHandler{
		config: cfg,
		store:  st,
	}
}

type PostSessionBody struct {
	DurationMinutes *float64 `json:"duration_minutes" example:"5"`
	StudentCount    int      `json:"student_count" example:"24"`
}

type SessionWithGroups struct {
	Session models.Session `json:"session"`
	Groups  []models.Group `json:"groups"`
}

type CurrentSessionResponse struct {
	Session *models.Session `json:"session"`
}

// PostSession
//
// @Summary		Start a session
// @Description	Create a waiting session in the intro phase with one group per method
// @Tags			session requiresAuth
// @Accept			json
// @Produce		json
// @Param			body	body		PostSessionBody	true	"Session options"
// @Success		201	{object}	apiResponses.BaseResponse{data=SessionWithGroups}
// @Failure		400	{object}	apiResponses.BadRequestError
// @Failure		500	{object}	apiResponses.InternalServerError
// @Router			/api/session [post]
func (h *SessionHandler) PostSession(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodPost); err != nil {
		err.Send() // Automatically sends 405 Method Not Allowed
		return
	}

	var body PostSessionBody
	if !decodeBody(w, r, &body) {
		return
	}
	if body.DurationMinutes == nil {
		gecho.BadRequest(w).WithMessage("Missing field 'duration_minutes'").Send()
		return
	}
	if *body.DurationMinutes < 0 || body.StudentCount < 0 {
		gecho.BadRequest(w).WithMessage("'duration_minutes' and 'student_count' must not be negative").Send()
		return
	}

	session, groups, err := h.store.CreateSession(r.Context(), store.SessionOptions{
		Duration:     time.Duration(*body.DurationMinutes * float64(time.Minute)),
		StudentCount: body.StudentCount,
	})
	if err != nil {
		sendStoreError(w, err)
		return
	}

	gecho.Created(w).WithData(SessionWithGroups{Session: *session, Groups: groups}).Send()
}

// GetCurrentSession
//
// @Summary		Get the current session
// @Description	Newest session that is not finished, or null
// @Tags			session
// @Produce		json
// @Success		200	{object}	apiResponses.BaseResponse{data=CurrentSessionResponse}
// @Failure		500	{object}	apiResponses.InternalServerError
// @Router			/api/session/current [get]
func (h *SessionHandler) GetCurrentSession(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodGet); err != nil {
		err.Send()
		return
	}

	session, err := h.store.CurrentSession(r.Context())
	if err != nil {
		sendStoreError(w, err)
		return
	}
	gecho.Success(w).WithData(CurrentSessionResponse{Session: session}).Send()
}

// GetLatestSession
//
// @Summary		Get the latest session
// @Description	Newest session in any status
// @Tags			session
// @Produce		json
// @Success		200	{object}	apiResponses.BaseResponse{data=models.Session}
// @Failure		404	{object}	apiResponses.NotFoundError
// @Router			/api/session/latest [get]
func (h *SessionHandler) GetLatestSession(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodGet); err != nil {
		err.Send()
		return
	}

	session, err := h.store.LatestSession(r.Context())
	if err != nil {
		sendStoreError(w, err)
		return
	}
	if session == nil {
		gecho.NotFound(w).WithMessage("No sessions yet").Send()
		return
	}
	gecho.Success(w).WithData(session).Send()
}

// GetSession
//
// @Summary		Get a session by id
// @Tags			session
// @Produce		json
// @Param			id	path		string	true	"Session ID"
// @Success		200	{object}	apiResponses.BaseResponse{data=models.Session}
// @Failure		404	{object}	apiResponses.NotFoundError
// @Router			/api/session/{id} [get]
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodGet); err != nil {
		err.Send()
		return
	}

	session, err := h.store.Session(r.Context(), r.PathValue("id"))
	if err != nil {
		sendStoreError(w, err)
		return
	}
	gecho.Success(w).WithData(session).Send()
}

type PostPhaseBody struct {
	Phase string `json:"phase" example:"work"`
}

// PostSessionPhase
//
// @Summary		Move a session to a phase
// @Description	Any phase may follow any phase, the last write wins
// @Tags			session requiresAuth
// @Accept			json
// @Produce		json
// @Param			id		path		string			true	"Session ID"
// @Param			body	body		PostPhaseBody	true	"New phase"
// @Success		200	{object}	apiResponses.BaseResponse{data=models.Session}
// @Failure		400	{object}	apiResponses.BadRequestError
// @Failure		404	{object}	apiResponses.NotFoundError
// @Router			/api/session/{id}/phase [post]
func (h *SessionHandler) PostSessionPhase(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodPost); err != nil {
		err.Send()
		return
	}

	var body PostPhaseBody
	if !decodeBody(w, r, &body) {
		return
	}
	p, err := phase.Parse(body.Phase)
	if err != nil {
		sendStoreError(w, err)
		return
	}

	session, err := h.store.UpdatePhase(r.Context(), r.PathValue("id"), p)
	if err != nil {
		sendStoreError(w, err)
		return
	}
	gecho.Success(w).WithData(session).Send()
}

type PostStatusBody struct {
	Status string `json:"status" example:"paused"`
}

// PostSessionStatus
//
// @Summary		Pause or resume a session
// @Description	Sets waiting, active or paused. Use /end to finish a session.
// @Tags			session requiresAuth
// @Accept			json
// @Produce		json
// @Param			id		path		string			true	"Session ID"
// @Param			body	body		PostStatusBody	true	"New status"
// @Success		200	{object}	apiResponses.BaseResponse{data=models.Session}
// @Failure		400	{object}	apiResponses.BadRequestError
// @Failure		404	{object}	apiResponses.NotFoundError
// @Failure		409	{object}	apiResponses.ConflictError
// @Router			/api/session/{id}/status [post]
func (h *SessionHandler) PostSessionStatus(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodPost); err != nil {
		err.Send()
		return
	}

	var body PostStatusBody
	if !decodeBody(w, r, &body) {
		return
	}
	status, err := phase.ParseStatus(body.Status)
	if err != nil {
		sendStoreError(w, err)
		return
	}

	session, err := h.store.SetStatus(r.Context(), r.PathValue("id"), status)
	if err != nil {
		sendStoreError(w, err)
		return
	}
	gecho.Success(w).WithData(session).Send()
}

// PostSessionActivate
//
// @Summary		Start the timer of a waiting session
// @Description	Moves a waiting session to active. Other statuses are left alone.
// @Tags			session requiresAuth
// @Produce		json
// @Param			id	path		string	true	"Session ID"
// @Success		200	{object}	apiResponses.BaseResponse{data=models.Session}
// @Failure		404	{object}	apiResponses.NotFoundError
// @Router			/api/session/{id}/activate [post]
func (h *SessionHandler) PostSessionActivate(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodPost); err != nil {
		err.Send()
		return
	}

	ctx := r.Context()
	id := r.PathValue("id")
	if err := h.store.ActivateSession(ctx, id); err != nil {
		sendStoreError(w, err)
		return
	}
	session, err := h.store.Session(ctx, id)
	if err != nil {
		sendStoreError(w, err)
		return
	}
	gecho.Success(w).WithData(session).Send()
}

// PostSessionEnd
//
// @Summary		End a session
// @Description	Marks the session finished. Ending a finished session changes nothing.
// @Tags			session requiresAuth
// @Produce		json
// @Param			id	path		string	true	"Session ID"
// @Success		200	{object}	apiResponses.BaseResponse{data=models.Session}
// @Failure		404	{object}	apiResponses.NotFoundError
// @Router			/api/session/{id}/end [post]
func (h *SessionHandler) PostSessionEnd(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodPost); err != nil {
		err.Send()
		return
	}

	ctx := r.Context()
	id := r.PathValue("id")
	if err := h.store.EndSession(ctx, id); err != nil {
		sendStoreError(w, err)
		return
	}
	session, err := h.store.Session(ctx, id)
	if err != nil {
		sendStoreError(w, err)
		return
	}
	gecho.Success(w).WithData(session).Send()
}

type PostRevealBody struct {
	Answer         *bool `json:"answer,omitempty"`
	Counterexample *bool `json:"counterexample,omitempty"`
}

// PostSessionReveal
//
// @Summary		Reveal answers
// @Description	Sets the revealed_answer and revealed_counterexample flags. Omitted fields are left alone.
// @Tags			session requiresAuth
// @Accept			json
// @Produce		json
// @Param			id		path		string			true	"Session ID"
// @Param			body	body		PostRevealBody	true	"Flags"
// @Success		200	{object}	apiResponses.BaseResponse{data=models.Session}
// @Failure		404	{object}	apiResponses.NotFoundError
// @Router			/api/session/{id}/reveal [post]
func (h *SessionHandler) PostSessionReveal(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodPost); err != nil {
		err.Send()
		return
	}

	var body PostRevealBody
	if !decodeBody(w, r, &body) {
		return
	}
	session, err := h.store.Reveal(r.Context(), r.PathValue("id"), body.Answer, body.Counterexample)
	if err != nil {
		sendStoreError(w, err)
		return
	}
	gecho.Success(w).WithData(session).Send()
}

// GetSessionGroups
//
// @Summary		Get the groups of a session
// @Tags			session
// @Produce		json
// @Param			id	path		string	true	"Session ID"
// @Success		200	{object}	apiResponses.BaseResponse{data=[]models.Group}
// @Router			/api/session/{id}/groups [get]
func (h *SessionHandler) GetSessionGroups(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodGet); err != nil {
		err.Send()
		return
	}

	groups, err := h.store.Groups(r.Context(), r.PathValue("id"))
	if err != nil {
		sendStoreError(w, err)
		return
	}
	gecho.Success(w).WithData(groups).Send()
}

// GetSessionSubmissions
//
// @Summary		Get the submissions of a session
// @Description	Every submission in arrival order
// @Tags			session
// @Produce		json
// @Param			id	path		string	true	"Session ID"
// @Success		200	{object}	apiResponses.BaseResponse{data=[]models.Submission}
// @Router			/api/session/{id}/submissions [get]
func (h *SessionHandler) GetSessionSubmissions(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodGet); err != nil {
		err.Send()
		return
	}

	subs, err := h.store.Submissions(r.Context(), r.PathValue("id"))
	if err != nil {
		sendStoreError(w, err)
		return
	}
	gecho.Success(w).WithData(subs).Send()
}
