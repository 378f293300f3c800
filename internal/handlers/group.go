package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/CLDWare/methods-lab/config"
	"github.com/CLDWare/methods-lab/internal/store"
	"github.com/CLDWare/methods-lab/internal/views"
	models "github.com/CLDWare/methods-lab/pkg/db"
	"github.com/MonkyMars/gecho"
)

// GroupHandler handles requests about groups and their submissions
type GroupHandler struct {
	config *config.Config
	store  *store.Store
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(cfg *config.Config, st *store.Store) *GroupHandler {
	return &GroupHandler{
		config: cfg,
		store:  st,
	}
}

// studentGroup builds the student board of one group. The scenario is
// redacted the way the session's phase dictates.
func studentGroup(r *http.Request, st *store.Store, cfg *config.Config, groupID string) (*views.GroupBoard, *models.Session, error) {
	ctx := r.Context()
	group, err := st.Group(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	session, err := st.Session(ctx, group.SessionID)
	if err != nil {
		return nil, nil, err
	}
	subs, err := st.GroupSubmissions(ctx, group.ID)
	if err != nil {
		return nil, nil, err
	}
	board := views.Build(views.BoardInput{
		Role:        views.Student,
		Session:     session,
		Groups:      []models.Group{*group},
		Submissions: subs,
		GroupID:     group.ID,
		Now:         time.Now(),
		JoinURL:     cfg.JoinURL,
	})
	return &board.Groups[0], session, nil
}

// GetGroup
//
// @Summary		Get a group
// @Description	The group with its scenario. The correct answer is hidden until results are shown.
// @Tags			group
// @Produce		json
// @Param			id	path		string	true	"Group ID"
// @Success		200	{object}	apiResponses.BaseResponse{data=views.GroupBoard}
// @Failure		404	{object}	apiResponses.NotFoundError
// @Router			/api/group/{id} [get]
func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodGet); err != nil {
		err.Send()
		return
	}

	gb, _, err := studentGroup(r, h.store, h.config, r.PathValue("id"))
	if err != nil {
		sendStoreError(w, err)
		return
	}
	gecho.Success(w).WithData(gb).Send()
}

// GetGroupSubmissions
//
// @Summary		Get the submissions of a group
// @Tags			group
// @Produce		json
// @Param			id	path		string	true	"Group ID"
// @Success		200	{object}	apiResponses.BaseResponse{data=[]models.Submission}
// @Failure		404	{object}	apiResponses.NotFoundError
// @Router			/api/group/{id}/submissions [get]
func (h *GroupHandler) GetGroupSubmissions(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodGet); err != nil {
		err.Send()
		return
	}

	ctx := r.Context()
	group, err := h.store.Group(ctx, r.PathValue("id"))
	if err != nil {
		sendStoreError(w, err)
		return
	}
	subs, err := h.store.GroupSubmissions(ctx, group.ID)
	if err != nil {
		sendStoreError(w, err)
		return
	}
	gecho.Success(w).WithData(subs).Send()
}

type PostSubmissionBody struct {
	SelectedFactor string `json:"selected_factor" example:"Department Meeting"`
	Justification  string `json:"justification" example:"Only present on the late days"`
	DeviceHash     string `json:"device_hash" example:"k3x9q2a"`
}

// PostSubmission
//
// @Summary		Submit an answer
// @Description	Records a group answer. A device may answer each group once.
// @Tags			group
// @Accept			json
// @Produce		json
// @Param			id		path		string				true	"Group ID"
// @Param			body	body		PostSubmissionBody	true	"Answer"
// @Success		201	{object}	apiResponses.BaseResponse{data=models.Submission}
// @Failure		400	{object}	apiResponses.BadRequestError
// @Failure		404	{object}	apiResponses.NotFoundError
// @Failure		409	{object}	apiResponses.ConflictError
// @Router			/api/group/{id}/submission [post]
func (h *GroupHandler) PostSubmission(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodPost); err != nil {
		err.Send()
		return
	}

	var body PostSubmissionBody
	if !decodeBody(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.SelectedFactor) == "" {
		gecho.BadRequest(w).WithMessage("Missing field 'selected_factor'").Send()
		return
	}
	if body.DeviceHash == "" {
		body.DeviceHash = store.NewDeviceHash()
	}

	sub := models.Submission{
		GroupID:        r.PathValue("id"),
		DeviceHash:     body.DeviceHash,
		SelectedFactor: body.SelectedFactor,
		Justification:  body.Justification,
	}
	if err := h.store.InsertSubmission(r.Context(), &sub); err != nil {
		sendStoreError(w, err)
		return
	}
	gecho.Created(w).WithData(sub).Send()
}
