package handlers

import (
	"net/http"

	"github.com/CLDWare/methods-lab/config"
	"github.com/CLDWare/methods-lab/internal/contextkeys"
	models "github.com/CLDWare/methods-lab/pkg/db"
	"github.com/MonkyMars/gecho"
	"gorm.io/gorm"
)

// UserHandler handles requests about presenters
type UserHandler struct {
	config *config.Config
	db     *gorm.DB
}

// NewUserHandler creates a new user handler
func NewUserHandler(cfg *config.Config, db *gorm.DB) *UserHandler {
	return &UserHandler{
		config: cfg,
		db:     db,
	}
}

type UserInfo struct {
	Email       string `json:"email"`
	GoogleSub   string `json:"google_sub"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// GetMe
//
// @Summary		Get the signed in presenter
// @Tags			user requiresAuth
// @Produce		json
// @Success		200	{object}	apiResponses.BaseResponse{data=UserInfo}
// @Failure		401	{object}	apiResponses.UnauthorizedError
// @Router			/me [get]
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodGet); err != nil {
		err.Send() // Automatically sends 405 Method Not Allowed
		return
	}

	user, ok := r.Context().Value(contextkeys.AuthUserKey).(models.User)
	if !ok {
		gecho.Unauthorized(w).WithMessage("Presenter login is disabled").Send()
		return
	}

	gecho.Success(w).WithData(UserInfo{
		Email:       user.Email,
		GoogleSub:   user.GoogleSubject,
		Name:        user.Name,
		DisplayName: user.DisplayName,
	}).Send()
}
