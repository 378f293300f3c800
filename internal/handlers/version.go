package handlers

import (
	"net/http"

	"github.com/CLDWare/methods-lab/config"
	"github.com/CLDWare/methods-lab/internal/i18n"
	"github.com/CLDWare/methods-lab/internal/scenario"
	models "github.com/CLDWare/methods-lab/pkg/db"
	"github.com/MonkyMars/gecho"
)

// VersionHandler reports what this server is and what it serves
type VersionHandler struct {
	config *config.Config
}

func NewVersionHandler(cfg *config.Config) *VersionHandler {
	return &VersionHandler{config: cfg}
}

type GetVersionSuccessResponse struct {
	Name        string              `example:"methods-lab"`
	Version     string              `example:"1.0.0"`
	Environment string              `example:"development"`
	Login       bool                `example:"false"`
	Languages   []string            `example:"en,nl"`
	Methods     []models.MethodType `example:"difference,agreement,nested,qca"`
}

// GetVersion
//
// @Summary		Get the api version
// @Description	Name, version and deployment env, whether presenter login is enabled, the label languages and the case study methods
// @Tags			version
// @Produce		json
// @Success		200	{object} apiResponses.BaseResponse{data=GetVersionSuccessResponse}
// @Router 			/v		[get]
func (h *VersionHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodGet); err != nil {
		err.Send()
		return
	}

	langs := []string{}
	for _, tag := range i18n.Languages() {
		langs = append(langs, tag.String())
	}
	methods := []models.MethodType{}
	for _, sc := range scenario.All() {
		methods = append(methods, sc.Method)
	}

	gecho.Success(w).WithData(GetVersionSuccessResponse{
		Name:        h.config.App.Name,
		Version:     h.config.App.Version,
		Environment: h.config.App.Environment,
		Login:       h.config.OAuth.Enabled(),
		Languages:   langs,
		Methods:     methods,
	}).Send()
}
