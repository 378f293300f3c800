package handlers

import (
	"net/http"

	"github.com/CLDWare/methods-lab/internal/scenario"
	models "github.com/CLDWare/methods-lab/pkg/db"
	"github.com/MonkyMars/gecho"
)

// ScenarioHandler serves the static scenario catalog. Correct answers and
// counterexamples are left out; they reach students through the group
// view once revealed.
type ScenarioHandler struct{}

func NewScenarioHandler() *ScenarioHandler {
	return &ScenarioHandler{}
}

// GetScenarios
//
// @Summary		List scenarios
// @Tags			scenario
// @Produce		json
// @Success		200	{object}	apiResponses.BaseResponse{data=[]scenario.Scenario}
// @Router			/api/scenarios [get]
func (h *ScenarioHandler) GetScenarios(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodGet); err != nil {
		err.Send()
		return
	}

	all := scenario.All()
	for i := range all {
		all[i] = all[i].Redacted()
	}
	gecho.Success(w).WithData(all).Send()
}

// GetScenario
//
// @Summary		Get the scenario of a method
// @Tags			scenario
// @Produce		json
// @Param			method	path		string	true	"Method type"	Enums(difference, agreement, nested, qca)
// @Success		200	{object}	apiResponses.BaseResponse{data=scenario.Scenario}
// @Failure		404	{object}	apiResponses.NotFoundError
// @Router			/api/scenarios/{method} [get]
func (h *ScenarioHandler) GetScenario(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodGet); err != nil {
		err.Send()
		return
	}

	sc, ok := scenario.Get(models.MethodType(r.PathValue("method")))
	if !ok {
		gecho.NotFound(w).WithMessage("No scenario for method '" + r.PathValue("method") + "'").Send()
		return
	}
	gecho.Success(w).WithData(sc.Redacted()).Send()
}
