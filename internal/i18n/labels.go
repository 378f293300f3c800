package i18n

import (
	"context"

	"github.com/CLDWare/methods-lab/internal/scenario"
	models "github.com/CLDWare/methods-lab/pkg/db"
)

var phaseMessages = map[models.Phase]string{
	models.PhaseIntro:          "PhaseIntro",
	models.PhaseQR:             "PhaseQR",
	models.PhaseWork:           "PhaseWork",
	models.PhaseResults:        "PhaseResults",
	models.PhaseCounterexample: "PhaseCounterexample",
}

var statusMessages = map[models.Status]string{
	models.StatusWaiting:  "StatusWaiting",
	models.StatusActive:   "StatusActive",
	models.StatusPaused:   "StatusPaused",
	models.StatusFinished: "StatusFinished",
}

func PhaseTitle(ctx context.Context, p models.Phase) string {
	if id, ok := phaseMessages[p]; ok {
		return T(ctx, id)
	}
	return string(p)
}

func StatusLabel(ctx context.Context, s models.Status) string {
	if id, ok := statusMessages[s]; ok {
		return T(ctx, id)
	}
	return string(s)
}

// OutcomeLabel renders a case outcome, e.g. "LATE (Yes)" or "No protest"
func OutcomeLabel(ctx context.Context, kind scenario.Outcome, value bool) string {
	switch {
	case kind == scenario.OutcomeLate && value:
		return T(ctx, "OutcomeLateYes")
	case kind == scenario.OutcomeLate:
		return T(ctx, "OutcomeLateNo")
	case value:
		return T(ctx, "OutcomeProtestYes")
	}
	return T(ctx, "OutcomeProtestNo")
}
