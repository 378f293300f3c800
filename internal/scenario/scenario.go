// Package scenario holds the fixed case studies a group can be assigned.
// The catalog is static and must be treated as read-only.
package scenario

import (
	"errors"
	"fmt"
	"slices"

	models "github.com/CLDWare/methods-lab/pkg/db"
)

// Outcome names what a case's outcome flag measures
type Outcome string

const (
	OutcomeLate    Outcome = "late"
	OutcomeProtest Outcome = "protest"
)

type Stats struct {
	NoProtest int `json:"no_protest"`
	Protest   int `json:"protest"`
}

type Case struct {
	ID         string          `json:"id"`
	Label      string          `json:"label"`
	Conditions map[string]bool `json:"conditions"`
	Outcome    bool            `json:"outcome"`
	Stats      *Stats          `json:"stats,omitempty"`
}

type Scenario struct {
	Method       models.MethodType `json:"method_type"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	ScenarioText string            `json:"scenario_text"`
	Question     string            `json:"question"`
	Outcome      Outcome           `json:"outcome"`
	// Factors orders the condition columns of Cases.
	Factors                   []string `json:"factors"`
	Cases                     []Case   `json:"cases"`
	Options                   []string `json:"options"`
	CorrectAnswer             string   `json:"correct_answer,omitempty"`
	CounterExample            *Case    `json:"counter_example,omitempty"`
	CounterExampleExplanation string   `json:"counter_example_explanation,omitempty"`
}

// Get returns the scenario for a method type
func Get(method models.MethodType) (Scenario, bool) {
	s, ok := catalog[method]
	return s, ok
}

// All returns every scenario in group order
func All() []Scenario {
	out := make([]Scenario, 0, len(models.MethodTypes))
	for _, m := range models.MethodTypes {
		if s, ok := catalog[m]; ok {
			out = append(out, s)
		}
	}
	return out
}

// HasOption reports whether option is one of the scenario's answers
func (s Scenario) HasOption(option string) bool {
	return slices.Contains(s.Options, option)
}

// Redacted strips what students must not see before the reveal
func (s Scenario) Redacted() Scenario {
	s.CorrectAnswer = ""
	s.CounterExample = nil
	s.CounterExampleExplanation = ""
	return s
}

// Validate checks the internal consistency of a scenario
func (s Scenario) Validate() error {
	var errs []error
	if len(s.Options) == 0 {
		errs = append(errs, fmt.Errorf("%s: no options", s.Method))
	}
	seen := make(map[string]bool, len(s.Options))
	for _, o := range s.Options {
		if seen[o] {
			errs = append(errs, fmt.Errorf("%s: duplicate option %q", s.Method, o))
		}
		seen[o] = true
	}
	if !seen[s.CorrectAnswer] {
		errs = append(errs, fmt.Errorf("%s: correct answer %q is not an option", s.Method, s.CorrectAnswer))
	}
	if len(s.Cases) == 0 {
		errs = append(errs, fmt.Errorf("%s: no cases", s.Method))
	}
	for _, c := range s.Cases {
		if len(c.Conditions) != len(s.Factors) {
			errs = append(errs, fmt.Errorf("%s: case %s has %d conditions, want %d", s.Method, c.ID, len(c.Conditions), len(s.Factors)))
		}
		for _, f := range s.Factors {
			if _, ok := c.Conditions[f]; !ok {
				errs = append(errs, fmt.Errorf("%s: case %s is missing condition %q", s.Method, c.ID, f))
			}
		}
	}
	if s.CounterExample != nil {
		for k := range s.CounterExample.Conditions {
			if !slices.Contains(s.Factors, k) {
				errs = append(errs, fmt.Errorf("%s: counterexample has unknown condition %q", s.Method, k))
			}
		}
	}
	return errors.Join(errs...)
}

// Validate checks every scenario in the catalog
func Validate() error {
	var errs []error
	for _, m := range models.MethodTypes {
		s, ok := catalog[m]
		if !ok {
			errs = append(errs, fmt.Errorf("no scenario for method %s", m))
			continue
		}
		if s.Method != m {
			errs = append(errs, fmt.Errorf("scenario keyed %s declares method %s", m, s.Method))
		}
		if err := s.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
