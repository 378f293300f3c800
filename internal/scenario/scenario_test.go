package scenario

import (
	"testing"

	models "github.com/CLDWare/methods-lab/pkg/db"
)

func TestCatalogIsConsistent(t *testing.T) {
	if err := Validate(); err != nil {
		t.Fatalf("catalog is inconsistent:\n%v", err)
	}
}

func TestEveryMethodHasAScenario(t *testing.T) {
	all := All()
	if len(all) != len(models.MethodTypes) {
		t.Fatalf("All() returned %d scenarios, want %d", len(all), len(models.MethodTypes))
	}
	for i, m := range models.MethodTypes {
		if all[i].Method != m {
			t.Errorf("All()[%d].Method = %s, want %s", i, all[i].Method, m)
		}
	}
	if _, ok := Get("induction"); ok {
		t.Error("Get(induction) should not find a scenario")
	}
}

func TestCorrectAnswers(t *testing.T) {
	tests := []struct {
		method models.MethodType
		want   string
	}{
		{models.MethodDifference, "Department Meeting"},
		{models.MethodAgreement, "Morning Class"},
		{models.MethodNested, "Student organization strength"},
		{models.MethodQCA, "Student protests occur when student mobilization is present together with either low trust in the administration or a tuition increase."},
	}
	for _, tt := range tests {
		s, ok := Get(tt.method)
		if !ok {
			t.Fatalf("Get(%s) found nothing", tt.method)
		}
		if s.CorrectAnswer != tt.want {
			t.Errorf("%s correct answer = %q, want %q", tt.method, s.CorrectAnswer, tt.want)
		}
		if !s.HasOption(s.CorrectAnswer) {
			t.Errorf("%s correct answer is not an option", tt.method)
		}
	}
}

func TestDifferenceCasesDifferInOneFactor(t *testing.T) {
	s, _ := Get(models.MethodDifference)
	var differing []string
	for _, f := range s.Factors {
		if s.Cases[0].Conditions[f] != s.Cases[1].Conditions[f] {
			differing = append(differing, f)
		}
	}
	if len(differing) != 1 || differing[0] != "Meeting" {
		t.Errorf("cases differ in %v, want only Meeting", differing)
	}
}

func TestValidateReportsProblems(t *testing.T) {
	s, _ := Get(models.MethodNested)
	s.CorrectAnswer = "Weather"
	s.Cases = append([]Case{}, s.Cases...)
	s.Cases = append(s.Cases, Case{ID: "n4", Conditions: map[string]bool{"Class Size (Large)": true}})

	if err := s.Validate(); err == nil {
		t.Fatal("expected Validate to fail")
	}

	original, _ := Get(models.MethodNested)
	if original.CorrectAnswer != "Student organization strength" || len(original.Cases) != 3 {
		t.Error("modifying a returned scenario changed the catalog")
	}
}

func TestRedacted(t *testing.T) {
	s, _ := Get(models.MethodDifference)
	r := s.Redacted()
	if r.CorrectAnswer != "" || r.CounterExample != nil || r.CounterExampleExplanation != "" {
		t.Errorf("Redacted() leaked answer data: %+v", r)
	}
	if s.CorrectAnswer == "" {
		t.Error("Redacted() modified the original")
	}
}
