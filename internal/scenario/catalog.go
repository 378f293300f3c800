package scenario

import models "github.com/CLDWare/methods-lab/pkg/db"

var lateFactors = []string{"Morning", "Commute", "BackToBack", "Meeting", "WoreSuit", "HadBreakfast", "CheckedEmail"}

var lateOptions = []string{"Morning Class", "Commute Problems", "Back-to-back Teaching", "Department Meeting", "Wore Suit"}

const (
	tuition = "A (Tuition Increase)"
	mobil   = "B (Student Mobilization)"
	trust   = "C (Trust in Administration)"
)

func qcaCase(id string, a, b, c, outcome bool, noProtest, protest int) Case {
	return Case{
		ID:         id,
		Label:      id,
		Conditions: map[string]bool{tuition: a, mobil: b, trust: c},
		Outcome:    outcome,
		Stats:      &Stats{NoProtest: noProtest, Protest: protest},
	}
}

var catalog = map[models.MethodType]Scenario{
	models.MethodDifference: {
		Method:       models.MethodDifference,
		Title:        "Method of Difference",
		Description:  "Find the single factor that varies between the two cases.",
		ScenarioText: "You are investigating why Professor Smith was late to class. You have data from two different days. On Day 1, he was late. On Day 2, he was on time. Everything was exactly the same on both days, except for one thing.",
		Question:     "Which factor explains the difference in the outcome?",
		Outcome:      OutcomeLate,
		Factors:      lateFactors,
		Cases: []Case{
			{
				ID:    "c1",
				Label: "Case 1",
				Conditions: map[string]bool{
					"Morning": true, "Commute": true, "BackToBack": true, "Meeting": true,
					"WoreSuit": true, "HadBreakfast": true, "CheckedEmail": true,
				},
				Outcome: true,
			},
			{
				ID:    "c2",
				Label: "Case 2",
				Conditions: map[string]bool{
					"Morning": true, "Commute": true, "BackToBack": true, "Meeting": false,
					"WoreSuit": true, "HadBreakfast": true, "CheckedEmail": true,
				},
				Outcome: false,
			},
		},
		Options:       lateOptions,
		CorrectAnswer: "Department Meeting",
		CounterExample: &Case{
			ID:         "c3",
			Label:      "Counterexample",
			Conditions: map[string]bool{"Morning": false, "Commute": false, "BackToBack": false, "Meeting": false},
			Outcome:    true,
		},
		CounterExampleExplanation: "This case shows the professor was late even without the meeting, suggesting the meeting is not a necessary cause.",
	},
	models.MethodAgreement: {
		Method:       models.MethodAgreement,
		Title:        "Method of Agreement",
		Description:  "Find the single factor that is shared between the two cases.",
		ScenarioText: "You are looking at two different days where Professor Smith was late. The days were completely different in almost every way (weather, traffic, schedule), except for one shared factor. What is the one thing present in both cases?",
		Question:     "Which shared factor could explain the lateness?",
		Outcome:      OutcomeLate,
		Factors:      lateFactors,
		Cases: []Case{
			{
				ID:    "c1",
				Label: "Case 1",
				Conditions: map[string]bool{
					"Morning": true, "Commute": false, "BackToBack": false, "Meeting": false,
					"WoreSuit": true, "HadBreakfast": false, "CheckedEmail": true,
				},
				Outcome: true,
			},
			{
				ID:    "c2",
				Label: "Case 2",
				Conditions: map[string]bool{
					"Morning": true, "Commute": true, "BackToBack": true, "Meeting": true,
					"WoreSuit": false, "HadBreakfast": true, "CheckedEmail": false,
				},
				Outcome: true,
			},
		},
		Options:       lateOptions,
		CorrectAnswer: "Morning Class",
		CounterExample: &Case{
			ID:         "c3",
			Label:      "Counterexample",
			Conditions: map[string]bool{"Morning": false, "Commute": true, "BackToBack": true, "Meeting": false},
			Outcome:    true,
		},
		CounterExampleExplanation: `Here, the professor was late despite it NOT being a morning class, showing "Morning Class" is not sufficient.`,
	},
	models.MethodNested: {
		Method:       models.MethodNested,
		Title:        "Nested Case Design: Faculties Nested Within One University",
		Description:  "Comparison of sub-units (faculties) within the same larger unit (university) to control for institutional factors.",
		ScenarioText: "A large public university introduces a new attendance policy that affects eligibility for course credit. The policy applies equally to all faculties. Tuition fees, grading rules, exam schedules, university leadership, and disciplinary procedures are identical across the university.\n\nIn the semester following the policy change, a student protest occurs in one faculty. No protest occurs in two other faculties.\n\nA researcher seeks to explain why the protest occurred in only one faculty. The university is treated as the larger case. Faculties are treated as cases nested within the same institutional context.",
		Question:     "Based on the table, which factor best explains why students protested in the Agriculture faculty?",
		Outcome:      OutcomeProtest,
		Factors:      []string{"Class Size (Large)", "Student Org Strength (Strong)", "Attendance Policy (New)", "University Leadership"},
		Cases: []Case{
			{
				ID:    "n1",
				Label: "Business Admin",
				Conditions: map[string]bool{
					"Class Size (Large)": true, "Student Org Strength (Strong)": false,
					"Attendance Policy (New)": true, "University Leadership": true,
				},
				Outcome: false,
			},
			{
				ID:    "n2",
				Label: "Computer Engineering",
				Conditions: map[string]bool{
					"Class Size (Large)": true, "Student Org Strength (Strong)": false,
					"Attendance Policy (New)": true, "University Leadership": true,
				},
				Outcome: false,
			},
			{
				ID:    "n3",
				Label: "Agriculture",
				Conditions: map[string]bool{
					"Class Size (Large)": true, "Student Org Strength (Strong)": true,
					"Attendance Policy (New)": true, "University Leadership": true,
				},
				Outcome: true,
			},
		},
		Options: []string{
			"Class size",
			"Attendance policy",
			"Student organization strength",
			"University leadership",
		},
		CorrectAnswer: "Student organization strength",
	},
	models.MethodQCA: {
		Method:       models.MethodQCA,
		Title:        "Qualitative Comparative Analysis (QCA): Student Protests",
		Description:  "Analyze combinations of conditions to find consistent causal paths.",
		ScenarioText: "A university wants to understand why student protests occur on campus. Administrators believe protests do not result from a single factor, but from specific combinations of conditions.\n\nData are collected across multiple academic terms. Instead of analyzing individual cases one by one, the observations are grouped into combinations of conditions. Each combination shows how often protests occurred or did not occur under that configuration.\n\nThree conditions are examined:\n\n**A. Tuition Increase**\nYes. Tuition fees increased during the term\nNo. No tuition increase\n\n**B. Student Mobilization Capacity**\nYes. Active and organized student groups exist\nNo. Weak or fragmented student organization\n\n**C. Trust in University Administration**\nYes. Majority of students trust the administration\nNo. No majority trust\n\nThe outcome of interest is whether student protests occurred.",
		Question:     "Based on the truth table and the minimized causal paths, which statement best reflects the QCA finding about student protests?",
		Outcome:      OutcomeProtest,
		Factors:      []string{tuition, mobil, trust},
		Cases: []Case{
			qcaCase("1", false, false, true, false, 3, 0),
			qcaCase("2", false, false, false, false, 2, 0),
			qcaCase("3", false, true, true, false, 1, 0),
			qcaCase("4", false, true, false, true, 0, 2),
			qcaCase("5", true, false, true, false, 2, 0),
			qcaCase("6", true, false, false, true, 1, 1),
			qcaCase("7", true, true, true, true, 0, 1),
			qcaCase("8", true, true, false, true, 0, 5),
		},
		Options: []string{
			"Student protests occur whenever tuition increases, regardless of other conditions.",
			"Student protests occur only when trust in the administration is low.",
			"Student protests occur when student mobilization is present together with either low trust in the administration or a tuition increase.",
			"Student protests occur only when all three conditions are present at the same time.",
		},
		CorrectAnswer: "Student protests occur when student mobilization is present together with either low trust in the administration or a tuition increase.",
	},
}
