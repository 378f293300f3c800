package views

import models "github.com/CLDWare/methods-lab/pkg/db"

type OptionCount struct {
	Option  string  `json:"option"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
	// Leading marks every option sharing the highest non-zero count.
	Leading bool `json:"leading"`
	Correct bool `json:"correct"`
}

type Tally struct {
	Options []OptionCount `json:"options"`
	// Unmatched counts submissions whose factor is not one of the options.
	Unmatched int `json:"unmatched"`
	Total     int `json:"total"`
}

// Count aggregates submissions over the declared options. Option counts plus
// Unmatched always add up to Total. Correct comes from correct only and is
// independent of the counts.
func Count(options []string, correct string, subs []models.Submission) Tally {
	counts := make(map[string]int, len(options))
	for _, o := range options {
		counts[o] = 0
	}

	t := Tally{Total: len(subs)}
	for _, s := range subs {
		if _, ok := counts[s.SelectedFactor]; ok {
			counts[s.SelectedFactor]++
		} else {
			t.Unmatched++
		}
	}

	highest := 0
	for _, o := range options {
		if counts[o] > highest {
			highest = counts[o]
		}
	}

	t.Options = make([]OptionCount, len(options))
	for i, o := range options {
		c := OptionCount{
			Option:  o,
			Count:   counts[o],
			Leading: highest > 0 && counts[o] == highest,
			Correct: correct != "" && o == correct,
		}
		if t.Total > 0 {
			c.Percent = float64(c.Count) / float64(t.Total) * 100
		}
		t.Options[i] = c
	}
	return t
}

// Leaders returns the options flagged as leading
func (t Tally) Leaders() []string {
	var out []string
	for _, o := range t.Options {
		if o.Leading {
			out = append(out, o.Option)
		}
	}
	return out
}
