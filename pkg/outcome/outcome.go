// Package outcome classifies play descriptions into field-agnostic outcomes.
//
// Field-agnostic means fielder's choices are ignored and errors count as the
// out they would otherwise have been.
package outcome

import "strings"

type Outcome int

const (
	Strikeout Outcome = iota
	Lineout
	Groundout
	Flyout
	Walk
	Single
	Double
	Triple
	Homerun
)

// Count is the number of distinct outcomes.
const Count = int(Homerun) + 1

var names = [Count]string{
	"strikeout", "lineout", "groundout", "flyout", "walk",
	"single", "double", "triple", "homerun",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= Count {
		return "unknown"
	}
	return names[o]
}

// FromDesc returns the outcome for a play description, or false when the
// play has none (steals, pickoffs, wild pitches, ...). Only the text before
// the first ';' is considered; the rest describes runner movement.
func FromDesc(desc string) (Outcome, bool) {
	desc = strings.ToLower(desc)
	if i := strings.IndexByte(desc, ';'); i >= 0 {
		desc = desc[:i]
	}
	has := func(s string) bool { return strings.Contains(desc, s) }

	switch {
	case has("double play") || has("triple play"):
		return multipleOut(desc)
	case has("reached on"):
		return reachedOnError(desc)
	case has("steal"), has("picked off"):
		return 0, false
	case has("single"):
		return Single, true
	case has("double"):
		return Double, true
	case has("triple"):
		return Triple, true
	case has("home run"):
		return Homerun, true
	case has("strikeout"):
		return Strikeout, true
	case has("lineout"):
		return Lineout, true
	case has("fly"):
		return Flyout, true
	case has("on foul ball"):
		// error on a foul fly
		return Flyout, true
	case has("groundout"):
		return Groundout, true
	case has("walk"):
		return Walk, true
	}
	return 0, false
}

func multipleOut(desc string) (Outcome, bool) {
	switch {
	case strings.Contains(desc, "strikeout"):
		return Strikeout, true
	case strings.Contains(desc, "ground ball"), strings.Contains(desc, "groundout"):
		return Groundout, true
	case strings.Contains(desc, "lineout"):
		return Lineout, true
	case strings.Contains(desc, "fly"):
		return Flyout, true
	}
	return 0, false
}

func reachedOnError(desc string) (Outcome, bool) {
	switch {
	case strings.Contains(desc, "ground ball"):
		return Groundout, true
	case strings.Contains(desc, "fly"):
		return Flyout, true
	case strings.Contains(desc, "line"):
		return Lineout, true
	}
	return 0, false
}

// Distribution converts per-outcome counts into frequencies summing to 1.
// It returns all zeros when counts is empty.
func Distribution(counts [Count]int) [Count]float64 {
	var total int
	for _, c := range counts {
		total += c
	}
	var dist [Count]float64
	if total == 0 {
		return dist
	}
	for i, c := range counts {
		dist[i] = float64(c) / float64(total)
	}
	return dist
}
