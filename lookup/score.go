package lookup

import (
	"math"
	"strconv"
	"strings"

	"jplemma/dictionary"
)

var tierWeights = []struct {
	tag    string
	weight int
}{
	{"jiten", 100},
	{"ichi1", 20},
	{"ichi2", 10},
	{"news1", 15},
	{"news2", 10},
}

// PriorityScore ranks an entry by its JMdict priority tags. queryIsKana
// tells whether the text being resolved was written in kana, which favours
// entries usually written in kana.
func PriorityScore(e dictionary.Entry, queryIsKana bool) int {
	if len(e.Priorities) == 0 {
		return 0
	}
	score := 0
	for _, tw := range tierWeights {
		if e.HasPriority(tw.tag) {
			score += tw.weight
		}
	}
	if e.HasPriority("gai1") || e.HasPriority("gai2") {
		score += 5
	}
	for _, p := range e.Priorities {
		if !strings.HasPrefix(p, "nf") {
			continue
		}
		if rank, err := strconv.Atoi(p[2:]); err == nil {
			score += max(0, 5-int(math.RoundToEven(float64(rank)/10)))
		}
		break
	}
	if score == 0 {
		if e.HasPriority("spec1") {
			score += 15
		}
		if e.HasPriority("spec2") {
			score += 5
		}
	}
	if e.HasPOS("uk") {
		if queryIsKana {
			score += 10
		} else {
			score -= 10
		}
	}
	return score
}
