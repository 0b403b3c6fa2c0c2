package nfadfa

import (
	"github.com/emirpasic/gods/sets/hashset"
)

// ClassifyAccepting marks each composite state that shares at least one
// member with finals. Names in finals that are not states of nfa are dropped
// and never match.
func ClassifyAccepting(nfa *Nfa, states []CompositeState, finals []StateId) []bool {
	fs := hashset.New()
	for _, f := range finals {
		if _, known := nfa.Lookup(f); known {
			fs.Add(f)
		}
	}
	res := make([]bool, len(states))
	for i, cs := range states {
		for _, m := range cs.members {
			if fs.Contains(m) {
				res[i] = true
				break
			}
		}
	}
	return res
}
