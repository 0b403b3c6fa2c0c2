package nfadfa

// AlphabetOf returns the symbols declared on the initial state, in the order
// they were declared. The other states are not consulted: a symbol that only
// appears on a later state is never part of the alphabet and its transitions
// are never followed during conversion.
func AlphabetOf(nfa *Nfa) []Symbol {
	if nfa == nil || len(nfa.states) == 0 {
		return nil
	}
	initial := nfa.states[0]
	res := make([]Symbol, len(initial.keys))
	copy(res, initial.keys)
	return res
}

// AlphabetConsistent reports whether every state declares exactly the
// initial state's symbols. Conversion does not require it.
func (nfa *Nfa) AlphabetConsistent() bool {
	alphabet := AlphabetOf(nfa)
	for _, st := range nfa.states {
		if len(st.keys) != len(alphabet) {
			return false
		}
		for _, sym := range alphabet {
			if !st.HasTransition(sym) {
				return false
			}
		}
	}
	return true
}
