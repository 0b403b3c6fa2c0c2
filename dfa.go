package nfadfa

type DfaNode interface {
	Id() int
	Label() string
	Members() []StateId
	IsInitial() bool
	IsAccepting() bool
	Next(sym Symbol) (DfaNode, bool)
}

type DfaGraph interface {
	Alphabet() []Symbol
	NumStates() int
	Node(idx int) DfaNode
	NumAccepting() int
	AcceptingNode(idx int) DfaNode
}

var (
	_ DfaGraph = (*Dfa)(nil)
	_ DfaNode  = (*DfaState)(nil)
)

///

type DfaState struct {
	dfa       *Dfa
	id        int
	composite CompositeState
	next      []int
	accepting bool
}

func (ds *DfaState) Dfa() *Dfa {
	return ds.dfa
}

func (ds *DfaState) Id() int {
	return ds.id
}

func (ds *DfaState) Label() string {
	return ds.composite.label
}

func (ds *DfaState) Composite() CompositeState {
	return ds.composite
}

func (ds *DfaState) Members() []StateId {
	return ds.composite.Members()
}

func (ds *DfaState) IsInitial() bool {
	return ds.id == 0
}

func (ds *DfaState) IsAccepting() bool {
	return ds.accepting
}

func (ds *DfaState) IsDead() bool {
	return ds.composite.IsDead()
}

// Transition returns the successor on sym. It fails only for symbols outside
// the alphabet; an undefined NFA transition leads to the dead state.
func (ds *DfaState) Transition(sym Symbol) (*DfaState, bool) {
	idx, has := ds.dfa.symbolIndex[sym]
	if !has {
		return nil, false
	}
	return ds.dfa.states[ds.next[idx]], true
}

func (ds *DfaState) Next(sym Symbol) (DfaNode, bool) {
	nxt, ok := ds.Transition(sym)
	if !ok {
		return nil, false
	}
	return nxt, true
}

func (ds *DfaState) NumTransitions() int {
	return len(ds.next)
}

func (ds *DfaState) TransitionKey(idx int) Symbol {
	return ds.dfa.alphabet[idx]
}

// Dfa is the immutable result of a subset construction. State 0 is the
// initial state; the others follow in discovery order.
type Dfa struct {
	alphabet    []Symbol
	symbolIndex map[Symbol]int
	states      []*DfaState
	labels      map[string]*DfaState
	accepting   []*DfaState
}

func (dfa *Dfa) NumStates() int {
	return len(dfa.states)
}

func (dfa *Dfa) State(idx int) *DfaState {
	if idx < 0 || idx >= len(dfa.states) {
		return nil
	}
	return dfa.states[idx]
}

func (dfa *Dfa) Node(idx int) DfaNode {
	if ds := dfa.State(idx); ds != nil {
		return ds
	}
	return nil
}

func (dfa *Dfa) InitialState() *DfaState {
	return dfa.states[0]
}

func (dfa *Dfa) Lookup(label string) (*DfaState, bool) {
	ds, has := dfa.labels[label]
	return ds, has
}

func (dfa *Dfa) Alphabet() []Symbol {
	res := make([]Symbol, len(dfa.alphabet))
	copy(res, dfa.alphabet)
	return res
}

func (dfa *Dfa) NumAccepting() int {
	return len(dfa.accepting)
}

func (dfa *Dfa) Accepting(idx int) *DfaState {
	if idx < 0 || idx >= len(dfa.accepting) {
		return nil
	}
	return dfa.accepting[idx]
}

func (dfa *Dfa) AcceptingNode(idx int) DfaNode {
	if ds := dfa.Accepting(idx); ds != nil {
		return ds
	}
	return nil
}

func (dfa *Dfa) AcceptingLabels() []string {
	res := make([]string, len(dfa.accepting))
	for i, ds := range dfa.accepting {
		res[i] = ds.composite.label
	}
	return res
}

// Transitions returns the transition table keyed by canonical labels.
func (dfa *Dfa) Transitions() map[string]map[Symbol]string {
	res := make(map[string]map[Symbol]string, len(dfa.states))
	for _, ds := range dfa.states {
		row := make(map[Symbol]string, len(ds.next))
		for i, n := range ds.next {
			row[dfa.alphabet[i]] = dfa.states[n].composite.label
		}
		res[ds.composite.label] = row
	}
	return res
}

// Step returns the successor of state on sym. It fails for symbols outside
// the alphabet and for states that belong to another Dfa.
func (dfa *Dfa) Step(state *DfaState, sym Symbol) (*DfaState, bool) {
	if state == nil || state.dfa != dfa {
		return nil, false
	}
	return state.Transition(sym)
}

func (dfa *Dfa) Accepts(input []Symbol) bool {
	cur := dfa.InitialState()
	for _, sym := range input {
		nxt, ok := dfa.Step(cur, sym)
		if !ok {
			return false
		}
		cur = nxt
	}
	return cur.accepting
}
