// Package nfadfa converts nondeterministic finite automata given as explicit
// transition tables into deterministic ones by subset construction.
package nfadfa

import (
	"errors"
	"fmt"
)

type Symbol string

type StateId string

var (
	ErrEmptyAutomaton = errors.New("automaton has no states")
	ErrDuplicateState = errors.New("duplicate state")
	ErrUnknownState   = errors.New("unknown state")
)

type NfaNode interface {
	Id() StateId
	Transitions(sym Symbol) []StateId
}

type NfaGraph interface {
	Alphabet() []Symbol
	NumStates() int
	Node(idx int) NfaNode
}

var (
	_ NfaGraph = (*Nfa)(nil)
	_ NfaNode  = (*NfaState)(nil)
)

///

type NfaState struct {
	id          StateId
	index       int
	keys        []Symbol
	transitions map[Symbol][]StateId
	targets     map[Symbol][]int
}

func (st *NfaState) Id() StateId {
	return st.id
}

func (st *NfaState) Index() int {
	return st.index
}

func (st *NfaState) NumTransitionKeys() int {
	return len(st.keys)
}

func (st *NfaState) TransitionKey(idx int) Symbol {
	return st.keys[idx]
}

// HasTransition reports whether sym was declared for this state, even with
// an empty target list.
func (st *NfaState) HasTransition(sym Symbol) bool {
	_, has := st.transitions[sym]
	return has
}

func (st *NfaState) Transitions(sym Symbol) []StateId {
	m, has := st.transitions[sym]
	if !has {
		return []StateId{}
	}
	res := make([]StateId, len(m))
	copy(res, m)
	return res
}

// Nfa is an immutable nondeterministic automaton. The first state added is
// the initial state and its declared symbols, in declaration order, are the
// alphabet for the whole automaton.
type Nfa struct {
	states []*NfaState
	index  map[StateId]int
}

func (nfa *Nfa) NumStates() int {
	return len(nfa.states)
}

func (nfa *Nfa) State(idx int) *NfaState {
	if idx < 0 || idx >= len(nfa.states) {
		return nil
	}
	return nfa.states[idx]
}

func (nfa *Nfa) Node(idx int) NfaNode {
	if st := nfa.State(idx); st != nil {
		return st
	}
	return nil
}

func (nfa *Nfa) Lookup(id StateId) (*NfaState, bool) {
	idx, has := nfa.index[id]
	if !has {
		return nil, false
	}
	return nfa.states[idx], true
}

func (nfa *Nfa) InitialState() *NfaState {
	return nfa.State(0)
}

func (nfa *Nfa) Alphabet() []Symbol {
	return AlphabetOf(nfa)
}

// Accepts runs the automaton directly over input, tracking the full set of
// active states, and reports whether any final state is active at the end.
func (nfa *Nfa) Accepts(finals []StateId, input []Symbol) bool {
	if len(nfa.states) == 0 {
		return false
	}
	cur := nfa.newStateSet()
	cur.add(0)
	for _, sym := range input {
		cur = nfa.image(cur, sym)
	}
	for _, f := range finals {
		if idx, has := nfa.index[f]; has && cur.has(idx) {
			return true
		}
	}
	return false
}

func (nfa *Nfa) newStateSet() stateSet {
	return newStateSet(len(nfa.states))
}

// image is the union of the targets on sym of every member of set.
func (nfa *Nfa) image(set stateSet, sym Symbol) stateSet {
	res := nfa.newStateSet()
	for _, idx := range set.members() {
		for _, t := range nfa.states[idx].targets[sym] {
			res.add(t)
		}
	}
	return res
}

///

type NfaBuilder struct {
	states []*NfaState
	index  map[StateId]int
	err    error
}

func NewNfaBuilder() *NfaBuilder {
	return &NfaBuilder{
		index: make(map[StateId]int),
	}
}

func (b *NfaBuilder) AddState(id StateId) *NfaBuilder {
	if b.err != nil {
		return b
	}
	if _, has := b.index[id]; has {
		b.err = fmt.Errorf("%w: %q", ErrDuplicateState, id)
		return b
	}
	b.index[id] = len(b.states)
	b.states = append(b.states, &NfaState{
		id:          id,
		index:       len(b.states),
		transitions: make(map[Symbol][]StateId),
	})
	return b
}

// AddTransition declares sym on from and appends targets to its target
// list. Calling it with no targets declares sym with no transition.
func (b *NfaBuilder) AddTransition(from StateId, sym Symbol, targets ...StateId) *NfaBuilder {
	if b.err != nil {
		return b
	}
	idx, has := b.index[from]
	if !has {
		b.err = fmt.Errorf("%w: transition source %q", ErrUnknownState, from)
		return b
	}
	st := b.states[idx]
	if _, has := st.transitions[sym]; !has {
		st.keys = append(st.keys, sym)
		st.transitions[sym] = []StateId{}
	}
	st.transitions[sym] = append(st.transitions[sym], targets...)
	return b
}

func (b *NfaBuilder) Build() (*Nfa, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.states) == 0 {
		return nil, ErrEmptyAutomaton
	}
	nfa := &Nfa{
		states: make([]*NfaState, len(b.states)),
		index:  make(map[StateId]int, len(b.index)),
	}
	for id, idx := range b.index {
		nfa.index[id] = idx
	}
	for i, src := range b.states {
		st := &NfaState{
			id:          src.id,
			index:       i,
			keys:        append([]Symbol(nil), src.keys...),
			transitions: make(map[Symbol][]StateId, len(src.transitions)),
			targets:     make(map[Symbol][]int, len(src.transitions)),
		}
		for sym, m := range src.transitions {
			st.transitions[sym] = append([]StateId{}, m...)
			st.targets[sym] = make([]int, 0, len(m))
			for _, t := range m {
				tidx, has := b.index[t]
				if !has {
					return nil, fmt.Errorf("%w: %q on %q from %q", ErrUnknownState, t, sym, src.id)
				}
				st.targets[sym] = append(st.targets[sym], tidx)
			}
		}
		nfa.states[i] = st
	}
	return nfa, nil
}
