package nfadfa

import (
	"encoding/binary"
	"math/bits"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
)

// stateSet is a bitset over the dense indices of an Nfa's states.
type stateSet []uint64

func newStateSet(n int) stateSet {
	return make(stateSet, (n+63)/64)
}

func (s stateSet) add(i int) {
	s[i>>6] |= 1 << uint(i&63)
}

func (s stateSet) has(i int) bool {
	if i < 0 || i>>6 >= len(s) {
		return false
	}
	return s[i>>6]&(1<<uint(i&63)) != 0
}

func (s stateSet) size() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// members returns the set indices in ascending order.
func (s stateSet) members() []int {
	res := make([]int, 0, s.size())
	for i, w := range s {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			res = append(res, i<<6+b)
			w &= w - 1
		}
	}
	return res
}

// key is the identity of the set within a single construction.
func (s stateSet) key() string {
	buf := make([]byte, 8*len(s))
	for i, w := range s {
		binary.LittleEndian.PutUint64(buf[8*i:], w)
	}
	return string(buf)
}

// CanonicalLabel joins the distinct ids in lexical order. Equal sets give
// byte-identical labels whatever the order or repetition of ids.
func CanonicalLabel(ids []StateId, sep string) string {
	set := treeset.NewWithStringComparator()
	for _, id := range ids {
		set.Add(string(id))
	}
	var sb strings.Builder
	for i, v := range set.Values() {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(v.(string))
	}
	return sb.String()
}

// CompositeState is one DFA state: a set of NFA states. The empty set is the
// dead state.
type CompositeState struct {
	members []StateId
	label   string
}

func newCompositeState(nfa *Nfa, set stateSet, sep string) CompositeState {
	ids := make([]StateId, 0, set.size())
	for _, idx := range set.members() {
		ids = append(ids, nfa.states[idx].id)
	}
	label := CanonicalLabel(ids, sep)
	sorted := treeset.NewWithStringComparator()
	for _, id := range ids {
		sorted.Add(string(id))
	}
	members := make([]StateId, 0, len(ids))
	for _, v := range sorted.Values() {
		members = append(members, StateId(v.(string)))
	}
	return CompositeState{members: members, label: label}
}

func (cs CompositeState) Label() string {
	return cs.label
}

// Members returns the member ids in label order.
func (cs CompositeState) Members() []StateId {
	res := make([]StateId, len(cs.members))
	copy(res, cs.members)
	return res
}

func (cs CompositeState) Len() int {
	return len(cs.members)
}

func (cs CompositeState) Contains(id StateId) bool {
	for _, m := range cs.members {
		if m == id {
			return true
		}
	}
	return false
}

func (cs CompositeState) IsDead() bool {
	return len(cs.members) == 0
}

func (cs CompositeState) String() string {
	return "{" + cs.label + "}"
}
