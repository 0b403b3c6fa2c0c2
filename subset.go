package nfadfa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/emirpasic/gods/queues/arrayqueue"

	"github.com/dtromb/nfadfa/logutil"
)

var (
	ErrStateLimit     = errors.New("composite state limit exceeded")
	ErrLabelCollision = errors.New("distinct composite states share a label")
)

type StateLimitError struct {
	Limit int
}

func (e *StateLimitError) Error() string {
	return fmt.Sprintf("%s: more than %d states", ErrStateLimit, e.Limit)
}

func (e *StateLimitError) Unwrap() error {
	return ErrStateLimit
}

type Options struct {
	// MaxStates bounds the number of composite states discovered, dead state
	// included. Zero means no bound.
	MaxStates int
	// Separator is placed between member ids in canonical labels.
	Separator string
}

type compositeItem struct {
	id    int
	set   stateSet
	label string
	next  []int
}

type construction struct {
	nfa      *Nfa
	opts     Options
	alphabet []Symbol
	items    []*compositeItem
	index    map[string]*compositeItem
	labels   map[string]*compositeItem
	queue    *arrayqueue.Queue
}

// TransformToDfa derives a DFA from nfa by subset construction. The initial
// state's row comes straight from the initial NFA state's own transitions;
// every state discovered after that is expanded from its member set.
func TransformToDfa(nfa *Nfa, finals []StateId, opts *Options) (*Dfa, error) {
	if nfa == nil || nfa.NumStates() == 0 {
		return nil, ErrEmptyAutomaton
	}
	c := newConstruction(nfa, opts)
	if err := c.seed(); err != nil {
		return nil, err
	}
	if err := c.expand(); err != nil {
		return nil, err
	}
	slog.Debug("subset construction finished", "nfa_states", nfa.NumStates(), "dfa_states", len(c.items))
	return c.finish(finals), nil
}

func newConstruction(nfa *Nfa, opts *Options) *construction {
	c := &construction{
		nfa:      nfa,
		alphabet: AlphabetOf(nfa),
		index:    make(map[string]*compositeItem),
		labels:   make(map[string]*compositeItem),
		queue:    arrayqueue.New(),
	}
	if opts != nil {
		c.opts = *opts
	}
	return c
}

// intern returns the item for set, creating it when set is new.
func (c *construction) intern(set stateSet) (*compositeItem, bool, error) {
	key := set.key()
	if item, has := c.index[key]; has {
		return item, false, nil
	}
	if c.opts.MaxStates > 0 && len(c.items) >= c.opts.MaxStates {
		return nil, false, &StateLimitError{Limit: c.opts.MaxStates}
	}
	label := newCompositeState(c.nfa, set, c.opts.Separator).label
	if other, has := c.labels[label]; has {
		return nil, false, fmt.Errorf("%w: %q is both %v and %v; set a label separator to tell them apart",
			ErrLabelCollision, label, c.memberIds(other.set), c.memberIds(set))
	}
	item := &compositeItem{
		id:    len(c.items),
		set:   set,
		label: label,
		next:  make([]int, len(c.alphabet)),
	}
	c.items = append(c.items, item)
	c.index[key] = item
	c.labels[label] = item
	slog.Debug("discovered composite state", "id", item.id, "label", label)
	return item, true, nil
}

func (c *construction) memberIds(set stateSet) []StateId {
	var res []StateId
	for _, idx := range set.members() {
		res = append(res, c.nfa.states[idx].id)
	}
	return res
}

// seed fills the initial state's row from the initial NFA state's targets
// alone. The initial state is registered but never queued, so reaching it
// again later does not recompute its row.
func (c *construction) seed() error {
	initial := c.nfa.states[0]
	start := c.nfa.newStateSet()
	start.add(initial.index)
	item, _, err := c.intern(start)
	if err != nil {
		return err
	}
	for i, sym := range c.alphabet {
		img := c.nfa.newStateSet()
		for _, t := range initial.targets[sym] {
			img.add(t)
		}
		nxt, isNew, err := c.intern(img)
		if err != nil {
			return err
		}
		if isNew {
			c.queue.Enqueue(nxt)
		}
		item.next[i] = nxt.id
	}
	slog.Debug("seeded initial layer", "initial", initial.id, "queued", c.queue.Size())
	return nil
}

// expand drains the worklist, computing each queued state's row.
func (c *construction) expand() error {
	ctx := context.Background()
	trace := slog.Default().Enabled(ctx, logutil.LevelTrace)
	for !c.queue.Empty() {
		v, _ := c.queue.Dequeue()
		cur := v.(*compositeItem)
		for i, sym := range c.alphabet {
			nxt, isNew, err := c.intern(c.nfa.image(cur.set, sym))
			if err != nil {
				return err
			}
			if isNew {
				c.queue.Enqueue(nxt)
			}
			cur.next[i] = nxt.id
			if trace {
				slog.Log(ctx, logutil.LevelTrace, "transition", "from", cur.label, "symbol", sym, "to", nxt.label)
			}
		}
	}
	return nil
}

func (c *construction) finish(finals []StateId) *Dfa {
	dfa := &Dfa{
		alphabet:    c.alphabet,
		symbolIndex: make(map[Symbol]int, len(c.alphabet)),
		states:      make([]*DfaState, len(c.items)),
		labels:      make(map[string]*DfaState, len(c.items)),
	}
	for i, sym := range c.alphabet {
		dfa.symbolIndex[sym] = i
	}
	composites := make([]CompositeState, len(c.items))
	for i, item := range c.items {
		composites[i] = newCompositeState(c.nfa, item.set, c.opts.Separator)
	}
	accepting := ClassifyAccepting(c.nfa, composites, finals)
	for i, item := range c.items {
		ds := &DfaState{
			dfa:       dfa,
			id:        item.id,
			composite: composites[i],
			next:      item.next,
			accepting: accepting[i],
		}
		dfa.states[i] = ds
		dfa.labels[ds.composite.label] = ds
		if ds.accepting {
			dfa.accepting = append(dfa.accepting, ds)
		}
	}
	return dfa
}
