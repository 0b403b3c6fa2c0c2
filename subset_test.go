package nfadfa

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtromb/nfadfa/logutil"
)

func exampleNfa(t *testing.T) *Nfa {
	t.Helper()
	nfa, err := NewNfaBuilder().
		AddState("A").
		AddState("B").
		AddTransition("A", "0", "A", "B").
		AddTransition("A", "1", "A").
		AddTransition("B", "0").
		AddTransition("B", "1", "B").
		Build()
	require.NoError(t, err)
	return nfa
}

func deadNfa(t *testing.T) *Nfa {
	t.Helper()
	nfa, err := NewNfaBuilder().
		AddState("A").
		AddState("B").
		AddTransition("A", "0", "B").
		AddTransition("A", "1").
		AddTransition("B", "0").
		AddTransition("B", "1", "B").
		Build()
	require.NoError(t, err)
	return nfa
}

// endsIn01 accepts binary strings ending in "01".
func endsIn01(t *testing.T) *Nfa {
	t.Helper()
	nfa, err := NewNfaBuilder().
		AddState("q0").
		AddState("q1").
		AddState("q2").
		AddTransition("q0", "0", "q0", "q1").
		AddTransition("q0", "1", "q0").
		AddTransition("q1", "0").
		AddTransition("q1", "1", "q2").
		AddTransition("q2", "0").
		AddTransition("q2", "1").
		Build()
	require.NoError(t, err)
	return nfa
}

func TestTransformExample(t *testing.T) {
	dfa, err := TransformToDfa(exampleNfa(t), []StateId{"B"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, dfa.NumStates())
	assert.Equal(t, "A", dfa.InitialState().Label())
	assert.Equal(t, []Symbol{"0", "1"}, dfa.Alphabet())
	assert.Equal(t, map[string]map[Symbol]string{
		"AB": {"0": "AB", "1": "AB"},
		"A":  {"0": "AB", "1": "A"},
	}, dfa.Transitions())
	assert.Equal(t, []string{"AB"}, dfa.AcceptingLabels())
}

func TestTransformDeadState(t *testing.T) {
	dfa, err := TransformToDfa(deadNfa(t), []StateId{"B"}, nil)
	require.NoError(t, err)

	dead, ok := dfa.Lookup("")
	require.True(t, ok)
	assert.True(t, dead.IsDead())
	assert.False(t, dead.IsAccepting())
	for _, sym := range dfa.Alphabet() {
		nxt, ok := dead.Transition(sym)
		require.True(t, ok)
		assert.Same(t, dead, nxt)
	}
	assert.Equal(t, map[string]map[Symbol]string{
		"A": {"0": "B", "1": ""},
		"B": {"0": "", "1": "B"},
		"":  {"0": "", "1": ""},
	}, dfa.Transitions())
}

func TestTransformTotality(t *testing.T) {
	for _, nfa := range []*Nfa{exampleNfa(t), deadNfa(t), endsIn01(t)} {
		dfa, err := TransformToDfa(nfa, nil, &Options{Separator: ","})
		require.NoError(t, err)
		for i := 0; i < dfa.NumStates(); i++ {
			ds := dfa.State(i)
			assert.Equal(t, len(dfa.Alphabet()), ds.NumTransitions())
			for _, sym := range dfa.Alphabet() {
				nxt, ok := ds.Transition(sym)
				require.True(t, ok)
				_, known := dfa.Lookup(nxt.Label())
				assert.True(t, known, "target %q of %q is not a state", nxt.Label(), ds.Label())
			}
		}
	}
}

func TestTransformDeterministic(t *testing.T) {
	nfa := endsIn01(t)
	a, err := TransformToDfa(nfa, []StateId{"q2"}, &Options{Separator: ","})
	require.NoError(t, err)
	b, err := TransformToDfa(nfa, []StateId{"q2"}, &Options{Separator: ","})
	require.NoError(t, err)

	require.Equal(t, a.NumStates(), b.NumStates())
	for i := 0; i < a.NumStates(); i++ {
		assert.Equal(t, a.State(i).Label(), b.State(i).Label())
	}
	assert.Equal(t, a.Transitions(), b.Transitions())
	assert.Equal(t, a.AcceptingLabels(), b.AcceptingLabels())
}

func TestTransformAccepting(t *testing.T) {
	nfa := endsIn01(t)
	finals := []StateId{"q2", "nope"}
	dfa, err := TransformToDfa(nfa, finals, &Options{Separator: ","})
	require.NoError(t, err)
	for i := 0; i < dfa.NumStates(); i++ {
		ds := dfa.State(i)
		assert.Equal(t, ds.Composite().Contains("q2"), ds.IsAccepting(), ds.Label())
	}
	assert.Equal(t, []string{"q0,q2"}, dfa.AcceptingLabels())
}

func TestTransformUnknownFinals(t *testing.T) {
	dfa, err := TransformToDfa(exampleNfa(t), []StateId{"Z"}, nil)
	require.NoError(t, err)
	assert.Zero(t, dfa.NumAccepting())
	assert.False(t, dfa.Accepts([]Symbol{"0"}))
}

func TestTransformLanguage(t *testing.T) {
	cases := []struct {
		name   string
		nfa    *Nfa
		finals []StateId
	}{
		{"example", exampleNfa(t), []StateId{"B"}},
		{"dead", deadNfa(t), []StateId{"B"}},
		{"ends in 01", endsIn01(t), []StateId{"q2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dfa, err := TransformToDfa(tc.nfa, tc.finals, &Options{Separator: ","})
			require.NoError(t, err)
			for _, input := range allStrings(tc.nfa.Alphabet(), 6) {
				assert.Equal(t, tc.nfa.Accepts(tc.finals, input), dfa.Accepts(input), "%v", input)
			}
		})
	}
}

func allStrings(alphabet []Symbol, maxLen int) [][]Symbol {
	res := [][]Symbol{{}}
	layer := [][]Symbol{{}}
	for n := 0; n < maxLen; n++ {
		var next [][]Symbol
		for _, prefix := range layer {
			for _, sym := range alphabet {
				s := append(append([]Symbol{}, prefix...), sym)
				next = append(next, s)
			}
		}
		res = append(res, next...)
		layer = next
	}
	return res
}

func TestSeedPhase(t *testing.T) {
	nfa, err := NewNfaBuilder().
		AddState("A").
		AddState("B").
		AddTransition("A", "x", "B").
		AddTransition("B", "x", "A").
		Build()
	require.NoError(t, err)

	c := newConstruction(nfa, nil)
	require.NoError(t, c.seed())
	require.Len(t, c.items, 2)
	assert.Equal(t, "A", c.items[0].label)
	assert.Equal(t, "B", c.items[1].label)
	assert.Equal(t, []int{1}, c.items[0].next)
	assert.Equal(t, 1, c.queue.Size())

	// B leads back to A; A's row was produced by the seed and is not
	// queued a second time.
	require.NoError(t, c.expand())
	assert.Len(t, c.items, 2)
	assert.Equal(t, []int{0}, c.items[1].next)
	assert.True(t, c.queue.Empty())
}

func TestTransformInconsistentAlphabet(t *testing.T) {
	nfa, err := NewNfaBuilder().
		AddState("A").
		AddState("B").
		AddTransition("A", "0", "B").
		AddTransition("B", "0", "A").
		AddTransition("B", "1", "B").
		Build()
	require.NoError(t, err)
	assert.False(t, nfa.AlphabetConsistent())

	dfa, err := TransformToDfa(nfa, []StateId{"B"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []Symbol{"0"}, dfa.Alphabet())
	assert.Equal(t, map[string]map[Symbol]string{
		"A": {"0": "B"},
		"B": {"0": "A"},
	}, dfa.Transitions())
	_, ok := dfa.InitialState().Transition("1")
	assert.False(t, ok)
	assert.False(t, dfa.Accepts([]Symbol{"0", "1"}))
}

func TestTransformStateLimit(t *testing.T) {
	_, err := TransformToDfa(endsIn01(t), nil, &Options{MaxStates: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStateLimit))
	var limitErr *StateLimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, 2, limitErr.Limit)

	dfa, err := TransformToDfa(endsIn01(t), nil, &Options{MaxStates: 3, Separator: ","})
	require.NoError(t, err)
	assert.Equal(t, 3, dfa.NumStates())
}

func TestTransformLabelCollision(t *testing.T) {
	b := NewNfaBuilder().AddState("S")
	for _, id := range []StateId{"A", "BC", "AB", "C"} {
		b.AddState(id)
	}
	b.AddTransition("S", "0", "A", "BC").AddTransition("S", "1", "AB", "C")
	nfa, err := b.Build()
	require.NoError(t, err)

	_, err = TransformToDfa(nfa, nil, nil)
	require.True(t, errors.Is(err, ErrLabelCollision))
	assert.Contains(t, err.Error(), `"ABC"`)
	assert.Contains(t, err.Error(), "separator")

	dfa, err := TransformToDfa(nfa, nil, &Options{Separator: ","})
	require.NoError(t, err)
	_, ok := dfa.Lookup("A,BC")
	assert.True(t, ok)
	_, ok = dfa.Lookup("AB,C")
	assert.True(t, ok)
}

func TestTransformEmpty(t *testing.T) {
	_, err := TransformToDfa(nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyAutomaton)
	_, err = TransformToDfa(&Nfa{}, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyAutomaton)
}

func TestTransformNoAlphabet(t *testing.T) {
	nfa, err := NewNfaBuilder().AddState("A").Build()
	require.NoError(t, err)
	dfa, err := TransformToDfa(nfa, []StateId{"A"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, dfa.NumStates())
	assert.True(t, dfa.Accepts(nil))
}

func TestDfaStep(t *testing.T) {
	dfa, err := TransformToDfa(exampleNfa(t), []StateId{"B"}, nil)
	require.NoError(t, err)

	a := dfa.InitialState()
	ab, ok := dfa.Step(a, "0")
	require.True(t, ok)
	assert.Equal(t, "AB", ab.Label())
	nxt, ok := dfa.Step(ab, "1")
	require.True(t, ok)
	assert.Same(t, ab, nxt)
	nxt, ok = dfa.Step(a, "1")
	require.True(t, ok)
	assert.Same(t, a, nxt)

	_, ok = dfa.Step(a, "2")
	assert.False(t, ok)
	_, ok = dfa.Step(nil, "0")
	assert.False(t, ok)

	other, err := TransformToDfa(exampleNfa(t), nil, nil)
	require.NoError(t, err)
	_, ok = dfa.Step(other.InitialState(), "0")
	assert.False(t, ok)
}

func TestDfaGraph(t *testing.T) {
	dfa, err := TransformToDfa(deadNfa(t), []StateId{"B"}, nil)
	require.NoError(t, err)

	var g DfaGraph = dfa
	require.Equal(t, dfa.NumStates(), g.NumStates())
	for i := 0; i < g.NumStates(); i++ {
		n := g.Node(i)
		assert.Equal(t, dfa.State(i).Label(), n.Label())
		assert.Equal(t, dfa.State(i).Composite().Members(), n.Members())
		for _, sym := range g.Alphabet() {
			want, _ := dfa.State(i).Transition(sym)
			got, ok := n.Next(sym)
			require.True(t, ok)
			assert.Equal(t, want.Id(), got.Id())
		}
		_, ok := n.Next("9")
		assert.False(t, ok)
	}
	assert.Nil(t, g.Node(g.NumStates()))
	require.Equal(t, 1, g.NumAccepting())
	assert.Equal(t, "B", g.AcceptingNode(0).Label())
	assert.Nil(t, g.AcceptingNode(1))

	var ng NfaGraph = deadNfa(t)
	assert.Equal(t, []StateId{"B"}, ng.Node(0).Transitions("0"))
	assert.Nil(t, ng.Node(5))
}

func TestTransformTrace(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	slog.SetDefault(logutil.NewLogger(&buf, logutil.LevelTrace))
	_, err := TransformToDfa(exampleNfa(t), []StateId{"B"}, nil)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "level=TRACE")
	assert.Contains(t, out, "msg=transition from=AB symbol=1 to=AB")
	assert.Contains(t, out, "msg=transition from=AB symbol=0 to=AB")

	buf.Reset()
	slog.SetDefault(logutil.NewLogger(&buf, slog.LevelDebug))
	_, err = TransformToDfa(exampleNfa(t), []StateId{"B"}, nil)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "msg=transition")
	assert.Contains(t, buf.String(), "subset construction finished")
}
