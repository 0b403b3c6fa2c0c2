// Package render writes automata as transition tables and YAML documents.
package render

import (
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v2"

	"github.com/dtromb/nfadfa"
)

// DeadLabel stands in for the dead state's empty label when Options.ShowDead
// is set.
var DeadLabel = "∅"

type Options struct {
	ShowDead bool
}

func (o *Options) cell(label string) string {
	if label == "" && o != nil && o.ShowDead {
		return DeadLabel
	}
	return label
}

func newTable(out io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func header(alphabet []nfadfa.Symbol) []string {
	res := []string{"", "STATE"}
	for _, sym := range alphabet {
		res = append(res, string(sym))
	}
	return res
}

// marker is "->" for the initial state and "*" for accepting states.
func marker(initial, accepting bool) string {
	var sb strings.Builder
	if initial {
		sb.WriteString("->")
	}
	if accepting {
		sb.WriteString("*")
	}
	return sb.String()
}

// WriteNfa writes one row per NFA state and one column per alphabet symbol.
// Transitions on symbols outside the alphabet are not shown.
func WriteNfa(nfa nfadfa.NfaGraph, finals []nfadfa.StateId, out io.Writer) {
	alphabet := nfa.Alphabet()
	isFinal := make(map[nfadfa.StateId]bool, len(finals))
	for _, f := range finals {
		isFinal[f] = true
	}
	table := newTable(out, header(alphabet))
	for i := 0; i < nfa.NumStates(); i++ {
		st := nfa.Node(i)
		row := []string{marker(i == 0, isFinal[st.Id()]), string(st.Id())}
		for _, sym := range alphabet {
			var names []string
			for _, t := range st.Transitions(sym) {
				names = append(names, string(t))
			}
			row = append(row, "["+strings.Join(names, ",")+"]")
		}
		table.Append(row)
	}
	table.Render()
}

// WriteDfa writes one row per DFA state in discovery order. A nil opts
// writes labels as they are.
func WriteDfa(dfa nfadfa.DfaGraph, out io.Writer, opts *Options) {
	alphabet := dfa.Alphabet()
	table := newTable(out, header(alphabet))
	for i := 0; i < dfa.NumStates(); i++ {
		ds := dfa.Node(i)
		row := []string{marker(ds.IsInitial(), ds.IsAccepting()), opts.cell(ds.Label())}
		for _, sym := range alphabet {
			nxt, _ := ds.Next(sym)
			row = append(row, opts.cell(nxt.Label()))
		}
		table.Append(row)
	}
	table.Render()
}

func WriteAccepting(dfa nfadfa.DfaGraph, out io.Writer, opts *Options) error {
	labels := make([]string, dfa.NumAccepting())
	for i := range labels {
		labels[i] = opts.cell(dfa.AcceptingNode(i).Label())
	}
	_, err := io.WriteString(out, "final states: {"+strings.Join(labels, ", ")+"}\n")
	return err
}

type stateDoc struct {
	Label       string        `yaml:"label"`
	Members     []string      `yaml:"members,flow"`
	Accepting   bool          `yaml:"accepting,omitempty"`
	Transitions yaml.MapSlice `yaml:"transitions"`
}

type dfaDoc struct {
	Alphabet []string   `yaml:"alphabet,flow"`
	Initial  string     `yaml:"initial"`
	States   []stateDoc `yaml:"states"`
	Finals   []string   `yaml:"finals,flow"`
}

// MarshalDfa encodes the DFA as YAML. Labels are written as-is, so the dead
// state appears as the empty string.
func MarshalDfa(dfa nfadfa.DfaGraph) ([]byte, error) {
	doc := dfaDoc{
		Finals: []string{},
	}
	if dfa.NumStates() > 0 {
		doc.Initial = dfa.Node(0).Label()
	}
	for i := 0; i < dfa.NumAccepting(); i++ {
		doc.Finals = append(doc.Finals, dfa.AcceptingNode(i).Label())
	}
	for _, sym := range dfa.Alphabet() {
		doc.Alphabet = append(doc.Alphabet, string(sym))
	}
	for i := 0; i < dfa.NumStates(); i++ {
		ds := dfa.Node(i)
		sd := stateDoc{
			Label:     ds.Label(),
			Members:   []string{},
			Accepting: ds.IsAccepting(),
		}
		for _, m := range ds.Members() {
			sd.Members = append(sd.Members, string(m))
		}
		for _, sym := range dfa.Alphabet() {
			nxt, _ := ds.Next(sym)
			sd.Transitions = append(sd.Transitions, yaml.MapItem{Key: string(sym), Value: nxt.Label()})
		}
		doc.States = append(doc.States, sd)
	}
	return yaml.Marshal(&doc)
}
