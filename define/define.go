// Package define reads automaton definitions: the form-shaped input of
// ordered state rows with fixed symbol slots, and YAML files of the same shape.
package define

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/dtromb/nfadfa"
)

var ErrNoStates = errors.New("definition has no states")

// Names is a list of state names. In YAML it may be written either as a
// sequence or as a single whitespace separated string.
type Names []string

func ParseNames(s string) Names {
	return Names(strings.Fields(s))
}

func (n *Names) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		*n = ParseNames(s)
		return nil
	}
	var l []string
	if err := unmarshal(&l); err != nil {
		return err
	}
	*n = Names(l)
	return nil
}

func (n Names) String() string {
	return strings.Join(n, " ")
}

type Slot struct {
	Symbol  string `yaml:"symbol"`
	Targets Names  `yaml:"targets"`
}

type Row struct {
	Name  string `yaml:"name"`
	Slots []Slot `yaml:"transitions"`
}

type Form struct {
	States []Row `yaml:"states"`
	Finals Names `yaml:"finals"`
}

// NewForm returns a blank form with numStates rows of numSymbols slots each.
func NewForm(numStates, numSymbols int) *Form {
	f := &Form{States: make([]Row, numStates)}
	for i := range f.States {
		f.States[i].Slots = make([]Slot, numSymbols)
	}
	return f
}

// Set fills slot j of row i; targets is whitespace separated.
func (f *Form) Set(i, j int, symbol, targets string) {
	f.States[i].Slots[j] = Slot{Symbol: symbol, Targets: ParseNames(targets)}
}

func (f *Form) FinalStates() []nfadfa.StateId {
	res := make([]nfadfa.StateId, len(f.Finals))
	for i, name := range f.Finals {
		res[i] = nfadfa.StateId(name)
	}
	return res
}

// Nfa builds the automaton described by the form. When a row repeats a
// symbol, the later slot's targets replace the earlier ones but the symbol
// keeps its first position.
func (f *Form) Nfa() (*nfadfa.Nfa, error) {
	if len(f.States) == 0 {
		return nil, ErrNoStates
	}
	b := nfadfa.NewNfaBuilder()
	seen := make(map[string]int)
	for i, row := range f.States {
		if j, has := seen[row.Name]; has {
			return nil, fmt.Errorf("state %d: %w: %q already defined by state %d", i+1, nfadfa.ErrDuplicateState, row.Name, j+1)
		}
		seen[row.Name] = i
		b.AddState(nfadfa.StateId(row.Name))
	}
	for _, row := range f.States {
		var order []string
		targets := make(map[string]Names)
		for _, slot := range row.Slots {
			if _, has := targets[slot.Symbol]; !has {
				order = append(order, slot.Symbol)
			}
			targets[slot.Symbol] = slot.Targets
		}
		from := nfadfa.StateId(row.Name)
		for _, sym := range order {
			ids := make([]nfadfa.StateId, len(targets[sym]))
			for k, name := range targets[sym] {
				ids[k] = nfadfa.StateId(name)
			}
			b.AddTransition(from, nfadfa.Symbol(sym), ids...)
		}
	}
	nfa, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("definition: %w", err)
	}
	return nfa, nil
}

func Parse(data []byte) (*Form, error) {
	var f Form
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	if len(f.States) == 0 {
		return nil, ErrNoStates
	}
	return &f, nil
}

func LoadFile(path string) (*Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}
