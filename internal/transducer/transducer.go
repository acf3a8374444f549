// Package transducer implements the weighted finite-state transducer
// algebra: construction, dead-state removal, intersection (product
// construction with segment unification and epsilon loop rules),
// optimal-paths reduction (lexicographic Dijkstra relaxation and pruning),
// range enumeration, canonical string form, and DOT export.
package transducer

import (
	"container/heap"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/GalitDotan/Oatmeal/internal/costvector"
	"github.com/GalitDotan/Oatmeal/internal/errs"
	"github.com/GalitDotan/Oatmeal/internal/feature"
)

// State identifies a state by a label that is locally unique within its
// owning Transducer. States from different transducers sharing a label
// are distinct entities — State carries no cross-transducer identity.
type State struct {
	Label string
}

func NewState(label string) State { return State{Label: label} }

// Arc is a transition (source, input segment, output segment, cost
// vector, target).
type Arc struct {
	Source State
	Input  feature.Segment
	Output feature.Segment
	Cost   costvector.Vector
	Target State
}

// Transducer is a directed graph of States and Arcs with an initial
// state, a set of final states, and a declared cost-vector width that
// every arc's cost vector must match.
type Transducer struct {
	Width int
	Name  string

	states     map[string]State
	arcsBySrc  map[string][]Arc
	initial    State
	hasInitial bool
	finals     map[string]bool
}

// New creates an empty transducer with the given cost-vector width.
func New(width int, name string) *Transducer {
	return &Transducer{
		Width:     width,
		Name:      name,
		states:    make(map[string]State),
		arcsBySrc: make(map[string][]Arc),
		finals:    make(map[string]bool),
	}
}

func (t *Transducer) AddState(s State) {
	if _, ok := t.states[s.Label]; ok {
		return
	}
	t.states[s.Label] = s
}

func (t *Transducer) AddArc(a Arc) error {
	if a.Cost.Len() != t.Width {
		return errs.NewTransducerError("ArcWidthMismatch",
			fmt.Sprintf("arc cost width %d does not match transducer width %d", a.Cost.Len(), t.Width),
			map[string]any{"source": a.Source.Label, "target": a.Target.Label})
	}
	if _, ok := t.states[a.Source.Label]; !ok {
		return errs.NewTransducerError("UnknownState",
			fmt.Sprintf("source state %s was not added to the transducer", a.Source.Label), nil)
	}
	if _, ok := t.states[a.Target.Label]; !ok {
		return errs.NewTransducerError("UnknownState",
			fmt.Sprintf("target state %s was not added to the transducer", a.Target.Label), nil)
	}
	t.arcsBySrc[a.Source.Label] = append(t.arcsBySrc[a.Source.Label], a)
	return nil
}

func (t *Transducer) SetInitial(s State) {
	t.AddState(s)
	t.initial = s
	t.hasInitial = true
}

func (t *Transducer) AddFinal(s State) {
	t.AddState(s)
	t.finals[s.Label] = true
}

// SetAsSingleState makes s simultaneously the sole initial and final
// state of the transducer.
func (t *Transducer) SetAsSingleState(s State) {
	t.AddState(s)
	t.SetInitial(s)
	t.AddFinal(s)
}

func (t *Transducer) Initial() State     { return t.initial }
func (t *Transducer) IsFinal(l string) bool { return t.finals[l] }

// States returns all states in stable, label-sorted order.
func (t *Transducer) States() []State {
	labels := make([]string, 0, len(t.states))
	for l := range t.states {
		labels = append(labels, l)
	}
	slices.Sort(labels)
	out := make([]State, len(labels))
	for i, l := range labels {
		out[i] = t.states[l]
	}
	return out
}

// OutArcs returns the arcs leaving the state with the given label.
func (t *Transducer) OutArcs(label string) []Arc {
	return t.arcsBySrc[label]
}

// Arcs returns every arc in the transducer, in canonical sort order.
func (t *Transducer) Arcs() []Arc {
	var all []Arc
	for _, arcs := range t.arcsBySrc {
		all = append(all, arcs...)
	}
	sortArcs(all)
	return all
}

func sortArcs(arcs []Arc) {
	slices.SortFunc(arcs, func(a, b Arc) int {
		if c := strings.Compare(a.Source.Label, b.Source.Label); c != 0 {
			return c
		}
		if c := strings.Compare(a.Input.Symbol, b.Input.Symbol); c != 0 {
			return c
		}
		if c := strings.Compare(a.Output.Symbol, b.Output.Symbol); c != 0 {
			return c
		}
		if c := strings.Compare(a.Target.Label, b.Target.Label); c != 0 {
			return c
		}
		return costvector.Compare(a.Cost, b.Cost)
	})
}

// ClearDeadStates removes every state not reachable from the initial
// state, and every state from which no final state is reachable. Arcs
// incident to removed states are dropped. The initial state is always
// preserved, even if left isolated.
func (t *Transducer) ClearDeadStates() {
	reachableForward := t.reachableFrom(t.initial.Label, t.arcsBySrc)
	reverse := t.reverseAdjacency()
	reachableBackward := make(map[string]bool)
	for label := range t.finals {
		for s := range t.reachableFrom(label, reverse) {
			reachableBackward[s] = true
		}
	}

	keep := make(map[string]bool)
	for label := range t.states {
		if reachableForward[label] && reachableBackward[label] {
			keep[label] = true
		}
	}
	keep[t.initial.Label] = true

	newStates := make(map[string]State)
	for label := range keep {
		newStates[label] = t.states[label]
	}
	newArcs := make(map[string][]Arc)
	for src, arcs := range t.arcsBySrc {
		if !keep[src] {
			continue
		}
		for _, a := range arcs {
			if keep[a.Target.Label] {
				newArcs[src] = append(newArcs[src], a)
			}
		}
	}
	newFinals := make(map[string]bool)
	for label := range t.finals {
		if keep[label] {
			newFinals[label] = true
		}
	}

	t.states = newStates
	t.arcsBySrc = newArcs
	t.finals = newFinals
}

func (t *Transducer) reachableFrom(start string, adjacency map[string][]Arc) map[string]bool {
	seen := map[string]bool{start: true}
	stack := []string{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, a := range adjacency[cur] {
			if !seen[a.Target.Label] {
				seen[a.Target.Label] = true
				stack = append(stack, a.Target.Label)
			}
		}
	}
	return seen
}

func (t *Transducer) reverseAdjacency() map[string][]Arc {
	rev := make(map[string][]Arc)
	for _, arcs := range t.arcsBySrc {
		for _, a := range arcs {
			rev[a.Target.Label] = append(rev[a.Target.Label], Arc{
				Source: a.Target, Input: a.Input, Output: a.Output, Cost: a.Cost, Target: a.Source,
			})
		}
	}
	return rev
}

// CanonicalString produces a deterministic string key: states in stable
// sorted order, then arcs sorted by (source, input, output, target,
// cost), used as a memoization key.
func (t *Transducer) CanonicalString() string {
	var b strings.Builder
	fmt.Fprintf(&b, "N%d;S[", t.Width)
	for _, s := range t.States() {
		marker := ""
		if s.Label == t.initial.Label {
			marker += "I"
		}
		if t.finals[s.Label] {
			marker += "F"
		}
		fmt.Fprintf(&b, "%s%s,", s.Label, marker)
	}
	b.WriteString("];A[")
	for _, a := range t.Arcs() {
		fmt.Fprintf(&b, "(%s,%s,%s,%s,%s)", a.Source.Label, a.Input.Symbol, a.Output.Symbol, a.Target.Label, a.Cost)
	}
	b.WriteString("]")
	return b.String()
}

// WriteDOT writes a Graphviz DOT representation of the transducer, used
// only for debugging dumps.
func (t *Transducer) WriteDOT(w io.Writer) {
	fmt.Fprintf(w, "digraph %s {\n", sanitizeDotName(t.Name))
	for _, s := range t.States() {
		shape := "circle"
		if t.finals[s.Label] {
			shape = "doublecircle"
		}
		fmt.Fprintf(w, "  %q [shape=%s];\n", s.Label, shape)
	}
	if t.hasInitial {
		fmt.Fprintf(w, "  __start__ [shape=point];\n  __start__ -> %q;\n", t.initial.Label)
	}
	for _, a := range t.Arcs() {
		fmt.Fprintf(w, "  %q -> %q [label=%q];\n", a.Source.Label, a.Target.Label,
			fmt.Sprintf("%s:%s/%s", a.Input.Symbol, a.Output.Symbol, a.Cost))
	}
	fmt.Fprintln(w, "}")
}

func sanitizeDotName(name string) string {
	if name == "" {
		return "transducer"
	}
	var b strings.Builder
	for _, r := range name {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
