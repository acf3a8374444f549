package transducer

import (
	"container/heap"

	"github.com/GalitDotan/Oatmeal/internal/costvector"
)

// OptimalPathsReduce converts a transducer whose paths carry cost vectors
// into an "optimal paths" transducer whose surviving arcs are exactly
// those that lie on some lexicographically cost-minimal path from the
// initial state to a final state through their source state. Concretely:
// it computes, by Dijkstra-like relaxation under the lexicographic cost
// order, the best cost reaching every state from the initial state
// (forward) and the best cost reaching a final state from every state
// (backward); an arc survives iff its cost plus the backward cost of its
// target equals the backward cost of its source. Surviving arcs then have
// their cost vectors collapsed to the empty (width 0) vector: optimality
// has been absorbed into which arcs remain.
//
// Ties are preserved: when two continuations from a state achieve the
// same best cost, both survive, yielding multiple grammatical surface
// forms for one underlying form.
func (t *Transducer) OptimalPathsReduce() *Transducer {
	forward := dijkstra(t.Width, t.arcsBySrc, t.initial.Label)
	reverse := t.reverseAdjacency()
	backward := dijkstraMultiSource(t.Width, reverse, t.finals)

	out := New(0, t.Name+"#optimal")
	for _, s := range t.States() {
		out.AddState(s)
	}
	out.SetInitial(t.initial)
	for label := range t.finals {
		if _, ok := backward[label]; ok {
			out.AddFinal(NewState(label))
		}
	}

	for _, a := range t.Arcs() {
		bs, ok := backward[a.Source.Label]
		if !ok {
			continue
		}
		bt, ok := backward[a.Target.Label]
		if !ok {
			continue
		}
		if _, ok := forward[a.Source.Label]; !ok {
			continue
		}
		total, err := costvector.Add(a.Cost, bt)
		if err != nil {
			continue
		}
		if costvector.Equal(total, bs) {
			_ = out.AddArc(Arc{
				Source: a.Source,
				Input:  a.Input,
				Output: a.Output,
				Cost:   costvector.Empty(),
				Target: a.Target,
			})
		}
	}

	out.ClearDeadStates()
	return out
}

type distItem struct {
	label string
	dist  costvector.Vector
}

type distHeap []distItem

func (h distHeap) Len() int { return len(h) }
func (h distHeap) Less(i, j int) bool {
	return costvector.Less(h[i].dist, h[j].dist)
}
func (h distHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *distHeap) Push(x any)        { *h = append(*h, x.(distItem)) }
func (h *distHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// dijkstra computes, for each state reachable from source, the
// lexicographically minimal cost to reach it.
func dijkstra(width int, adjacency map[string][]Arc, source string) map[string]costvector.Vector {
	dist := map[string]costvector.Vector{source: costvector.Zeros(width)}
	h := &distHeap{{label: source, dist: dist[source]}}
	heap.Init(h)

	for h.Len() > 0 {
		cur := heap.Pop(h).(distItem)
		best, ok := dist[cur.label]
		if ok && costvector.Less(best, cur.dist) {
			continue
		}
		for _, a := range adjacency[cur.label] {
			next, err := costvector.Add(cur.dist, a.Cost)
			if err != nil {
				continue
			}
			if existing, ok := dist[a.Target.Label]; !ok || costvector.Less(next, existing) {
				dist[a.Target.Label] = next
				heap.Push(h, distItem{label: a.Target.Label, dist: next})
			}
		}
	}
	return dist
}

// dijkstraMultiSource runs the same relaxation from a virtual source
// connected with zero-cost edges to every label in sources.
func dijkstraMultiSource(width int, adjacency map[string][]Arc, sources map[string]bool) map[string]costvector.Vector {
	dist := make(map[string]costvector.Vector)
	h := &distHeap{}
	heap.Init(h)
	zero := costvector.Zeros(width)
	for label := range sources {
		dist[label] = zero
		heap.Push(h, distItem{label: label, dist: zero})
	}

	for h.Len() > 0 {
		cur := heap.Pop(h).(distItem)
		best, ok := dist[cur.label]
		if ok && costvector.Less(best, cur.dist) {
			continue
		}
		for _, a := range adjacency[cur.label] {
			next, err := costvector.Add(cur.dist, a.Cost)
			if err != nil {
				continue
			}
			if existing, ok := dist[a.Target.Label]; !ok || costvector.Less(next, existing) {
				dist[a.Target.Label] = next
				heap.Push(h, distItem{label: a.Target.Label, dist: next})
			}
		}
	}
	return dist
}
