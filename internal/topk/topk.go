// Package topk provides a bounded best-k selector for nearest neighbor
// candidates.
package topk

import "container/heap"

// Compile time check to ensure maxHeap satisfies the heap interface.
var _ heap.Interface = (*maxHeap)(nil)

// Neighbor pairs a candidate row with its distance to the query row.
type Neighbor struct {
	Row      int     // Row is the index of the candidate row.
	Distance float64 // Distance is the priority of the candidate.
}

// maxHeap orders neighbors worst-first so the farthest kept neighbor sits on
// top and can be evicted in O(log k).
type maxHeap []Neighbor

func (h maxHeap) Len() int            { return len(h) }
func (h maxHeap) Less(i, j int) bool  { return h[i].Distance > h[j].Distance }
func (h maxHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x any)         { *h = append(*h, x.(Neighbor)) }
func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Selector keeps the k nearest neighbors offered so far.
type Selector struct {
	k     int
	items maxHeap
}

// New creates a selector that retains at most k neighbors.
func New(k int) *Selector {
	return &Selector{
		k:     k,
		items: make(maxHeap, 0, k),
	}
}

// Offer considers a candidate. It is kept if fewer than k neighbors are held
// or if it is nearer than the current farthest.
func (s *Selector) Offer(row int, dist float64) {
	if len(s.items) < s.k {
		heap.Push(&s.items, Neighbor{Row: row, Distance: dist})
		return
	}
	if dist < s.items[0].Distance {
		s.items[0] = Neighbor{Row: row, Distance: dist}
		heap.Fix(&s.items, 0)
	}
}

// Len returns the number of neighbors currently held.
func (s *Selector) Len() int { return len(s.items) }

// Neighbors drains the selector and returns the kept neighbors ordered
// nearest-first. The selector is empty afterwards.
func (s *Selector) Neighbors() []Neighbor {
	out := make([]Neighbor, len(s.items))
	for i := len(s.items) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&s.items).(Neighbor)
	}
	return out
}
