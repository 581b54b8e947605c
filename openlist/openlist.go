// Package openlist implements the best-first search engine's priority queue:
// pending nodes ordered ascending by cost, ties broken by insertion order.
package openlist

import "container/heap"

// Node is a pending search node: Cost is its f-value (accumulated cost plus
// heuristic estimate of remaining cost); Resume invokes the paused
// computation the node represents.
type Node struct {
	Cost   float64
	Resume func() any
}

// entry wraps a Node with the bookkeeping container/heap needs.
type entry struct {
	node  Node
	seq   int64
	index int
}

type innerHeap []*entry

func (h innerHeap) Len() int { return len(h) }

func (h innerHeap) Less(i, j int) bool {
	if h[i].node.Cost != h[j].node.Cost {
		return h[i].node.Cost < h[j].node.Cost
	}
	return h[i].seq < h[j].seq // FIFO among equal cost
}

func (h innerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *innerHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *innerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// List is a priority queue of Nodes, ordered ascending by (Cost, insertion
// order). It is not safe for concurrent use.
type List struct {
	h       innerHeap
	nextSeq int64
}

// New returns an empty open list.
func New() *List {
	return &List{}
}

// Insert enqueues node, assigning it a strictly increasing insertion key so
// that ties in Cost resolve FIFO.
func (l *List) Insert(node Node) {
	heap.Push(&l.h, &entry{node: node, seq: l.nextSeq})
	l.nextSeq++
}

// Pop removes and returns the minimum-priority node. ok is false if the list
// is empty.
func (l *List) Pop() (node Node, ok bool) {
	if l.h.Len() == 0 {
		return Node{}, false
	}
	e := heap.Pop(&l.h).(*entry)
	return e.node, true
}

// Len returns the number of pending nodes.
func (l *List) Len() int {
	return l.h.Len()
}
