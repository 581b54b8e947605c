// Package search implements the best-first (A*-style) search engine: given
// the bandit beliefs learned during a run of learning passes, it enumerates
// complete program traces as a lazy stream, ordered by a heuristic cost that
// combines accumulated and estimated-remaining log-density.
package search

import (
	"context"
	"math"
	"math/rand"

	"mapinfer/engine"
	"mapinfer/openlist"
	"mapinfer/trace"

	channerics "github.com/niceyeti/channerics/channels"
)

// Options configures a search traversal.
type Options struct {
	// HeuristicDraws is the number of belief draws the heuristic takes per
	// node; see Heuristic for how its sign changes the search's behavior.
	HeuristicDraws int
	Rng            *rand.Rand
}

// Stream is a best-first traversal of program, expanding all known arms at
// every sample checkpoint instead of selecting one, and yielding complete
// terminal states in the order the open list discovers them.
//
// A Stream is single-use and not safe for concurrent calls to Next: the open
// list it owns is not thread-safe.
type Stream struct {
	ol   *openlist.List
	opts Options
	next engine.Checkpoint
}

// NewStream starts a search traversal of program from beginState.
func NewStream(program engine.Program, beginState *engine.ProgramState, opts Options) *Stream {
	return &Stream{
		ol:   openlist.New(),
		opts: opts,
		next: program(beginState),
	}
}

// Next advances the trampoline until either a terminal state is produced
// (ok=true) or the open list is exhausted (ok=false). A node moves through
// created -> in-open -> popped -> resumed -> (sample -> re-expanded |
// result -> emitted).
func (st *Stream) Next() (*engine.ProgramState, bool) {
	for {
		cp := st.pull()
		if cp == nil {
			return nil, false
		}

		switch c := (*cp).(type) {
		case engine.Result:
			return c.State, true
		case engine.Sample:
			st.expand(c)
		default:
			panic("search: unrecognized checkpoint type")
		}
	}
}

// pull returns the next checkpoint to process: the pending one left over
// from construction or the previous expansion, or the result of popping and
// resuming the next open-list node. Returns nil once nothing remains.
func (st *Stream) pull() *engine.Checkpoint {
	if st.next != nil {
		cp := st.next
		st.next = nil
		return &cp
	}

	node, ok := st.ol.Pop()
	if !ok {
		return nil
	}
	cp := node.Resume().(engine.Checkpoint)
	return &cp
}

// expand inserts one child node per currently-known arm at s's choice site.
// A site with no learned bandit yet contributes no children: that branch
// simply dead-ends in this traversal.
func (st *Stream) expand(s engine.Sample) {
	site := s.State.Trace.NextSiteID(s.StaticID)
	b, ok := s.State.Bandits.Get(site)
	if !ok {
		return
	}

	pastReward := s.State.LogWeight
	continuation := s.Continuation

	for _, v := range b.Order {
		value := v
		arm := b.Arms[value]
		newState := s.State.Branch(s.Distribution.LogDensity(value), trace.Entry{
			Site:       site,
			Value:      value,
			PastReward: pastReward,
		})

		f := -pastReward + Heuristic(arm, st.opts.HeuristicDraws, st.opts.Rng)
		if math.IsNaN(f) {
			continue // InvalidHeuristic: drop the candidate, do not enqueue
		}

		st.ol.Insert(openlist.Node{
			Cost: f,
			Resume: func() any {
				return continuation(value, newState)
			},
		})
	}
}

// Channel drains the stream into a channel, closing it when the stream is
// exhausted or ctx is cancelled: a producer goroutine turns the pull-based
// generator into a pushed sequence a caller can range over or merge with
// channerics.
func (st *Stream) Channel(ctx context.Context) <-chan *engine.ProgramState {
	out := make(chan *engine.ProgramState)
	go func() {
		defer close(out)
		for {
			state, ok := st.Next()
			if !ok {
				return
			}
			select {
			case out <- state:
			case <-ctx.Done():
				return
			}
		}
	}()
	return channerics.OrDone(ctx.Done(), out)
}
