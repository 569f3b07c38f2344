// Package df holds the data-dependence structures the analysis
// propagates facts over.
package df

import (
	"github.com/shadelang/shade/compiler/ir"
)

type (
	// FeedForward is a directed reader → writer dependence multigraph.
	// It exists solely to push the varying property forward: if a
	// reader turns out varying, everything it feeds must be varying
	// too. Edges are deduplicated on insert so propagation visits
	// each unique edge once.
	FeedForward struct {
		to   map[ir.SymID][]ir.SymID
		seen map[edge]struct{}
	}

	edge struct {
		from, to ir.SymID
	}
)

func NewFeedForward() *FeedForward {
	return &FeedForward{
		to:   map[ir.SymID][]ir.SymID{},
		seen: map[edge]struct{}{},
	}
}

// Insert adds from → to. Self edges are dropped.
func (g *FeedForward) Insert(from, to ir.SymID) {
	if from == to {
		return
	}

	e := edge{from: from, to: to}
	if _, ok := g.seen[e]; ok {
		return
	}

	g.seen[e] = struct{}{}
	g.to[from] = append(g.to[from], to)
}

// Edges returns the writers fed by from, in insertion order.
func (g *FeedForward) Edges(from ir.SymID) []ir.SymID { return g.to[from] }

func (g *FeedForward) NumEdges() int { return len(g.seen) }
