package multiblock

import (
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"

	"github.com/srohmen/palabos/sim/box"
)

// JoinStrategy selects how candidate lists of successive grids are
// intersected. Both strategies produce the same pieces in the same order.
type JoinStrategy string

const (
	// JoinRTree indexes the candidates of each grid in an R-tree and
	// queries it once per piece.
	JoinRTree JoinStrategy = "rtree"
	// JoinPairwise compares every piece with every candidate.
	JoinPairwise JoinStrategy = "pairwise"
)

var validJoinStrategies = map[JoinStrategy]bool{
	JoinRTree:    true,
	JoinPairwise: true,
	"":           true, // empty defaults to rtree
}

// IsValidJoinStrategy returns true if s names a join strategy.
func IsValidJoinStrategy(s string) bool {
	return validJoinStrategies[JoinStrategy(s)]
}

// piece is a multi-way intersection: a domain plus one block id per grid
// joined so far.
type piece struct {
	domain box.Box
	ids    []int
}

func (p piece) extend(c claim, domain box.Box) piece {
	ids := make([]int, len(p.ids)+1)
	copy(ids, p.ids)
	ids[len(p.ids)] = c.id
	return piece{domain: domain, ids: ids}
}

// joinAll intersects the claim lists of all grids in order. Output order is
// lexicographic in the claim indices of each grid.
func joinAll(strategy JoinStrategy, lists [][]claim) []piece {
	current := make([]piece, 0, len(lists[0]))
	for _, c := range lists[0] {
		current = append(current, piece{domain: c.domain, ids: []int{c.id}})
	}
	for _, next := range lists[1:] {
		if strategy == JoinPairwise {
			current = joinPairwise(current, next)
		} else {
			current = joinRTree(current, next)
		}
	}
	return current
}

func joinPairwise(left []piece, right []claim) []piece {
	var out []piece
	for _, p := range left {
		for _, c := range right {
			if d, ok := p.domain.Intersect(c.domain); ok {
				out = append(out, p.extend(c, d))
			}
		}
	}
	return out
}

// indexedClaim stores the position of a claim in its list next to its
// footprint, so hits can be put back in list order.
type indexedClaim struct {
	geom.Geom
	index int
}

// footprint is the x/y extent of b as a float rectangle. Cells are padded
// by a quarter so that adjacent boxes do not touch and single-cell boxes
// have area; z is filtered by the exact integer test afterwards.
func footprint(b box.Box) *geom.Bounds {
	const pad = 0.25
	return &geom.Bounds{
		Min: geom.Point{X: float64(b.Lo[0]) - pad, Y: float64(b.Lo[1]) - pad},
		Max: geom.Point{X: float64(b.Hi[0]) + pad, Y: float64(b.Hi[1]) + pad},
	}
}

func joinRTree(left []piece, right []claim) []piece {
	if len(left) == 0 || len(right) == 0 {
		return nil
	}
	tree := rtree.NewTree(25, 50)
	for i, c := range right {
		tree.Insert(&indexedClaim{Geom: footprint(c.domain), index: i})
	}
	var out []piece
	for _, p := range left {
		hits := tree.SearchIntersect(footprint(p.domain))
		indices := make([]int, 0, len(hits))
		for _, h := range hits {
			indices = append(indices, h.(*indexedClaim).index)
		}
		sort.Ints(indices)
		for _, j := range indices {
			if d, ok := p.domain.Intersect(right[j].domain); ok {
				out = append(out, p.extend(right[j], d))
			}
		}
	}
	return out
}
