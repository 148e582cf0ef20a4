package place

import (
	"slices"

	"github.com/matzehuels/netgrid/pkg/channel"
)

// CountCrossings returns the number of pairs of connections between two
// layouts that must cross. A connection joins the track of a net in src to
// each track of the same net in dst. Two connections (u1,v1) and (u2,v2)
// cross when u1 < u2 and v1 > v2.
//
// This counts inversions with a Fenwick tree in O(E log N) for E connections
// over N destination tracks.
func CountCrossings(src, dst channel.Layout) int {
	type edge struct{ from, to int }
	var edges []edge
	for to, s := range dst {
		id, ok := s.NetID()
		if !ok {
			continue
		}
		if from := src.Index(id); from >= 0 {
			edges = append(edges, edge{from, to})
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.from != b.from {
			return a.from - b.from
		}
		return a.to - b.to
	})

	fenwick := make([]int, len(dst)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		lessOrEqual := 0
		for q := e.to + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for u := e.to + 1; u < len(fenwick); u += u & (-u) {
			fenwick[u]++
		}
	}
	return crossings
}
