package query

import (
	"math"
	"sort"

	"github.com/seekr/seekr/internal/store"
)

// RRFConstant is the smoothing constant used in weighted Reciprocal Rank
// Fusion, matching the value used by most production hybrid search stacks
// (Azure AI Search, OpenSearch) and by the similarly-named engine this
// package is modeled on.
const RRFConstant = 60

type fusedHit struct {
	chunkID      uint64
	score        float64
	lexicalRank  int // 1-indexed; 0 means absent from the lexical list
	semanticRank int // 1-indexed; 0 means absent from the semantic list
}

// fuse combines lexical and semantic rankings into one list ordered by
// descending fused score. Ties are broken by preferring the better
// (lower-numbered) lexical rank, then by ascending chunk_id.
func fuse(lexical []store.BM25Result, semantic []store.VectorResult, alpha float64) []fusedHit {
	weightLexical := alpha
	weightSemantic := 1 - alpha

	byID := make(map[uint64]*fusedHit, len(lexical)+len(semantic))
	order := make([]uint64, 0, len(lexical)+len(semantic))

	get := func(id uint64) *fusedHit {
		if h, ok := byID[id]; ok {
			return h
		}
		h := &fusedHit{chunkID: id}
		byID[id] = h
		order = append(order, id)
		return h
	}

	for rank, r := range lexical {
		h := get(r.ChunkID)
		h.lexicalRank = rank + 1
		h.score += weightLexical / float64(RRFConstant+rank+1)
	}
	for rank, r := range semantic {
		h := get(r.ChunkID)
		h.semanticRank = rank + 1
		h.score += weightSemantic / float64(RRFConstant+rank+1)
	}

	hits := make([]fusedHit, 0, len(order))
	for _, id := range order {
		hits = append(hits, *byID[id])
	}

	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.score != b.score {
			return a.score > b.score
		}
		ar, br := effectiveRank(a.lexicalRank), effectiveRank(b.lexicalRank)
		if ar != br {
			return ar < br
		}
		return a.chunkID < b.chunkID
	})
	return hits
}

func effectiveRank(rank int) int {
	if rank == 0 {
		return math.MaxInt32
	}
	return rank
}

// kFetch returns the number of candidates to pull from each single-mode
// index before fusing, per spec: max(50, 2*k).
func kFetch(k int) int {
	if v := 2 * k; v > 50 {
		return v
	}
	return 50
}
