// Package similarity provides an exact, brute-force cosine similarity
// index over the catalog's feature vectors.
//
// The index is built once per catalog and is read-only afterwards, so
// concurrent queries need no coordination.
package similarity

import (
	"math"
	"sort"
)

// Neighbor is one query result: a catalog position and its cosine
// distance (1 - cosine similarity) from the query vector.
type Neighbor struct {
	Index    int
	Distance float64
}

// Similarity returns the cosine similarity implied by the distance.
func (n Neighbor) Similarity() float64 {
	return 1 - n.Distance
}

// Index stores the item vectors and their precomputed norms.
type Index struct {
	vectors [][]float64
	norms   []float64
}

// New builds an index from the full set of item feature vectors. The
// slice is retained; callers must not mutate it after construction.
func New(vectors [][]float64) *Index {
	norms := make([]float64, len(vectors))
	for i, v := range vectors {
		norms[i] = norm(v)
	}
	return &Index{vectors: vectors, norms: norms}
}

// Len returns the number of indexed vectors.
func (ix *Index) Len() int {
	return len(ix.vectors)
}

// KNearest returns up to k items ordered by ascending cosine distance.
// Ties keep catalog order so repeated queries are bit-identical. A k
// larger than the catalog simply returns every item. A zero query
// vector has no defined cosine with anything; every item is reported at
// distance 1 (similarity 0) in catalog order.
func (ix *Index) KNearest(query []float64, k int) []Neighbor {
	if k <= 0 {
		return nil
	}
	if k > len(ix.vectors) {
		k = len(ix.vectors)
	}

	qnorm := norm(query)
	out := make([]Neighbor, len(ix.vectors))
	for i, v := range ix.vectors {
		out[i] = Neighbor{Index: i, Distance: 1 - cosine(query, qnorm, v, ix.norms[i])}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Distance < out[b].Distance
	})
	return out[:k]
}

// cosine computes the cosine similarity given precomputed norms. A zero
// norm on either side yields 0 rather than NaN.
func cosine(a []float64, anorm float64, b []float64, bnorm float64) float64 {
	if anorm == 0 || bnorm == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (anorm * bnorm)
}

func norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
