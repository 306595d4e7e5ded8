// Package encode maps categorical genre labels to fixed-width binary
// feature vectors over a frozen vocabulary.
package encode

import "sort"

// Encoder holds the genre vocabulary derived from a catalog. The
// vocabulary is frozen at construction time; encoding never mutates it.
type Encoder struct {
	vocab   []string
	indexOf map[string]int
}

// NewEncoder derives the vocabulary from the union of all genre lists.
// Labels are sorted lexicographically so the coordinate order is
// reproducible across runs for the same catalog.
func NewEncoder(genreLists [][]string) *Encoder {
	seen := make(map[string]struct{})
	for _, labels := range genreLists {
		for _, l := range labels {
			if l == "" {
				continue
			}
			seen[l] = struct{}{}
		}
	}

	vocab := make([]string, 0, len(seen))
	for l := range seen {
		vocab = append(vocab, l)
	}
	sort.Strings(vocab)

	indexOf := make(map[string]int, len(vocab))
	for i, l := range vocab {
		indexOf[l] = i
	}
	return &Encoder{vocab: vocab, indexOf: indexOf}
}

// Vocabulary returns a copy of the frozen vocabulary in coordinate order.
func (e *Encoder) Vocabulary() []string {
	out := make([]string, len(e.vocab))
	copy(out, e.vocab)
	return out
}

// Size returns the vector width, i.e. the number of distinct labels.
func (e *Encoder) Size() int {
	return len(e.vocab)
}

// Encode returns the binary vector for labels: 1 at each coordinate whose
// vocabulary label appears in the input, 0 elsewhere. Labels outside the
// vocabulary are silently ignored; duplicates and ordering of the input
// have no effect on the result.
func (e *Encoder) Encode(labels []string) []float64 {
	vec := make([]float64, len(e.vocab))
	for _, l := range labels {
		if i, ok := e.indexOf[l]; ok {
			vec[i] = 1
		}
	}
	return vec
}
