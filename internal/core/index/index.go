// Package index implements the per-document TF-IDF similarity index.
//
// Each document fits its own vocabulary from its chunk list; there is no
// vocabulary sharing across documents and no incremental re-indexing. An
// index is built once and immutable afterwards.
package index

import (
	"math"
	"sort"
)

// maxDocFreqRatio prunes terms that appear in more than this share of a
// document's chunks. Such terms carry no ranking signal inside the document.
const maxDocFreqRatio = 0.9

// Hit is one scored chunk returned by TopK.
type Hit struct {
	ChunkIndex int     `json:"chunk_id"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

// Index holds a fitted term-weighting model and one L2-normalized vector per
// chunk.
type Index struct {
	chunks  []string
	vocab   map[string]int
	idf     []float64
	vectors [][]float64
}

// New fits an index over the given chunk list. An empty chunk list yields a
// no-op index whose TopK always returns nothing.
func New(chunks []string) *Index {
	ix := &Index{
		chunks: chunks,
		vocab:  make(map[string]int),
	}
	if len(chunks) == 0 {
		return ix
	}

	tokenized := make([][]string, len(chunks))
	df := make(map[string]int)
	for i, chunk := range chunks {
		tokens := tokenize(chunk)
		tokenized[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	n := len(chunks)
	terms := make([]string, 0, len(df))
	for term, freq := range df {
		// The ratio test is meaningless for a single-chunk document: every
		// term would sit at 100% and the vocabulary would come out empty.
		if n > 1 && float64(freq)/float64(n) > maxDocFreqRatio {
			continue
		}
		terms = append(terms, term)
	}
	sort.Strings(terms)

	ix.idf = make([]float64, len(terms))
	for i, term := range terms {
		ix.vocab[term] = i
		ix.idf[i] = math.Log((1+float64(n))/(1+float64(df[term]))) + 1
	}

	ix.vectors = make([][]float64, n)
	for i, tokens := range tokenized {
		ix.vectors[i] = ix.vectorize(tokens)
	}
	return ix
}

// Size reports the number of indexed chunks.
func (ix *Index) Size() int {
	return len(ix.chunks)
}

// TopK scores the query against every chunk by cosine similarity and returns
// the k best hits. The sort is stable on a descending score key, so tied
// chunks keep ascending chunk order. k larger than the chunk count returns
// all chunks; an empty index returns nothing.
func (ix *Index) TopK(query string, k int) []Hit {
	if len(ix.chunks) == 0 || k <= 0 {
		return nil
	}

	queryVec := ix.vectorize(tokenize(query))
	hits := make([]Hit, len(ix.chunks))
	for i := range ix.chunks {
		hits[i] = Hit{
			ChunkIndex: i,
			Score:      dot(queryVec, ix.vectors[i]),
			Text:       ix.chunks[i],
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits
}

// vectorize projects tokens onto the fitted vocabulary and L2-normalizes the
// result. Tokens unseen at fit time are ignored.
func (ix *Index) vectorize(tokens []string) []float64 {
	vec := make([]float64, len(ix.idf))
	for _, tok := range tokens {
		if i, ok := ix.vocab[tok]; ok {
			vec[i]++
		}
	}

	norm := 0.0
	for i, count := range vec {
		if count == 0 {
			continue
		}
		weighted := count * ix.idf[i]
		vec[i] = weighted
		norm += weighted * weighted
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	// Normalized non-negative vectors keep cosine inside [0,1]; guard the
	// upper bound against float drift.
	if sum > 1 {
		return 1
	}
	return sum
}
