package retrieval

import (
	"math"
	"sort"

	"github.com/carneosk-source/carneo-ai-bot/internal/domain"
)

// Cosine computes the cosine similarity of two vectors over their common
// prefix. Vectors of different lengths are compared up to the shorter one.
// Zero-norm input yields 0 rather than NaN.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Rank scores every document against the query vector, drops hits below
// minScore and returns at most k hits ordered by descending score.
// The threshold applies before truncation, so a weak hit never pushes a
// passing one out of the top k.
func Rank(coll domain.Collection, query []float32, k int, minScore float64) []domain.Hit {
	scored := make([]domain.Hit, 0, len(coll.Documents))
	for _, doc := range coll.Documents {
		if len(doc.Embedding) == 0 {
			continue
		}
		score := Cosine(query, doc.Embedding)
		if score < minScore {
			continue
		}
		scored = append(scored, domain.Hit{Document: doc, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored
}
