package services

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// Embedder turns text chunks into fixed-size vectors. Implementations
// must be deterministic for the same input and safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// localEmbedder is the default backend: hashed token and character
// trigram features, L2-normalized. No network, no model files, and
// bit-for-bit reproducible, which keeps scoring deterministic.
type localEmbedder struct {
	dims int
}

func NewLocalEmbedder(dims int) Embedder {
	if dims <= 0 {
		dims = 384
	}
	return &localEmbedder{dims: dims}
}

func (e *localEmbedder) Dimensions() int { return e.dims }

func (e *localEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = e.embedOne(text)
	}
	return vectors, nil
}

func (e *localEmbedder) embedOne(text string) []float32 {
	vec := make([]float32, e.dims)

	for _, token := range embeddingTokens(text) {
		vec[e.bucket(token)] += 1.0

		// Character trigrams catch morphology shared between related
		// words ("analysis"/"analytics") that whole tokens miss.
		runes := []rune(token)
		for j := 0; j+3 <= len(runes); j++ {
			vec[e.bucket("#"+string(runes[j:j+3]))] += 0.5
		}
	}

	normalize(vec)
	return vec
}

func (e *localEmbedder) bucket(feature string) int {
	h := fnv.New64a()
	h.Write([]byte(feature))
	return int(h.Sum64() % uint64(e.dims))
}

func embeddingTokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}

// cosineSimilarity of two vectors; zero when either has no magnitude.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
