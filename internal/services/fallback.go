package services

import (
	"math"
	"sort"
	"strings"
)

// FallbackProcessor is the statistical safety net: classic TF-IDF cosine
// similarity over lemmatized terms, used only when the skill extractor
// finds zero required skills in the job text.
type FallbackProcessor interface {
	Analyze(jobDoc, cvDoc *Document) (float64, []string)
}

type fallbackProcessor struct{}

func NewFallbackProcessor() FallbackProcessor {
	return &fallbackProcessor{}
}

const fallbackTopKeywords = 10

// Analyze returns (similarity_score, common_keywords). Vocabulary
// exhaustion (documents made of stopwords only) yields (0, nil) rather
// than an error.
func (f *fallbackProcessor) Analyze(jobDoc, cvDoc *Document) (float64, []string) {
	jobTerms := lemmatizedTerms(jobDoc)
	cvTerms := lemmatizedTerms(cvDoc)
	if len(jobTerms) == 0 || len(cvTerms) == 0 {
		return 0.0, nil
	}

	// Sorted vocabulary keeps vector layout, and therefore keyword
	// selection, deterministic.
	vocabSet := make(map[string]bool, len(jobTerms)+len(cvTerms))
	for _, t := range jobTerms {
		vocabSet[t] = true
	}
	for _, t := range cvTerms {
		vocabSet[t] = true
	}
	vocab := make([]string, 0, len(vocabSet))
	for t := range vocabSet {
		vocab = append(vocab, t)
	}
	sort.Strings(vocab)

	jobVec := tfidfVector(jobTerms, cvTerms, vocab)
	cvVec := tfidfVector(cvTerms, jobTerms, vocab)

	score := 0.0
	for i := range vocab {
		score += jobVec[i] * cvVec[i]
	}

	type weightedTerm struct {
		term   string
		weight float64
	}
	var overlap []weightedTerm
	for i, term := range vocab {
		if w := jobVec[i] * cvVec[i]; w > 0 {
			overlap = append(overlap, weightedTerm{term: term, weight: w})
		}
	}
	sort.Slice(overlap, func(a, b int) bool {
		if overlap[a].weight != overlap[b].weight {
			return overlap[a].weight > overlap[b].weight
		}
		return overlap[a].term < overlap[b].term
	})
	if len(overlap) > fallbackTopKeywords {
		overlap = overlap[:fallbackTopKeywords]
	}

	keywords := make([]string, len(overlap))
	for i, wt := range overlap {
		keywords[i] = wt.term
	}

	return round4(score), keywords
}

// lemmatizedTerms keeps alphabetic non-stopword tokens of at least two
// characters, reduced to their base form.
func lemmatizedTerms(doc *Document) []string {
	if doc == nil {
		return nil
	}
	var terms []string
	for _, tok := range doc.Tokens {
		lower := strings.ToLower(tok.Text)
		if !isAlphaWord(lower) || isStopword(lower) {
			continue
		}
		if len(tok.Lemma) < 2 {
			continue
		}
		terms = append(terms, tok.Lemma)
	}
	return terms
}

// tfidfVector builds the L2-normalized TF-IDF vector for a document,
// with smooth IDF over the two-document corpus.
func tfidfVector(docTerms, otherTerms []string, vocab []string) []float64 {
	tf := make(map[string]float64, len(docTerms))
	for _, t := range docTerms {
		tf[t]++
	}
	otherSet := make(map[string]bool, len(otherTerms))
	for _, t := range otherTerms {
		otherSet[t] = true
	}

	const nDocs = 2.0
	vec := make([]float64, len(vocab))
	for i, term := range vocab {
		count := tf[term]
		if count == 0 {
			continue
		}
		df := 1.0
		if otherSet[term] {
			df = 2.0
		}
		idf := math.Log((1+nDocs)/(1+df)) + 1
		vec[i] = count * idf
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}
