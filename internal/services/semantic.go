package services

import (
	"context"
	"strings"

	"recruitmate/match-engine/internal/config"
	"recruitmate/match-engine/internal/models"
)

// SemanticProcessor compares job-requirement chunks against CV chunks in
// embedding space and applies section weights to the winning matches.
type SemanticProcessor interface {
	Analyze(ctx context.Context, jobDoc *Document, cvSections []SectionDocument) (float64, []models.MatchDetail, map[string]float64, error)
}

type semanticProcessor struct {
	embedder Embedder
	cfg      *config.EngineConfig
}

func NewSemanticProcessor(embedder Embedder, cfg *config.EngineConfig) SemanticProcessor {
	return &semanticProcessor{embedder: embedder, cfg: cfg}
}

type cvChunk struct {
	text    string
	section string
	weight  float64
}

// fillerChunks are phrases long enough to pass the token filter but with
// no matching signal of their own.
var fillerChunks = map[string]bool{
	"nice to have":     true,
	"would be a plus":  true,
	"optional":         true,
	"is a plus":        true,
	"bonus points for": true,
}

// Analyze returns (semantic_score, details, section_breakdown).
//
// For every job chunk the best CV chunk is selected by the highest RAW
// similarity; the winning chunk's section weight is applied only after
// selection, so a high-weight section cannot steal a row it doesn't
// actually match best. Degenerate inputs (no chunks on either side)
// yield a valid zeroed result.
func (s *semanticProcessor) Analyze(ctx context.Context, jobDoc *Document, cvSections []SectionDocument) (float64, []models.MatchDetail, map[string]float64, error) {
	jobChunks := s.chunkDocument(jobDoc)
	if len(jobChunks) == 0 {
		return 0.0, []models.MatchDetail{}, map[string]float64{}, nil
	}

	cvChunks := s.collectCVChunks(cvSections)
	if len(cvChunks) == 0 {
		return 0.0, []models.MatchDetail{}, map[string]float64{}, nil
	}

	jobEmbeddings, err := s.embedder.Embed(ctx, jobChunks)
	if err != nil {
		return 0.0, nil, nil, err
	}

	cvTexts := make([]string, len(cvChunks))
	for i, c := range cvChunks {
		cvTexts[i] = c.text
	}
	cvEmbeddings, err := s.embedder.Embed(ctx, cvTexts)
	if err != nil {
		return 0.0, nil, nil, err
	}

	details := make([]models.MatchDetail, 0, len(jobChunks))
	totalWeighted := 0.0
	rawScoresBySection := map[string][]float64{}

	for i, requirement := range jobChunks {
		bestIdx := 0
		bestRaw := cosineSimilarity(jobEmbeddings[i], cvEmbeddings[0])
		for j := 1; j < len(cvChunks); j++ {
			if raw := cosineSimilarity(jobEmbeddings[i], cvEmbeddings[j]); raw > bestRaw {
				bestRaw = raw
				bestIdx = j
			}
		}

		winner := cvChunks[bestIdx]
		weighted := clamp01(bestRaw * winner.weight)

		details = append(details, models.MatchDetail{
			JobRequirement:   requirement,
			BestCVMatch:      winner.text,
			CVSection:        winner.section,
			Score:            round4(weighted),
			RawSemanticScore: round4(bestRaw),
		})
		totalWeighted += weighted
		rawScoresBySection[winner.section] = append(rawScoresBySection[winner.section], bestRaw)
	}

	score := clamp01(totalWeighted / float64(len(jobChunks)))

	breakdown := make(map[string]float64, len(rawScoresBySection))
	for section, scores := range rawScoresBySection {
		sum := 0.0
		for _, v := range scores {
			sum += v
		}
		breakdown[section] = round3(sum / float64(len(scores)))
	}

	return round4(score), details, breakdown, nil
}

// chunkDocument yields the document's sentence chunks, dropping fragments
// below the minimum token count and filler phrases.
func (s *semanticProcessor) chunkDocument(doc *Document) []string {
	if doc == nil {
		return nil
	}
	var chunks []string
	for _, sent := range doc.Sentences {
		if len(strings.Fields(sent)) < s.cfg.MinChunkTokens {
			continue
		}
		if fillerChunks[normalizeChunk(sent)] {
			continue
		}
		chunks = append(chunks, sent)
	}
	return chunks
}

func (s *semanticProcessor) collectCVChunks(cvSections []SectionDocument) []cvChunk {
	var chunks []cvChunk
	for _, section := range cvSections {
		weight := s.cfg.SectionWeight(section.Name)
		for _, text := range s.chunkDocument(section.Doc) {
			chunks = append(chunks, cvChunk{text: text, section: section.Name, weight: weight})
		}
	}
	return chunks
}

func normalizeChunk(sent string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(sent), ".:;!"))
}
