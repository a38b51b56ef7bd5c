package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"recruitmate/match-engine/internal/config"
	"recruitmate/match-engine/internal/models"
)

// MatchEngine is the single entry point of the hybrid matching pipeline.
// A pure, blocking, CPU-bound computation: dispatching it onto a worker
// pool is the caller's job.
type MatchEngine interface {
	CalculateMatch(ctx context.Context, req *models.MatchRequest) (*models.MatchResponse, error)
}

// hybridMatchEngine coordinates the data flow between parsers,
// processors and the final scoring formula. The processors it holds are
// built once at startup and shared read-only across requests.
type hybridMatchEngine struct {
	nlp       NLPPipeline
	cvParser  SectionParser
	jobParser SectionParser
	ner       NERProcessor
	semantic  SemanticProcessor
	fallback  FallbackProcessor
	cfg       *config.EngineConfig
}

func NewHybridMatchEngine(
	nlp NLPPipeline,
	ner NERProcessor,
	semantic SemanticProcessor,
	fallback FallbackProcessor,
	cfg *config.EngineConfig,
) MatchEngine {
	return &hybridMatchEngine{
		nlp:       nlp,
		cvParser:  NewCVParser(),
		jobParser: NewJobParser(),
		ner:       ner,
		semantic:  semantic,
		fallback:  fallback,
		cfg:       cfg,
	}
}

// Weight of the writing-style bonus in the final score. Style can nudge
// the result, never dominate it.
const styleBonusWeight = 0.05

// CalculateMatch runs the full pipeline:
// raw text -> parsed sections -> skill gap + semantic analysis ->
// fallback on zero signal -> weighted aggregation.
func (e *hybridMatchEngine) CalculateMatch(ctx context.Context, req *models.MatchRequest) (*models.MatchResponse, error) {
	// Step 1: parsing.
	cvSections := e.cvParser.Parse(req.CVText)
	jobSections := e.jobParser.Parse(req.JobDescription)

	// Job signal: the sections that matter for matching. A posting the
	// parser couldn't segment is used whole.
	jobTexts := make([]string, 0, len(jobSections))
	for _, s := range jobSections {
		jobTexts = append(jobTexts, s.Text)
	}
	jobSignal := strings.Join(jobTexts, " ")
	if jobSignal == "" {
		jobSignal = req.JobDescription
	}

	cvTexts := make([]string, 0, len(cvSections))
	for _, s := range cvSections {
		cvTexts = append(cvTexts, s.Text)
	}
	cvFullText := strings.Join(cvTexts, " ")

	// Step 2: one linguistic document per CV section plus the job signal.
	jobDoc, err := e.nlp.Annotate(jobSignal)
	if err != nil {
		return nil, fmt.Errorf("failed to annotate job text: %w", err)
	}

	cvDocs := make([]SectionDocument, 0, len(cvSections))
	for _, section := range cvSections {
		doc, err := e.nlp.Annotate(section.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to annotate cv section %s: %w", section.Name, err)
		}
		cvDocs = append(cvDocs, SectionDocument{Name: section.Name, Doc: doc})
	}

	// Step 3: skill gap analysis and semantic matching run over the same
	// parsed documents. Either may legitimately return 0 on zero signal.
	keywordScore, commonKeywords, missingKeywords := e.ner.Analyze(jobDoc, cvDocs)

	semanticScore, details, sectionScores, err := e.semantic.Analyze(ctx, jobDoc, cvDocs)
	if err != nil {
		return nil, fmt.Errorf("semantic analysis failed: %w", err)
	}

	// Step 4: writing style over the narrative sections only.
	var narrativeDocs []*Document
	for _, sd := range cvDocs {
		if sd.Name == "experience" || sd.Name == "projects" {
			narrativeDocs = append(narrativeDocs, sd.Doc)
		}
	}
	actionVerbScore := analyzeActionVerbs(narrativeDocs)

	// Step 5: fallback. A zero score together with an empty missing list
	// means the extractor found no required skills at all, not merely no
	// matches; statistical similarity keeps the result from flatlining.
	if keywordScore == 0.0 && len(missingKeywords) == 0 {
		cvFullDoc, err := e.nlp.Annotate(cvFullText)
		if err != nil {
			return nil, fmt.Errorf("failed to annotate cv text: %w", err)
		}
		fallbackScore, fallbackKeywords := e.fallback.Analyze(jobDoc, cvFullDoc)
		keywordScore = math.Max(keywordScore, fallbackScore)
		if len(commonKeywords) == 0 && len(fallbackKeywords) > 0 {
			if len(fallbackKeywords) > 5 {
				fallbackKeywords = fallbackKeywords[:5]
			}
			commonKeywords = fallbackKeywords
		}
	}

	// Step 6: final weighted aggregation.
	alpha := e.cfg.DefaultAlpha
	if req.Alpha != nil {
		alpha = clamp01(*req.Alpha)
	}

	baseScore := alpha*semanticScore + (1.0-alpha)*keywordScore
	finalScore := clamp01(baseScore*(1.0-styleBonusWeight) + actionVerbScore*styleBonusWeight)

	resp := models.NewMatchResponse()
	resp.FinalScore = round4(finalScore)
	resp.SemanticScore = round4(semanticScore)
	resp.KeywordScore = round4(keywordScore)
	resp.ActionVerbScore = round4(actionVerbScore)
	resp.CommonKeywords = append(resp.CommonKeywords, commonKeywords...)
	resp.MissingKeywords = append(resp.MissingKeywords, missingKeywords...)
	for section, score := range sectionScores {
		resp.SectionScores[section] = score
	}
	resp.Details = append(resp.Details, details...)

	return resp, nil
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
