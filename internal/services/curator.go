package services

import (
	"sort"

	"recruitmate/match-engine/internal/config"
	"recruitmate/match-engine/internal/models"
)

// ResponseCurator filters and obfuscates the raw engine output by
// subscription tier. A presentation-layer concern: scoring never
// depends on it.
type ResponseCurator interface {
	Curate(raw *models.MatchResponse, premium bool) *models.CuratedMatchResponse
}

type tierLimits struct {
	keywords    int
	topMatches  int
	unaddressed int
	showScores  bool
}

var (
	freeLimits    = tierLimits{keywords: 5, topMatches: 3, unaddressed: 3, showScores: false}
	premiumLimits = tierLimits{keywords: 50, topMatches: 10, unaddressed: 5, showScores: true}
)

type responseCurator struct {
	cfg *config.EngineConfig
}

func NewResponseCurator(cfg *config.EngineConfig) ResponseCurator {
	return &responseCurator{cfg: cfg}
}

func (c *responseCurator) Curate(raw *models.MatchResponse, premium bool) *models.CuratedMatchResponse {
	limits := freeLimits
	if premium {
		limits = premiumLimits
	}

	curated := &models.CuratedMatchResponse{
		MatchLevel:              c.statusFromScore(raw.FinalScore),
		TopMatches:              []models.CuratedMatchDetail{},
		UnaddressedRequirements: []string{},
		CommonKeywords:          truncate(raw.CommonKeywords, limits.keywords),
		MissingKeywords:         truncate(raw.MissingKeywords, limits.keywords),
	}

	if limits.showScores {
		pct := int(raw.FinalScore * 100)
		curated.FinalScorePercentage = &pct
	}

	for _, detail := range raw.Details {
		if detail.Score < c.cfg.MediumThreshold {
			continue
		}
		if len(curated.TopMatches) >= limits.topMatches {
			break
		}
		item := models.CuratedMatchDetail{
			Status:         c.statusFromScore(detail.Score),
			JobRequirement: detail.JobRequirement,
			CVMatch:        detail.BestCVMatch,
			CVSection:      detail.CVSection,
		}
		if limits.showScores {
			pct := int(detail.Score * 100)
			item.ScorePercentage = &pct
		}
		curated.TopMatches = append(curated.TopMatches, item)
	}

	// Requirements the CV barely addresses: worth flagging, below the
	// weak threshold it's noise. Weakest first, so the tier cap keeps
	// the biggest gaps visible.
	var weak []models.MatchDetail
	for _, detail := range raw.Details {
		if detail.Score >= c.cfg.MediumThreshold || detail.Score < c.cfg.WeakThreshold {
			continue
		}
		weak = append(weak, detail)
	}
	sort.SliceStable(weak, func(a, b int) bool { return weak[a].Score < weak[b].Score })
	if len(weak) > limits.unaddressed {
		weak = weak[:limits.unaddressed]
	}
	for _, detail := range weak {
		curated.UnaddressedRequirements = append(curated.UnaddressedRequirements, detail.JobRequirement)
	}

	curated.HiddenKeywordsCount = (len(raw.CommonKeywords) - len(curated.CommonKeywords)) +
		(len(raw.MissingKeywords) - len(curated.MissingKeywords))

	return curated
}

func (c *responseCurator) statusFromScore(score float64) models.MatchStatus {
	switch {
	case score >= c.cfg.GoodThreshold:
		return models.StatusGood
	case score >= c.cfg.MediumThreshold:
		return models.StatusMedium
	case score >= c.cfg.WeakThreshold:
		return models.StatusWeak
	default:
		return models.StatusNone
	}
}

func truncate(list []string, limit int) []string {
	if len(list) <= limit {
		return list
	}
	return list[:limit]
}
