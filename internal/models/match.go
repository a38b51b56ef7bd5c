package models

// MatchStatus labels the quality of a single requirement match.
type MatchStatus string

const (
	StatusGood   MatchStatus = "good"
	StatusMedium MatchStatus = "medium"
	StatusWeak   MatchStatus = "weak"
	StatusNone   MatchStatus = "none"
)

// MatchRequest is the input contract of the matching endpoint.
// A nil Alpha takes the configured default.
type MatchRequest struct {
	JobDescription string   `json:"job_description"`
	CVText         string   `json:"cv_text"`
	Alpha          *float64 `json:"alpha,omitempty"`
}

// MatchDetail is the per-requirement breakdown: one row per job chunk,
// in the chunk's original order of appearance.
type MatchDetail struct {
	JobRequirement   string  `json:"job_requirement"`
	BestCVMatch      string  `json:"best_cv_match"`
	CVSection        string  `json:"cv_section"`
	Score            float64 `json:"score"`
	RawSemanticScore float64 `json:"raw_semantic_score"`
}

// MatchResponse is the engine's unified output.
type MatchResponse struct {
	FinalScore      float64 `json:"final_score"`
	SemanticScore   float64 `json:"semantic_score"`
	KeywordScore    float64 `json:"keyword_score"`
	ActionVerbScore float64 `json:"action_verb_score"`

	CommonKeywords  []string `json:"common_keywords"`
	MissingKeywords []string `json:"missing_keywords"`

	SectionScores map[string]float64 `json:"section_scores"`
	Details       []MatchDetail      `json:"details"`
}

// NewMatchResponse returns a zeroed response with non-nil lists so that
// degenerate results serialize as empty arrays, never null.
func NewMatchResponse() *MatchResponse {
	return &MatchResponse{
		CommonKeywords:  []string{},
		MissingKeywords: []string{},
		SectionScores:   map[string]float64{},
		Details:         []MatchDetail{},
	}
}

// CuratedMatchDetail is the tier-filtered view of a MatchDetail. The score
// is omitted entirely for non-premium callers.
type CuratedMatchDetail struct {
	Status          MatchStatus `json:"status"`
	JobRequirement  string      `json:"job_requirement"`
	CVMatch         string      `json:"cv_match"`
	CVSection       string      `json:"cv_section"`
	ScorePercentage *int        `json:"score_percentage,omitempty"`
}

// CuratedMatchResponse is what non-engine consumers see after tier curation.
type CuratedMatchResponse struct {
	FinalScorePercentage    *int                 `json:"final_score_percentage,omitempty"`
	MatchLevel              MatchStatus          `json:"match_level"`
	TopMatches              []CuratedMatchDetail `json:"top_matches"`
	UnaddressedRequirements []string             `json:"unaddressed_requirements"`
	CommonKeywords          []string             `json:"common_keywords"`
	MissingKeywords         []string             `json:"missing_keywords"`
	HiddenKeywordsCount     int                  `json:"hidden_keywords_count"`
}
