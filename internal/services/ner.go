package services

import (
	"recruitmate/match-engine/internal/config"
)

// NERProcessor performs skill recognition and gap analysis: which skills
// the job requires, which of them the CV covers, and at what section
// weight.
type NERProcessor interface {
	Analyze(jobDoc *Document, cvSections []SectionDocument) (float64, []string, []string)
}

type nerProcessor struct {
	ruleset SkillRuleset
	cfg     *config.EngineConfig
}

func NewNERProcessor(ruleset SkillRuleset, cfg *config.EngineConfig) NERProcessor {
	return &nerProcessor{ruleset: ruleset, cfg: cfg}
}

// Analyze returns (keyword_score, common_keywords, missing_keywords).
//
// A job with no recognizable skills yields (0, nil, nil): a zero-signal
// result the orchestrator answers with the fallback processor, not an
// error. Otherwise each required skill contributes the maximum section
// weight it was seen at in the CV, so a perfect score needs every
// required skill in the highest-weighted section.
func (n *nerProcessor) Analyze(jobDoc *Document, cvSections []SectionDocument) (float64, []string, []string) {
	jobSkills := n.ruleset.ExtractSkills(jobDoc.Text)
	if len(jobSkills) == 0 {
		return 0.0, nil, nil
	}

	// Max section weight per CV skill: a skill matters most where it
	// appears in "experience", even if it also shows up in "other".
	cvSkillWeights := make(map[string]float64)
	for _, section := range cvSections {
		if section.Doc == nil || section.Doc.Text == "" {
			continue
		}
		weight := n.cfg.SectionWeight(section.Name)
		for _, skill := range n.ruleset.ExtractSkills(section.Doc.Text) {
			if weight > cvSkillWeights[skill] {
				cvSkillWeights[skill] = weight
			}
		}
	}

	var common, missing []string
	total := 0.0
	for _, required := range jobSkills {
		if weight, ok := cvSkillWeights[required]; ok {
			total += weight
			common = append(common, required)
		} else {
			missing = append(missing, required)
		}
	}

	score := total / float64(len(jobSkills))
	return round4(score), common, missing
}
