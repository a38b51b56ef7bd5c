package services

import (
	"recruitmate/match-engine/internal/config"
)

func testEngineConfig() *config.EngineConfig {
	return &config.EngineConfig{
		DefaultAlpha:   0.7,
		MinInputLength: 50,
		MinChunkTokens: 3,
		SectionWeights: map[string]float64{
			"experience":    1.3,
			"projects":      1.15,
			"education":     1.1,
			"skills":        1.05,
			"summary":       1.0,
			"uncategorized": 1.0,
			"other":         0.5,
		},
		DefaultSectionWeight: 0.1,
		GoodThreshold:        0.65,
		MediumThreshold:      0.45,
		WeakThreshold:        0.30,
	}
}

// textDoc builds a document carrying only raw text, for components that
// never look at tokens or sentences.
func textDoc(text string) *Document {
	return &Document{Text: text}
}

// sentenceDoc builds a document from pre-segmented sentences.
func sentenceDoc(sentences ...string) *Document {
	var text string
	for i, s := range sentences {
		if i > 0 {
			text += " "
		}
		text += s
	}
	return &Document{Text: text, Sentences: sentences}
}
