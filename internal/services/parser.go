package services

import (
	"regexp"
	"strings"
)

// Section is one labeled slice of a parsed document. Parsers return
// sections in a fixed canonical order so every downstream stage iterates
// deterministically.
type Section struct {
	Name string
	Text string
}

type SectionParser interface {
	Parse(raw string) []Section
}

// sectionParser splits raw text into labeled sections using
// header-detection heuristics and per-section regex alternations.
type sectionParser struct {
	order          []string
	patterns       map[string]*regexp.Regexp
	defaultSection string
	dropSections   map[string]bool
	bulletCleaner  *regexp.Regexp
}

const headerMaxWords = 6

// sentence-terminal punctuation that disqualifies a line as a header
var headerTerminators = []string{".", "!", ";", ","}

func newSectionParser(order []string, rawPatterns map[string][]string, defaultSection string, dropSections ...string) *sectionParser {
	patterns := make(map[string]*regexp.Regexp, len(rawPatterns))
	for section, alts := range rawPatterns {
		patterns[section] = regexp.MustCompile(`(?i)(?:` + strings.Join(alts, "|") + `)`)
	}

	hasDefault := false
	for _, name := range order {
		if name == defaultSection {
			hasDefault = true
			break
		}
	}
	if !hasDefault {
		order = append(append([]string{}, order...), defaultSection)
	}

	drop := make(map[string]bool, len(dropSections))
	for _, name := range dropSections {
		drop[name] = true
	}

	return &sectionParser{
		order:          order,
		patterns:       patterns,
		defaultSection: defaultSection,
		dropSections:   drop,
		bulletCleaner:  regexp.MustCompile(`^\s*(?:[-*•‣➤➔►◆▫▪]|\d+\.)\s+`),
	}
}

// Parse runs the core line loop: keep a current-section cursor, switch it
// on detected headers, normalize and buffer everything else. Documents
// with no recognizable headers land entirely in the default section.
func (p *sectionParser) Parse(raw string) []Section {
	buffers := make(map[string][]string, len(p.order))
	current := p.defaultSection

	for _, line := range strings.Split(raw, "\n") {
		rawLine := strings.TrimSpace(line)
		if rawLine == "" {
			continue
		}

		if section := p.detectSectionHeader(rawLine); section != "" {
			current = section
			continue
		}

		isBullet := p.bulletCleaner.MatchString(rawLine)
		cleanLine := rawLine
		if isBullet {
			cleanLine = strings.TrimSpace(p.bulletCleaner.ReplaceAllString(rawLine, ""))
		}
		if cleanLine == "" {
			continue
		}

		// Bullets start a new statement: close the previous buffered line
		// so sentence boundaries stay stable downstream.
		if isBullet {
			if buf := buffers[current]; len(buf) > 0 {
				last := buf[len(buf)-1]
				if last != "" && !endsWithAny(last, ".", "!", "?", ":") {
					buf[len(buf)-1] = last + "."
				}
			}
		}
		if !endsWithAny(cleanLine, ".", "!", "?", ":", ";") {
			cleanLine += "."
		}

		buffers[current] = append(buffers[current], cleanLine)
	}

	sections := make([]Section, 0, len(p.order))
	for _, name := range p.order {
		if p.dropSections[name] || len(buffers[name]) == 0 {
			continue
		}
		sections = append(sections, Section{Name: name, Text: strings.Join(buffers[name], "\n")})
	}
	return sections
}

func (p *sectionParser) detectSectionHeader(line string) string {
	if !isLikelyHeader(line) {
		return ""
	}
	for _, section := range p.order {
		pattern, ok := p.patterns[section]
		if !ok {
			continue
		}
		if pattern.MatchString(line) {
			return section
		}
	}
	return ""
}

// isLikelyHeader: headers are short and don't end like a sentence.
func isLikelyHeader(line string) bool {
	if line == "" {
		return false
	}
	if len(strings.Fields(line)) > headerMaxWords {
		return false
	}
	return !endsWithAny(line, headerTerminators...)
}

func endsWithAny(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

// NewCVParser parses candidate CVs into structured sections. Contact and
// legal boilerplate ("other") is recognized so it can be discarded.
func NewCVParser() SectionParser {
	return newSectionParser(
		[]string{"skills", "experience", "education", "projects", "summary", "other"},
		map[string][]string{
			"skills": {
				`skills`, `technologies`, `tech stack`,
				`competencies`, `expertise`, `toolbox`,
				`proficiencies`, `abilities`, `knowledg[e|es]?`,
				`languages?`,
			},
			"experience": {
				`experience`, `employment`, `work history`, `career`,
			},
			"education": {
				`education`, `academic`, `background`,
				`qualifi`, `credentials`, `certifi`,
			},
			"projects": {
				`projects`, `portfolios?`,
			},
			"summary": {
				`summary`, `profile`, `about`, `objective`, `overview`,
				`intro`,
			},
			"other": {
				`rodo`, `gdpr`, `consent`, `additional information`,
				`personal details`, `hobbies?`, `contacts?`,
			},
		},
		"summary",
		"other",
	)
}

// NewJobParser parses job postings into signal (requirements,
// responsibilities, education) and noise ("about us"/benefits), which is
// discarded.
func NewJobParser() SectionParser {
	return newSectionParser(
		[]string{"requirements", "responsibilities", "education", "about"},
		map[string][]string{
			"requirements": {
				`requirements`, `qualifications`, `what you bring`,
				`must have`, `skills`, `nice to have`, `profile`,
				`essential`, `technical requirements`, `you should have`,
				`who you are`, `what we look for`, `key skills`,
				`what you need`, `about you`, `preferred qualifications`,
				`competencies`, `capabilities`, `tech stack`, `if you`,
				`job description`,
			},
			"responsibilities": {
				`responsibilities`, `duties`, `what you'll do`,
				`what you will do`, `your role`, `scope`,
				`day to day`, `what you['’]ll`, `key tasks`,
				`accountabilities`, `you will`, `why join us`,
			},
			"education": {
				`education`, `academic`, `background`,
				`qualifi`, `credentials`, `certifi`,
			},
			"about": {
				`company overview`, `what we offer`, `benefits?`,
			},
		},
		"uncategorized",
		"about",
	)
}
