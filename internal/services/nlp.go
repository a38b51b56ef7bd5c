package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"
	"github.com/kljensen/snowball/english"
)

// Token is one annotated token: surface form, base form, penn-treebank
// POS tag, and a shallow syntactic role ("nsubj" for likely subjects).
type Token struct {
	Text  string
	Lemma string
	Tag   string
	Role  string
}

// Document is the immutable linguistic representation of one piece of
// text. Built once per request and consumed read-only downstream.
type Document struct {
	Text      string
	Sentences []string
	Tokens    []Token
}

// SectionDocument ties an annotated document to the section it came from.
type SectionDocument struct {
	Name string
	Doc  *Document
}

type NLPPipeline interface {
	Annotate(text string) (*Document, error)
}

type proseNLPPipeline struct{}

// NewNLPPipeline initializes the shared linguistic pipeline. The probe
// annotation forces the tagger's model data to load now, so a broken
// install fails at startup instead of on the first request.
func NewNLPPipeline() (NLPPipeline, error) {
	p := &proseNLPPipeline{}
	if _, err := p.Annotate("The matching engine is ready to serve."); err != nil {
		return nil, fmt.Errorf("failed to initialize linguistic pipeline: %w", err)
	}
	return p, nil
}

var whitespaceRegexp = regexp.MustCompile(`\s+`)

// Annotate runs tokenization, sentence segmentation and POS tagging over
// the text. Empty input yields an empty document, not an error.
func (p *proseNLPPipeline) Annotate(text string) (*Document, error) {
	flat := strings.TrimSpace(whitespaceRegexp.ReplaceAllString(text, " "))
	if flat == "" {
		return &Document{}, nil
	}

	doc, err := prose.NewDocument(flat, prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("failed to annotate text: %w", err)
	}

	proseSents := doc.Sentences()
	sentences := make([]string, 0, len(proseSents))
	for _, s := range proseSents {
		if t := strings.TrimSpace(s.Text); t != "" {
			sentences = append(sentences, t)
		}
	}

	proseTokens := doc.Tokens()
	tokens := make([]Token, 0, len(proseTokens))
	for _, tok := range proseTokens {
		lower := strings.ToLower(tok.Text)
		lemma := lower
		if isAlphaWord(lower) {
			lemma = english.Stem(lower, false)
		}
		tokens = append(tokens, Token{Text: tok.Text, Lemma: lemma, Tag: tok.Tag})
	}
	markSubjects(tokens)

	return &Document{Text: flat, Sentences: sentences, Tokens: tokens}, nil
}

// markSubjects tags nouns and pronouns that directly precede a verb as
// "nsubj". A shallow proxy for a dependency parse: good enough to tell
// "I led the migration" from a bare past participle.
func markSubjects(tokens []Token) {
	for i := range tokens {
		if !isVerbTag(tokens[i].Tag) {
			continue
		}
		for j := i - 1; j >= 0 && j >= i-2; j-- {
			if isVerbTag(tokens[j].Tag) {
				break
			}
			if isNominalTag(tokens[j].Tag) {
				tokens[j].Role = "nsubj"
				break
			}
		}
	}
}

func isVerbTag(tag string) bool {
	return strings.HasPrefix(tag, "VB")
}

func isNominalTag(tag string) bool {
	return strings.HasPrefix(tag, "NN") || strings.HasPrefix(tag, "PRP")
}

func isAlphaWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
