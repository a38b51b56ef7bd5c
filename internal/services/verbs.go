package services

import (
	"github.com/kljensen/snowball/english"
)

// strongVerbRoots is the curated vocabulary of strong action verbs.
// Stored as surface roots; matching happens on stems so inflected forms
// ("spearheaded", "managing") resolve to the same root.
var strongVerbRoots = []string{
	// Leadership & management
	"lead", "manage", "spearhead", "orchestrate", "direct", "supervise", "oversee",
	"guide", "mentor", "coach", "train", "recruit", "hire", "onboard",
	"delegate", "chair", "govern", "administer", "steer", "captain", "mobilize",
	"empower", "champion", "authorize", "cultivate",

	// Creation, development & architecture
	"create", "develop", "design", "build", "architect", "engineer", "construct",
	"fabricate", "formulate", "invent", "originate", "establish", "found",
	"institute", "implement", "launch", "deploy", "ship", "pioneer", "initiate",
	"compose", "conceive", "craft", "forge", "generate",

	// Technical, data & operations
	"program", "code", "script", "configure", "install", "integrate", "migrate",
	"upgrade", "maintain", "repair", "troubleshoot", "debug", "refactor",
	"automate", "virtualize", "containerize", "scale", "digitize", "compute",
	"process", "extract", "transform", "load", "mine", "query", "index",

	// Analysis, problem solving & strategy
	"analyze", "evaluate", "assess", "audit", "investigate", "research",
	"examine", "explore", "survey", "quantify", "measure", "calculate",
	"model", "simulate", "forecast", "predict", "identify", "detect",
	"diagnose", "solve", "resolve", "tackle", "strategize", "conceptualize",
	"vision", "plan", "map", "chart", "benchmark", "deduce", "infer",

	// Optimization & improvement
	"optimize", "improve", "enhance", "maximize", "minimize", "reduce",
	"streamline", "accelerate", "boost", "amplify", "refine", "polish",
	"modernize", "revamp", "overhaul", "standardize", "restructure",
	"strengthen", "vitalize", "augment", "elevate",

	// Execution, delivery & achievement
	"execute", "deliver", "perform", "achieve", "attain", "accomplish",
	"complete", "finalize", "produce", "yield", "win", "secure", "exceed",
	"outperform", "succeed", "realize", "obtain", "fulfill", "drive",

	// Communication, negotiation & collaboration
	"communicate", "articulate", "present", "speak", "lecture", "negotiate",
	"persuade", "convince", "influence", "market", "sell", "promote",
	"advocate", "liaise", "collaborate", "partner", "cooperate", "coordinate",
	"facilitate", "moderate", "unify", "reconcile", "mediate", "arbitrate",
	"clarify", "define", "illustrate",

	// Documentation & compliance
	"document", "report", "author", "write", "publish", "draft", "edit",
	"review", "summarize", "outline", "verify", "validate", "certify",
	"ensure", "guarantee", "monitor", "track", "log", "record",
}

var strongRootStems = buildStrongRootStems()

func buildStrongRootStems() map[string]bool {
	stems := make(map[string]bool, len(strongVerbRoots))
	for _, root := range strongVerbRoots {
		stems[english.Stem(root, false)] = true
	}
	return stems
}

// analyzeActionVerbs scores the writing style of narrative sections: the
// fraction of verbs that are strong action verbs or carry an explicit
// subject (the active-voice proxy). Returns 0 when there are no verbs.
func analyzeActionVerbs(docs []*Document) float64 {
	totalVerbs := 0
	actionVerbs := 0

	for _, doc := range docs {
		if doc == nil || doc.Text == "" {
			continue
		}
		tokens := doc.Tokens
		for i, tok := range tokens {
			if !isVerbTag(tok.Tag) {
				continue
			}
			totalVerbs++
			if strongRootStems[tok.Lemma] {
				actionVerbs++
			} else if hasSubject(tokens, i) {
				actionVerbs++
			}
		}
	}

	if totalVerbs == 0 {
		return 0.0
	}
	return float64(actionVerbs) / float64(totalVerbs)
}

// hasSubject reports whether a subject token was marked just before the
// verb at index i.
func hasSubject(tokens []Token, i int) bool {
	for j := i - 1; j >= 0 && j >= i-2; j-- {
		if tokens[j].Role == "nsubj" {
			return true
		}
		if isVerbTag(tokens[j].Tag) {
			return false
		}
	}
	return false
}
