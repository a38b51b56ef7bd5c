package services

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"recruitmate/match-engine/internal/config"
)

// SkillEntry is one skill concept: the preferred label every recognized
// surface form canonicalizes to, plus its alternate labels.
type SkillEntry struct {
	Preferred string
	Aliases   []string
}

// SkillRuleset recognizes canonical skills in free text. Built once at
// startup, safe for concurrent reads afterwards.
type SkillRuleset interface {
	// ExtractSkills returns the distinct canonical skills mentioned in the
	// text, in first-appearance order.
	ExtractSkills(text string) []string
	Size() int
	Version() string
}

type skillRuleset struct {
	version string
	size    int
	root    *trieNode
}

type trieNode struct {
	children  map[string]*trieNode
	canonical string
}

// rulesetCache is the on-disk compiled artifact, keyed by taxonomy version.
type rulesetCache struct {
	Version string
	Entries []SkillEntry
}

// NewSkillRuleset builds the recognition trie from the curated built-in
// skill list plus optional taxonomy CSVs. The compiled entries are cached
// to disk; a cache with a matching version is reused on later startups.
func NewSkillRuleset(cfg config.SkillsConfig) (SkillRuleset, error) {
	entries := builtinSkillEntries()

	for _, path := range []string{cfg.TaxonomyCSVPath, cfg.AddonCSVPath} {
		if path == "" {
			continue
		}
		loaded, err := loadTaxonomyCSV(path)
		if os.IsNotExist(err) {
			// Optional taxonomy: degrade to the built-in list.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load skill taxonomy %s: %w", path, err)
		}
		entries = mergeSkillEntries(entries, loaded)
		log.Printf("✅ Loaded %d skill concepts from %s\n", len(loaded), path)
	}

	version := hashSkillEntries(entries)

	if cfg.CachePath != "" {
		if cached, err := readRulesetCache(cfg.CachePath); err == nil && cached.Version == version {
			entries = cached.Entries
		} else if err := writeRulesetCache(cfg.CachePath, version, entries); err != nil {
			log.Printf("⚠️  Failed to cache compiled skill ruleset: %v\n", err)
		}
	}

	return &skillRuleset{
		version: version,
		size:    len(entries),
		root:    buildSkillTrie(entries),
	}, nil
}

func (r *skillRuleset) Size() int       { return r.size }
func (r *skillRuleset) Version() string { return r.version }

func (r *skillRuleset) ExtractSkills(text string) []string {
	tokens := skillTokenVariants(text)

	var found []string
	seen := make(map[string]bool)

	for i := 0; i < len(tokens); {
		length, canonical := r.matchAt(tokens, i)
		if length == 0 {
			i++
			continue
		}
		if !seen[canonical] {
			seen[canonical] = true
			found = append(found, canonical)
		}
		i += length
	}
	return found
}

// matchAt walks the trie from position i, trying every punctuation-trim
// variant per token, and returns the longest terminal match.
func (r *skillRuleset) matchAt(tokens [][]string, i int) (int, string) {
	bestLen := 0
	bestCanonical := ""

	var walk func(node *trieNode, idx, depth int)
	walk = func(node *trieNode, idx, depth int) {
		if node.canonical != "" && depth > bestLen {
			bestLen = depth
			bestCanonical = node.canonical
		}
		if idx >= len(tokens) {
			return
		}
		for _, v := range tokens[idx] {
			if child, ok := node.children[v]; ok {
				walk(child, idx+1, depth+1)
			}
		}
	}
	walk(r.root, i, 0)

	return bestLen, bestCanonical
}

const skillPunctCutset = ".,;:!?\"'()[]{}*"

// skillTokenVariants lowercases and whitespace-splits the text, attaching
// punctuation-trimmed variants per token so names like "C++", ".NET" or
// "node.js" survive as single units while "python," still matches.
func skillTokenVariants(text string) [][]string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([][]string, 0, len(fields))
	for _, f := range fields {
		variants := []string{f}
		for _, v := range []string{
			strings.TrimRight(f, skillPunctCutset),
			strings.TrimLeft(f, skillPunctCutset),
			strings.Trim(f, skillPunctCutset),
		} {
			if v != "" && !containsString(variants, v) {
				variants = append(variants, v)
			}
		}
		tokens = append(tokens, variants)
	}
	return tokens
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func buildSkillTrie(entries []SkillEntry) *trieNode {
	root := &trieNode{children: map[string]*trieNode{}}
	for _, entry := range entries {
		canonical := strings.ToLower(entry.Preferred)
		insertAlias(root, canonical, canonical)
		for _, alias := range entry.Aliases {
			insertAlias(root, strings.ToLower(alias), canonical)
		}
	}
	return root
}

func insertAlias(root *trieNode, alias, canonical string) {
	parts := strings.Fields(alias)
	if len(parts) == 0 {
		return
	}
	node := root
	for _, part := range parts {
		child, ok := node.children[part]
		if !ok {
			child = &trieNode{children: map[string]*trieNode{}}
			node.children[part] = child
		}
		node = child
	}
	if node.canonical == "" {
		node.canonical = canonical
	}
}

// hashSkillEntries derives the taxonomy version from its full content.
func hashSkillEntries(entries []SkillEntry) string {
	pairs := make([]string, 0, len(entries)*2)
	for _, entry := range entries {
		pairs = append(pairs, entry.Preferred+"=>"+entry.Preferred)
		for _, alias := range entry.Aliases {
			pairs = append(pairs, alias+"=>"+entry.Preferred)
		}
	}
	sort.Strings(pairs)

	h := sha256.New()
	for _, p := range pairs {
		h.Write([]byte(p))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// loadTaxonomyCSV reads an ESCO-style skills export: one row per concept
// with preferredLabel, altLabels and hiddenLabels columns, alternate
// labels newline-separated within the cell.
func loadTaxonomyCSV(path string) ([]SkillEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	idx := map[string]int{}
	for i, col := range header {
		idx[strings.TrimSpace(col)] = i
	}
	preferredCol, ok := idx["preferredLabel"]
	if !ok {
		return nil, fmt.Errorf("taxonomy CSV has no preferredLabel column")
	}
	altCol, hasAlt := idx["altLabels"]
	hiddenCol, hasHidden := idx["hiddenLabels"]

	var entries []SkillEntry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		if preferredCol >= len(record) {
			continue
		}
		preferred := strings.ToLower(strings.TrimSpace(record[preferredCol]))
		if preferred == "" {
			continue
		}

		var aliases []string
		if hasAlt && altCol < len(record) {
			aliases = append(aliases, splitLabelCell(record[altCol])...)
		}
		if hasHidden && hiddenCol < len(record) {
			aliases = append(aliases, splitLabelCell(record[hiddenCol])...)
		}
		entries = append(entries, SkillEntry{Preferred: preferred, Aliases: aliases})
	}
	return entries, nil
}

func splitLabelCell(cell string) []string {
	var labels []string
	for _, label := range strings.Split(cell, "\n") {
		label = strings.ToLower(strings.TrimSpace(label))
		if label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

func mergeSkillEntries(base, extra []SkillEntry) []SkillEntry {
	index := make(map[string]int, len(base))
	merged := append([]SkillEntry{}, base...)
	for i, entry := range merged {
		index[entry.Preferred] = i
	}
	for _, entry := range extra {
		if i, ok := index[entry.Preferred]; ok {
			for _, alias := range entry.Aliases {
				if !containsString(merged[i].Aliases, alias) {
					merged[i].Aliases = append(merged[i].Aliases, alias)
				}
			}
			continue
		}
		index[entry.Preferred] = len(merged)
		merged = append(merged, entry)
	}
	return merged
}

func readRulesetCache(path string) (*rulesetCache, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cached rulesetCache
	if err := gob.NewDecoder(f).Decode(&cached); err != nil {
		return nil, fmt.Errorf("failed to decode ruleset cache: %w", err)
	}
	return &cached, nil
}

func writeRulesetCache(path, version string, entries []SkillEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gob.NewEncoder(f).Encode(rulesetCache{Version: version, Entries: entries})
}

// builtinSkillEntries is the curated skill vocabulary used when no
// external taxonomy is configured. Alternate labels collapse to the
// preferred one.
func builtinSkillEntries() []SkillEntry {
	return []SkillEntry{
		// Data & AI
		{Preferred: "python"},
		{Preferred: "sql"},
		{Preferred: "nosql"},
		{Preferred: "postgresql", Aliases: []string{"postgres"}},
		{Preferred: "etl"},
		{Preferred: "data engineering"},
		{Preferred: "pandas"},
		{Preferred: "numpy"},
		{Preferred: "matplotlib"},
		{Preferred: "seaborn"},
		{Preferred: "scikit-learn", Aliases: []string{"sklearn"}},
		{Preferred: "tensorflow"},
		{Preferred: "pytorch"},
		{Preferred: "keras"},
		{Preferred: "langchain"},
		{Preferred: "rag"},
		{Preferred: "llm"},
		{Preferred: "machine learning"},
		{Preferred: "deep learning"},
		{Preferred: "data science"},
		{Preferred: "nlp"},

		// Web & Backend
		{Preferred: "django"},
		{Preferred: "flask"},
		{Preferred: "fastapi"},
		{Preferred: "react"},
		{Preferred: "typescript"},
		{Preferred: "javascript", Aliases: []string{"js"}},
		{Preferred: "html", Aliases: []string{"html5"}},
		{Preferred: "css", Aliases: []string{"css3"}},
		{Preferred: "node.js", Aliases: []string{"nodejs"}},
		{Preferred: "java"},
		{Preferred: "c++"},
		{Preferred: "c#"},
		{Preferred: ".net"},
		{Preferred: "go", Aliases: []string{"golang"}},
		{Preferred: "rust"},
		{Preferred: "php"},
		{Preferred: "laravel"},
		{Preferred: "spring boot"},

		// DevOps & Cloud
		{Preferred: "aws", Aliases: []string{"amazon web services"}},
		{Preferred: "azure"},
		{Preferred: "gcp", Aliases: []string{"google cloud"}},
		{Preferred: "docker"},
		{Preferred: "kubernetes", Aliases: []string{"k8s"}},
		{Preferred: "terraform"},
		{Preferred: "ansible"},
		{Preferred: "jenkins"},
		{Preferred: "git"},
		{Preferred: "github"},
		{Preferred: "gitlab"},
		{Preferred: "ci/cd"},
		{Preferred: "linux"},
		{Preferred: "bash"},

		// BI & Tools
		{Preferred: "power bi"},
		{Preferred: "tableau"},
		{Preferred: "excel"},
		{Preferred: "jira"},
		{Preferred: "confluence"},
		{Preferred: "slack"},

		// Soft skills & methodology
		{Preferred: "agile"},
		{Preferred: "scrum"},
		{Preferred: "kanban"},
		{Preferred: "leadership"},
		{Preferred: "communication"},
		{Preferred: "teamwork"},
		{Preferred: "problem solving"},
		{Preferred: "critical thinking"},
		{Preferred: "english"},
		{Preferred: "project management"},
		{Preferred: "time management"},
	}
}
