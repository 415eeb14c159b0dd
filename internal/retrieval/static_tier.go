package retrieval

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode"

	"github.com/argenova/mesai-ai/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed examples.yaml
var curatedYAML []byte

// domainKeywords drive the curated selection: the denser the work-hour
// vocabulary in a prompt, the more examples it gets. Day names are listed in
// both Turkish and ASCII-folded spelling.
var domainKeywords = []string{
	"pazartesi", "salı", "sali", "çarşamba", "carsamba",
	"perşembe", "persembe", "cuma", "cumartesi", "pazar",
	"mesai", "sabah", "öğle", "ogle", "akşam", "aksam", "gece",
}

// denseKeywordThreshold is the match count at which a prompt is considered
// firmly in-domain and gets three curated examples instead of two.
const denseKeywordThreshold = 3

// StaticExamples is the curated, immutable fallback corpus.
type StaticExamples struct {
	examples []models.Example
}

// LoadStaticExamples parses the embedded curated corpus.
func LoadStaticExamples() (*StaticExamples, error) {
	var examples []models.Example
	if err := yaml.Unmarshal(curatedYAML, &examples); err != nil {
		return nil, fmt.Errorf("parse curated examples: %w", err)
	}
	if len(examples) < maxResults {
		return nil, fmt.Errorf("curated corpus too small: %d examples", len(examples))
	}
	return &StaticExamples{examples: examples}, nil
}

// NewStaticExamples builds a corpus from explicit examples (for tests).
func NewStaticExamples(examples []models.Example) *StaticExamples {
	return &StaticExamples{examples: examples}
}

// All returns the full curated corpus.
func (s *StaticExamples) All() []models.Example {
	out := make([]models.Example, len(s.examples))
	copy(out, s.examples)
	return out
}

// Select returns the first three curated examples when the prompt matches at
// least three domain keywords, otherwise the first two.
func (s *StaticExamples) Select(prompt string) []models.Example {
	n := 2
	if KeywordMatches(prompt) >= denseKeywordThreshold {
		n = 3
	}
	if n > len(s.examples) {
		n = len(s.examples)
	}

	out := make([]models.Example, n)
	copy(out, s.examples[:n])
	return out
}

// KeywordMatches counts how many distinct domain keywords appear as whole
// words in the prompt. Whole-word matching keeps "pazartesi" from also
// counting as "pazar".
func KeywordMatches(prompt string) int {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(prompt), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		words[w] = true
	}

	count := 0
	for _, kw := range domainKeywords {
		if words[kw] {
			count++
		}
	}
	return count
}
