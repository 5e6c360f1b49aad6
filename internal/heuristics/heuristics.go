// Package heuristics isolates the naming-convention rules used to detect
// calculation fields, their source fields, and to normalize repeating-group
// names. Each rule is documented and individually testable so an explicit
// input-model annotation can replace it without touching the generators.
package heuristics

import (
	"strings"

	"github.com/homepresso/formgraph/internal/sanitize"
	"github.com/homepresso/formgraph/model"
)

// Set is the pluggable heuristics surface consumed by the generators.
type Set interface {
	// IsCalculationField reports whether the control is a derived-value
	// candidate.
	IsCalculationField(c model.Control) bool
	// IsSourceField reports whether the control feeds aggregate
	// calculations. Only controls inside a repeating group qualify.
	IsSourceField(c model.Control) bool
	// NormalizeGroupName canonicalizes a raw group name so that spelling
	// variants collapse to one group.
	NormalizeGroupName(raw string) string
	// ExcludedGroups lists group names whose instances of the given source
	// field must not feed its aggregate. Used when a field name is
	// ambiguous across semantically distinct groups.
	ExcludedGroups(sourceField string) []string
}

// Vocabulary configures the name-based heuristics.
type Vocabulary struct {
	// CalcTokens mark a non-editable single-line field as calculated.
	CalcTokens []string `yaml:"calc_tokens"`
	// SourceTokens mark a repeating-group field as an aggregate source.
	SourceTokens []string `yaml:"source_tokens"`
	// Exclusions maps a source field name to group names excluded from its
	// aggregation. Documented per field, not a general mechanism.
	Exclusions map[string][]string `yaml:"exclusions"`
}

// DefaultVocabulary returns the built-in token sets.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		CalcTokens:   []string{"total", "sum", "subtotal", "calc"},
		SourceTokens: []string{"amount", "price", "cost", "value"},
	}
}

// Names implements Set using name-convention matching.
type Names struct {
	vocab Vocabulary
}

// NewNames creates a Names heuristics set. Empty token lists fall back to
// the defaults so a partial vocabulary override stays usable.
func NewNames(vocab Vocabulary) *Names {
	def := DefaultVocabulary()
	if len(vocab.CalcTokens) == 0 {
		vocab.CalcTokens = def.CalcTokens
	}
	if len(vocab.SourceTokens) == 0 {
		vocab.SourceTokens = def.SourceTokens
	}
	return &Names{vocab: vocab}
}

// IsCalculationField qualifies non-editable, single-line data fields whose
// name carries an aggregate-sounding token.
func (n *Names) IsCalculationField(c model.Control) bool {
	if !c.ReadOnly || !c.Type.IsData() {
		return false
	}
	if c.Type == model.ControlMultiline {
		return false
	}
	return containsToken(c.FieldName, n.vocab.CalcTokens)
}

// IsSourceField qualifies data fields inside a repeating group whose name
// carries an amount-like token.
func (n *Names) IsSourceField(c model.Control) bool {
	if c.GroupName == "" || !c.Type.IsData() {
		return false
	}
	return containsToken(c.FieldName, n.vocab.SourceTokens)
}

// NormalizeGroupName canonicalizes raw group names.
func (n *Names) NormalizeGroupName(raw string) string {
	return sanitize.CanonicalizeName(raw)
}

// ExcludedGroups returns the configured exclusions for a source field.
func (n *Names) ExcludedGroups(sourceField string) []string {
	return n.vocab.Exclusions[strings.ToLower(sourceField)]
}

func containsToken(name string, tokens []string) bool {
	lower := strings.ToLower(name)
	for _, t := range tokens {
		if strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}
