package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// CourtRule is one pattern-plus-transform unit for the court station field.
// Rules are tried in slice order; order encodes precedence (high-court
// phrasings before magistrate phrasings).
type CourtRule struct {
	Name    string
	Pattern *regexp.Regexp // first capture group is the town name
	Suffix  string         // "High Court" or "Magistrate Court"
}

// DefaultCourtRules mirrors the phrasings printed in Kenya Gazette probate
// notices. The capture group runs greedily over letters and spaces; the
// extractor truncates the town to its first three words.
func DefaultCourtRules() []CourtRule {
	return []CourtRule{
		{
			Name:    "high-court-of-kenya",
			Pattern: regexp.MustCompile(`(?i)IN THE HIGH COURT OF KENYA AT\s+([A-Z\s]+)`),
			Suffix:  "High Court",
		},
		{
			Name:    "court-at",
			Pattern: regexp.MustCompile(`(?i)IN THE COURT AT\s+([A-Z\s]+)`),
			Suffix:  "Magistrate Court",
		},
		{
			Name:    "chief-magistrate-court",
			Pattern: regexp.MustCompile(`(?i)CHIEF MAGISTRATE\S* COURT AT\s+([A-Z\s]+)`),
			Suffix:  "Magistrate Court",
		},
		{
			Name:    "magistrate-court-of",
			Pattern: regexp.MustCompile(`(?i)MAGISTRATE COURT OF\s+([A-Z\s]+)`),
			Suffix:  "Magistrate Court",
		},
	}
}

// courtRulesSchema constrains operator-supplied rule files: an ordered,
// non-empty array of {name, pattern, suffix}.
func courtRulesSchema() map[string]any {
	return map[string]any{
		"type":     "array",
		"minItems": 1,
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"name":    map[string]any{"type": "string", "minLength": 1},
				"pattern": map[string]any{"type": "string", "minLength": 1},
				"suffix":  map[string]any{"type": "string", "enum": []string{"High Court", "Magistrate Court"}},
			},
			"required": []string{"name", "pattern", "suffix"},
		},
	}
}

type courtRuleJSON struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
	Suffix  string `json:"suffix"`
}

// LoadCourtRules reads an ordered rule list from a JSON file, validates it
// against the embedded schema, and compiles the patterns. File order becomes
// precedence order.
func LoadCourtRules(path string) ([]CourtRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read court rules: %w", err)
	}
	if err := validateAgainstSchema(courtRulesSchema(), data); err != nil {
		return nil, fmt.Errorf("court rules %s: %w", path, err)
	}

	var raw []courtRuleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode court rules: %w", err)
	}

	rules := make([]CourtRule, 0, len(raw))
	for _, r := range raw {
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("court rule %q: %w", r.Name, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("court rule %q: pattern needs a capture group for the town", r.Name)
		}
		rules = append(rules, CourtRule{Name: r.Name, Pattern: re, Suffix: r.Suffix})
	}
	return rules, nil
}

// validateAgainstSchema validates "data" against "schemaMap".
func validateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
