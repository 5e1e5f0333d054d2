package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"talentflow_backend/internal/models"
)

var (
	ErrNoJSONObject   = errors.New("response contains no JSON object")
	ErrUnbalancedJSON = errors.New("response contains no balanced JSON object")
)

// ExtractFirstJSONObject returns exactly the first balanced
// brace-delimited object in raw. Providers are known to return multiple
// concatenated objects or trailing noise; everything after the first
// object is ignored without error. Markdown code fences around the
// payload are stripped first.
func ExtractFirstJSONObject(raw string) (string, error) {
	raw = stripFences(raw)

	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", ErrNoJSONObject
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(raw); i++ {
		c := raw[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], nil
			}
		}
	}

	return "", ErrUnbalancedJSON
}

func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}

// ParseEvaluation extracts and validates the structured evaluation from
// a raw provider response. Missing object, malformed JSON, a score
// outside [0,100] or an unknown proficiency all fail the whole attempt.
func ParseEvaluation(raw string) (*Evaluation, error) {
	payload, err := ExtractFirstJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var eval Evaluation
	if err := json.Unmarshal([]byte(payload), &eval); err != nil {
		return nil, fmt.Errorf("unmarshal evaluation: %w", err)
	}

	if err := validateEvaluation(&eval); err != nil {
		return nil, err
	}

	return &eval, nil
}

func validateEvaluation(eval *Evaluation) error {
	scores := map[string]int{
		"skills_score":     eval.SkillsScore,
		"experience_score": eval.ExperienceScore,
		"education_score":  eval.EducationScore,
		"overall_score":    eval.OverallScore,
	}
	for name, score := range scores {
		if score < 0 || score > 100 {
			return fmt.Errorf("%s %d is outside [0,100]", name, score)
		}
	}

	if len(eval.Skills) == 0 {
		return errors.New("evaluation contains no skills")
	}

	for i, skill := range eval.Skills {
		if strings.TrimSpace(skill.Name) == "" {
			return fmt.Errorf("skill %d has an empty name", i)
		}
		if !models.Proficiency(strings.ToLower(string(skill.Proficiency))).Valid() {
			return fmt.Errorf("skill %q has unknown proficiency %q", skill.Name, skill.Proficiency)
		}
		eval.Skills[i].Proficiency = models.Proficiency(strings.ToLower(string(skill.Proficiency)))
	}

	return nil
}
