// Package validation checks the visa catalog registry file before it is
// allowed anywhere near the engine. Structural checks run through a JSON
// schema; referential checks (transition targets, rule coverage) live in the
// catalog loader where the typed model is available.
package validation

import (
	"fmt"
	"regexp"

	"github.com/xeipuuv/gojsonschema"
)

// catalogSchema is the structural contract for visa-catalog.json. It rejects
// obviously broken files early with field-level messages; semantic rules are
// enforced after decoding.
const catalogSchema = `{
  "type": "object",
  "required": ["version", "nationalities", "entries", "nodes", "goalTerminals", "rules"],
  "properties": {
    "version": {"type": "string", "minLength": 1},
    "lastUpdated": {"type": "string"},
    "nationalities": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string", "pattern": "^[A-Z]{2}$"}
    },
    "nationalityAliases": {
      "type": "object",
      "additionalProperties": {"type": "string", "pattern": "^[A-Z]{2}$"}
    },
    "entries": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["code", "category", "nameKo", "baseScore"],
        "properties": {
          "code": {"type": "string", "minLength": 1},
          "category": {
            "type": "string",
            "enum": [
              "language-training", "study", "job-seeking",
              "non-professional-work", "seasonal-work",
              "professional-work", "working-visit", "residency"
            ]
          },
          "nameKo": {"type": "string", "minLength": 1},
          "nameEn": {"type": "string"},
          "baseScore": {"type": "number", "minimum": 0, "maximum": 100},
          "eligibility": {
            "type": "object",
            "properties": {
              "minAge": {"type": "integer", "minimum": 0},
              "maxAge": {"type": "integer", "minimum": 0},
              "nationalities": {"type": "array", "items": {"type": "string"}},
              "minEducation": {"type": "string"},
              "minFund": {"type": "string"}
            }
          },
          "goals": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "nodes": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {
        "type": "object",
        "required": ["code", "category", "nameKo", "months", "milestoneKo"],
        "properties": {
          "code": {"type": "string", "minLength": 1},
          "months": {"type": "integer", "minimum": 0},
          "costWon": {"type": "integer", "minimum": 0},
          "milestoneKo": {"type": "string", "minLength": 1}
        }
      }
    },
    "transitions": {
      "type": "object",
      "additionalProperties": {
        "type": "array",
        "items": {"type": "string"}
      }
    },
    "goalTerminals": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {
        "type": "array",
        "minItems": 1,
        "items": {"type": "string"}
      }
    },
    "rules": {
      "type": "object",
      "required": ["age", "nationality", "fund", "education", "goalFit", "priority"]
    }
  }
}`

// CatalogIssue is one structural problem found in a catalog document.
type CatalogIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (i CatalogIssue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// ValidateCatalogDocument validates raw catalog JSON against the structural
// schema. A nil slice means the document passed.
func ValidateCatalogDocument(raw []byte) ([]CatalogIssue, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(catalogSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("catalog schema validation: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	issues := make([]CatalogIssue, 0, len(result.Errors()))
	for _, resErr := range result.Errors() {
		issues = append(issues, CatalogIssue{
			Field:   resErr.Field(),
			Message: resErr.Description(),
		})
	}
	return issues, nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	emailPattern := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailPattern.MatchString(email)
}

// ValidatePhone validates basic phone number format
func ValidatePhone(phone string) bool {
	phonePattern := regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,}$`)
	return phonePattern.MatchString(phone)
}
