package pipeline

import (
	"fmt"

	"contact-harvester/internal/common/errors"
	"contact-harvester/internal/common/validation"
	"contact-harvester/internal/models"
)

const outputSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["knowledge_graph", "consolidated_contact_info"],
  "additionalProperties": false,
  "properties": {
    "knowledge_graph": {
      "type": ["object", "null"],
      "additionalProperties": false,
      "properties": {
        "title":       {"type": "string"},
        "rating":      {"type": "string"},
        "review_count": {"type": "string"},
        "price_tier":  {"type": "string"},
        "description": {"type": "string"},
        "address":     {"type": "string"},
        "phone":       {"type": "string"},
        "hours":       {"type": "string"},
        "social_media_profiles": {"type": "array", "items": {"type": "string"}}
      }
    },
    "consolidated_contact_info": {
      "type": "object",
      "required": ["social_media_profiles"],
      "additionalProperties": false,
      "properties": {
        "email":   {"type": "string", "format": "email"},
        "phone":   {"type": "string", "minLength": 1},
        "address": {"type": "string", "minLength": 1},
        "social_media_profiles": {
          "type": "array",
          "uniqueItems": true,
          "items": {"type": "string", "minLength": 1}
        },
        "hours": {
          "type": "object",
          "additionalProperties": false,
          "patternProperties": {
            "^(monday|tuesday|wednesday|thursday|friday|saturday|sunday)$": {
              "type": "string",
              "pattern": "^(closed|[0-9]{2}:[0-9]{2}–[0-9]{2}:[0-9]{2}(, [0-9]{2}:[0-9]{2}–[0-9]{2}:[0-9]{2})*)$"
            }
          }
        }
      }
    }
  }
}`

var outputSchema = validation.MustCompile(outputSchemaJSON)

// ValidateOutput checks a query document against the published output shape.
func ValidateOutput(out models.QueryOutput) error {
	result, err := outputSchema.Validate(out)
	if err != nil {
		return errors.NewOutputSchemaInvalidError(err.Error())
	}
	if !result.Valid {
		return errors.NewOutputSchemaInvalidError(fmt.Sprintf("%v", result.GetErrorMessages()))
	}
	return nil
}
