package harvestcontacts

import "contact-harvester/internal/common/validation"

const inputSchemaJSON = `{
  "type": "object",
  "required": ["query"],
  "properties": {
    "query":    {"type": "string", "minLength": 1, "maxLength": 512, "pattern": "\\S"},
    "deepScan": {"type": "boolean"}
  }
}`

var inputSchema = validation.MustCompile(inputSchemaJSON)

func GetInputSchema() *validation.Schema {
	return inputSchema
}
