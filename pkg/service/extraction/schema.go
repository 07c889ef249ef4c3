package extraction

import (
	"github.com/m-mizutani/gollem"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// extractionSchemaJSON validates model output before it is decoded
const extractionSchemaJSON = `{
  "type": "object",
  "required": ["person", "details", "confidence"],
  "properties": {
    "person": {"type": "string"},
    "details": {"type": "string"},
    "confidence": {"type": "number", "minimum": 0, "maximum": 1},
    "context": {"type": ["string", "null"]}
  }
}`

var extractionSchema = jsonschema.MustCompileString("extraction.json", extractionSchemaJSON)

// buildResponseSchema creates the JSON schema for structured output
func buildResponseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "PersonFactExtraction",
		Description: "A single fact about a person stated in the text",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"person": {
				Type:        gollem.TypeString,
				Description: "The name of the person the statement is about, as spoken",
				Required:    true,
			},
			"details": {
				Type:        gollem.TypeString,
				Description: "A concise fact about the person, phrased to follow their name (e.g. \"works at Google as a software engineer\")",
				Required:    true,
			},
			"confidence": {
				Type:        gollem.TypeNumber,
				Description: "Certainty between 0 and 1 that person and details form a valid, meaningful fact",
				Required:    true,
			},
			"context": {
				Type:        gollem.TypeString,
				Description: "Optional auxiliary note such as where or when they met",
			},
		},
	}
}
