package generate

import (
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ramsSchema describes the target shape the generation service is asked for.
// Validation against it is advisory: the normalizer is total over drifted
// shapes, so mismatches are logged, never fatal.
const ramsSchema = `{
	"type": "object",
	"properties": {
		"activityDescription": {"type": "string", "minLength": 1},
		"location": {"type": "string"},
		"assessmentDate": {"type": "string"},
		"personnel": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"name": {"type": "string"},
					"role": {"type": "string"},
					"qualifications": {"type": "string"}
				}
			}
		},
		"hazards": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"properties": {
					"description": {"type": "string", "minLength": 1},
					"riskLevel": {"type": "string", "enum": ["Low", "Medium", "High"]},
					"affectedPersons": {"type": "string"},
					"consequences": {"type": "string"}
				},
				"required": ["description"]
			}
		},
		"controlMeasures": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"description": {"type": "string", "minLength": 1},
					"responsibility": {"type": "string"},
					"timing": {"type": "string"}
				},
				"required": ["description"]
			}
		},
		"ppe": {"type": "array", "items": {"type": "string"}},
		"methodStatement": {"type": "array", "items": {"type": "string"}},
		"emergencyInfo": {"type": "object"},
		"residualRisk": {"type": "string"}
	},
	"required": ["activityDescription", "hazards", "controlMeasures"]
}`

var compiledRamsSchema = jsonschema.MustCompileString("rams.schema.json", ramsSchema)

// ValidateRamsShape reports whether generated content matches the requested
// contract. Callers treat a non-nil error as a warning only.
func ValidateRamsShape(v any) error {
	return compiledRamsSchema.Validate(v)
}
