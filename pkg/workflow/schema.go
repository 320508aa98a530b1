package workflow

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arcadiahq/automation-engine/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

const definitionSchema = `{
	"type": "object",
	"required": ["id", "name", "steps"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"name": {"type": "string", "minLength": 1},
		"steps": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "type"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"type": {"type": "string", "minLength": 1},
					"config": {"type": "object"}
				}
			}
		},
		"trigger": {"type": "string"},
		"variables": {"type": "object"}
	}
}`

var schemaLoader = gojsonschema.NewStringLoader(definitionSchema)

// ValidateDefinition checks the structural shape of a workflow definition.
// Step types are not validated here; unknown types surface as
// unknown_step_type results at execution time.
func ValidateDefinition(workflow *models.WorkflowDefinition) error {
	if workflow == nil {
		return fmt.Errorf("%w: definition is nil", ErrInvalidWorkflow)
	}

	document, err := json.Marshal(workflow)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidWorkflow, err)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidWorkflow, err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, validationErr := range result.Errors() {
			details = append(details, validationErr.String())
		}

		return fmt.Errorf("%w: %s", ErrInvalidWorkflow, strings.Join(details, "; "))
	}

	return nil
}
