// internal/workflow/intake/schema.go
package intake

import (
	"encoding/json"
	"fmt"
	"strings"

	"aid-workflow/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

const submissionSchema = `{
	"type": "object",
	"required": ["applicantId", "category", "requestedAmount", "priority", "requestDetail"],
	"additionalProperties": false,
	"properties": {
		"applicantId": {
			"type": "string",
			"minLength": 1
		},
		"category": {
			"type": "string",
			"enum": ["emergency", "education", "health", "food", "shelter", "other"]
		},
		"requestedAmount": {
			"type": "number",
			"minimum": 0
		},
		"priority": {
			"type": "string",
			"enum": ["high", "medium", "low"]
		},
		"requestDetail": {
			"type": "string",
			"minLength": 1
		}
	}
}`

var schemaLoader = gojsonschema.NewStringLoader(submissionSchema)

// validateSubmission checks the submission payload against the intake
// schema and returns APPLICATION_VALIDATION_FAILED listing every violation.
func validateSubmission(input *Input) error {
	doc, err := json.Marshal(input)
	if err != nil {
		return errors.NewApplicationValidationFailedError(fmt.Sprintf("marshal input: %v", err))
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return errors.NewApplicationValidationFailedError(fmt.Sprintf("validation error: %v", err))
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return errors.NewApplicationValidationFailedError(strings.Join(errs, "; "))
	}

	return nil
}
