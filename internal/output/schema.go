package output

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ReportSchema describes unified_summary_report.json. Violations are either
// plain lines or test outcome records.
const ReportSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": {
    "type": "object",
    "required": ["status", "violations", "count"],
    "properties": {
      "status": {"enum": ["Passed", "Failed", "Tool Not Installed", "Error"]},
      "count": {"type": "integer", "minimum": 0},
      "violations": {
        "type": "array",
        "items": {
          "oneOf": [
            {"type": "string"},
            {
              "type": "object",
              "additionalProperties": false,
              "properties": {
                "file": {"type": "string"},
                "tool": {"type": "string"},
                "status": {"type": "string"},
                "elapsed_time": {"type": "number", "minimum": 0},
                "log": {"type": "string"},
                "error": {"type": "string"}
              }
            }
          ]
        }
      }
    }
  }
}`

var reportSchemaLoader = gojsonschema.NewStringLoader(ReportSchema)

// ValidateJSON checks an encoded report against ReportSchema.
func ValidateJSON(data []byte) error {
	result, err := gojsonschema.Validate(reportSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate report: %w", err)
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("report does not match schema: %s", strings.Join(problems, "; "))
}
