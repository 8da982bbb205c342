package rules

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// defaultPrinter formats schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

// rulesSchema is the compiled JSON Schema for rule-set files.
var rulesSchema *jsonschema.Schema

func init() {
	rulesSchema = mustCompileSchema(rulesSchemaJSON, "ruleset.schema.json")
}

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	var schemaDoc any
	if err := json.Unmarshal([]byte(raw), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// ValidateBytes validates raw rule-set YAML against the embedded schema
// and returns one message per violation.
func ValidateBytes(data []byte) []string {
	var yamlDoc any
	if err := yaml.Unmarshal(data, &yamlDoc); err != nil {
		return []string{fmt.Sprintf("YAML parse error: %v", err)}
	}

	err := rulesSchema.Validate(convertToJSONCompatible(yamlDoc))
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}

// convertToJSONCompatible converts YAML-decoded values to JSON-compatible
// types before schema validation.
func convertToJSONCompatible(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v2 := range val {
			result[k] = convertToJSONCompatible(v2)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v2 := range val {
			result[i] = convertToJSONCompatible(v2)
		}
		return result
	default:
		return val
	}
}
