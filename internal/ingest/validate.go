package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// documentValidator is compiled once from the reflected document schema.
var (
	documentValidator     *jsonschema.Schema
	documentValidatorErr  error
	documentValidatorOnce sync.Once
)

func compiledDocumentSchema() (*jsonschema.Schema, error) {
	documentValidatorOnce.Do(func() {
		schemaMap, err := DocumentSchema()
		if err != nil {
			documentValidatorErr = err
			return
		}

		// Round-trip through JSON so the compiler sees plain maps.
		schemaJSON, err := json.Marshal(schemaMap)
		if err != nil {
			documentValidatorErr = fmt.Errorf("ingest: marshaling schema: %w", err)
			return
		}
		var schemaValue any
		if err := json.Unmarshal(schemaJSON, &schemaValue); err != nil {
			documentValidatorErr = fmt.Errorf("ingest: unmarshaling schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("document.json", schemaValue); err != nil {
			documentValidatorErr = fmt.Errorf("ingest: adding schema resource: %w", err)
			return
		}
		compiled, err := compiler.Compile("document.json")
		if err != nil {
			documentValidatorErr = fmt.Errorf("ingest: compiling schema: %w", err)
			return
		}
		documentValidator = compiled
	})
	return documentValidator, documentValidatorErr
}

// ValidateDocument checks raw collection JSON against the document schema
// and returns the human-readable validation errors, if any.
func ValidateDocument(data []byte) []string {
	schema, err := compiledDocumentSchema()
	if err != nil {
		return []string{err.Error()}
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return []string{fmt.Sprintf("invalid JSON: %s", err.Error())}
	}

	if err := schema.Validate(value); err != nil {
		return extractValidationErrors(err)
	}
	return nil
}

// extractValidationErrors extracts human-readable error messages from a validation error.
func extractValidationErrors(err error) []string {
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return extractDetailedErrors(validationErr)
	}

	return []string{err.Error()}
}

// printer is a default English printer for localized error messages.
var printer = message.NewPrinter(language.English)

// extractDetailedErrors recursively extracts errors from a ValidationError.
func extractDetailedErrors(err *jsonschema.ValidationError) []string {
	errorsByPath := make(map[string][]string)
	collectErrors(err, errorsByPath)

	var result []string
	for path, msgs := range errorsByPath {
		seen := make(map[string]bool)
		for _, msg := range msgs {
			if !seen[msg] {
				seen[msg] = true
				if path != "" {
					result = append(result, fmt.Sprintf("%s: %s", path, msg))
				} else {
					result = append(result, msg)
				}
			}
		}
	}

	return result
}

// collectErrors recursively collects leaf errors (those without causes).
func collectErrors(err *jsonschema.ValidationError, errorsByPath map[string][]string) {
	instancePath := ""
	if len(err.InstanceLocation) > 0 {
		instancePath = "/" + strings.Join(err.InstanceLocation, "/")
	}

	if err.ErrorKind != nil && len(err.Causes) == 0 {
		errMsg := err.ErrorKind.LocalizedString(printer)
		// Skip $ref and schema reference messages - they're not useful errors
		if !strings.HasPrefix(errMsg, "$ref ") && !strings.HasPrefix(errMsg, "doesn't validate with") {
			errorsByPath[instancePath] = append(errorsByPath[instancePath], errMsg)
		}
	}

	for _, cause := range err.Causes {
		collectErrors(cause, errorsByPath)
	}
}
