package cv

import "fmt"

// defaultRequiredKeys is used when the schema carries no required list.
var defaultRequiredKeys = []string{"metadata", "sections", "personality", "responseTemplates"}

// Validate checks the raw CV document. The schema argument contributes only
// its required-keys list; all deeper shape rules are fixed here. The function
// never panics: any internal fault is converted to a single generic error.
func Validate(data map[string]interface{}, schema map[string]interface{}) (result ValidationResult) {
	result.Errors = []string{}

	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("Validation failed unexpectedly: %v", r))
		}
	}()

	if data == nil {
		result.Errors = append(result.Errors, "Document is empty")
		return result
	}

	for _, key := range requiredKeys(schema) {
		if _, ok := data[key]; !ok {
			result.Errors = append(result.Errors, "Missing required property: "+key)
		}
	}

	result.Errors = append(result.Errors, checkMetadata(data["metadata"])...)

	sectionErrs, count := checkSections(data["sections"])
	result.Errors = append(result.Errors, sectionErrs...)
	result.SectionsCount = count

	if v, ok := data["personality"]; ok {
		if _, isMap := v.(map[string]interface{}); !isMap {
			result.Errors = append(result.Errors, "personality must be an object")
		}
	}
	if v, ok := data["responseTemplates"]; ok {
		if _, isMap := v.(map[string]interface{}); !isMap {
			result.Errors = append(result.Errors, "responseTemplates must be an object")
		}
	}

	result.Success = len(result.Errors) == 0
	return result
}

func requiredKeys(schema map[string]interface{}) []string {
	raw, ok := schema["required"].([]interface{})
	if !ok {
		return defaultRequiredKeys
	}
	keys := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			keys = append(keys, s)
		}
	}
	if len(keys) == 0 {
		return defaultRequiredKeys
	}
	return keys
}

func checkMetadata(v interface{}) []string {
	if v == nil {
		return nil
	}
	meta, ok := v.(map[string]interface{})
	if !ok {
		return []string{"metadata must be an object"}
	}

	var errs []string
	if _, ok := meta["version"].(string); !ok {
		errs = append(errs, "metadata.version must be a string")
	}
	if _, ok := meta["last_updated"].(string); !ok {
		errs = append(errs, "metadata.last_updated must be a string")
	}
	if _, ok := meta["total_sections"].(float64); !ok {
		errs = append(errs, "metadata.total_sections must be a number")
	}
	return errs
}

func checkSections(v interface{}) ([]string, int) {
	if v == nil {
		return nil, 0
	}
	categories, ok := v.(map[string]interface{})
	if !ok {
		return []string{"sections must be an object"}, 0
	}

	var errs []string
	count := 0
	for category, rawSections := range categories {
		sections, ok := rawSections.(map[string]interface{})
		if !ok {
			errs = append(errs, fmt.Sprintf("sections.%s must be an object", category))
			continue
		}
		for name, rawSection := range sections {
			section, ok := rawSection.(map[string]interface{})
			if !ok {
				errs = append(errs, fmt.Sprintf("sections.%s.%s must be an object", category, name))
				continue
			}
			count++
			if _, ok := section["id"].(string); !ok {
				errs = append(errs, fmt.Sprintf("sections.%s.%s.id must be a string", category, name))
			}
			if _, ok := section["keywords"].([]interface{}); !ok {
				errs = append(errs, fmt.Sprintf("sections.%s.%s.keywords must be an array", category, name))
			}
			if _, ok := section["responses"].(map[string]interface{}); !ok {
				errs = append(errs, fmt.Sprintf("sections.%s.%s.responses must be an object", category, name))
			}
		}
	}
	return errs, count
}
