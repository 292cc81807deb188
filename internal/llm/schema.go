package llm

// BuildAuditJSONSchema returns the JSON-Schema the model response must match.
// We pass it to the model as a structured output constraint and also use it
// locally to validate before touching the payload.
func BuildAuditJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"csv_data": map[string]any{"type": "string"},
		},
		"required": []string{"csv_data"},
	}
}
