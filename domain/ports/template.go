package ports

// TemplateEngine renders request templates with caller supplied variables.
type TemplateEngine interface {
	// Render processes the raw request bytes with the provided variables.
	// Returns resolved bytes with all template placeholders replaced.
	Render(raw []byte, vars map[string]interface{}) ([]byte, error)
}
