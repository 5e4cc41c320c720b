package domain

import "strings"

// FieldIssue is one local input validation failure.
type FieldIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError is returned when tool input is rejected before any request is built.
type ValidationError struct {
	Issues []FieldIssue
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		lines = append(lines, issue.String())
	}
	return "invalid input: " + strings.Join(lines, "; ")
}

// String renders the issue as "path: message".
func (i FieldIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// FormatValidationError renders the issues one per line for display.
func FormatValidationError(e *ValidationError) string {
	lines := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		lines = append(lines, issue.String())
	}
	return "Invalid input:\n" + strings.Join(lines, "\n")
}
