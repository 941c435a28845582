package diag

// Note adds context to a diagnostic.
type Note struct {
	Subject string `json:"subject,omitempty"`
	Msg     string `json:"message"`
}

// Diagnostic is a single finding.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     Code     `json:"code"`
	Message  string   `json:"message"`
	Module   string   `json:"module,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Notes    []Note   `json:"notes,omitempty"`
}
