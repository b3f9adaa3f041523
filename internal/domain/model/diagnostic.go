package model

// Severity classifies a diagnostic.
type Severity string

// Diagnostic severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic is a structured issue surfaced to the caller.
type Diagnostic struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Diagnostics accumulates diagnostics for a single processing call.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Error appends an error diagnostic.
func (d *Diagnostics) Error(field, msg string) {
	d.Errors = append(d.Errors, Diagnostic{Field: field, Message: msg, Severity: SeverityError})
}

// Warn appends a warning diagnostic.
func (d *Diagnostics) Warn(field, msg string) {
	d.Warnings = append(d.Warnings, Diagnostic{Field: field, Message: msg, Severity: SeverityWarning})
}

// Info appends an informational diagnostic.
func (d *Diagnostics) Info(field, msg string) {
	d.Infos = append(d.Infos, Diagnostic{Field: field, Message: msg, Severity: SeverityInfo})
}

// Merge appends all diagnostics of other.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// ProcessingResult is the envelope returned for one upload.
type ProcessingResult struct {
	Success  bool           `json:"success"`
	Data     *ProcessedData `json:"data,omitempty"`
	Errors   []Diagnostic   `json:"errors"`
	Warnings []Diagnostic   `json:"warnings"`
	Info     []Diagnostic   `json:"info,omitempty"`
}

// Failed builds an unsuccessful envelope from the accumulated diagnostics.
func Failed(d Diagnostics) ProcessingResult {
	return ProcessingResult{
		Success:  false,
		Errors:   nonNil(d.Errors),
		Warnings: nonNil(d.Warnings),
		Info:     d.Infos,
	}
}

// Succeeded builds a successful envelope around data.
func Succeeded(data *ProcessedData, d Diagnostics) ProcessingResult {
	return ProcessingResult{
		Success:  true,
		Data:     data,
		Errors:   nonNil(d.Errors),
		Warnings: nonNil(d.Warnings),
		Info:     d.Infos,
	}
}

func nonNil(in []Diagnostic) []Diagnostic {
	if in == nil {
		return []Diagnostic{}
	}
	return in
}
