package model

import "fmt"

// Diagnostic codes, ordered roughly by severity.
const (
	// DiagStructuralGap: a required structural anchor is missing and cannot
	// be synthesized. Fatal for the current form.
	DiagStructuralGap = "STRUCTURAL_GAP"
	// DiagMissingMapping: a field exists on only one side of a view pair,
	// or a calculation source field resolved to zero control instances.
	DiagMissingMapping = "MISSING_MAPPING"
	// DiagMissingButton: an expected navigation control is absent; the
	// corresponding rule is skipped.
	DiagMissingButton = "MISSING_BUTTON"
	// DiagUnresolvedParent: a nested group's declared parent cannot be
	// located; that group's submit handler is skipped.
	DiagUnresolvedParent = "UNRESOLVED_PARENT"
	// DiagDeploymentFailure: the deployment collaborator failed for one
	// view; remaining views still process.
	DiagDeploymentFailure = "DEPLOYMENT_FAILURE"
)

// Diagnostic is one recorded generation finding. Only StructuralGap aborts
// processing of the current form; everything else is best-effort output.
type Diagnostic struct {
	Code    string `json:"code"`
	Form    string `json:"form,omitempty"`
	View    string `json:"view,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	if d.Subject != "" {
		return fmt.Sprintf("%s: %s: %s", d.Code, d.Subject, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

// Fatal reports whether this diagnostic aborts the current form.
func (d Diagnostic) Fatal() bool {
	return d.Code == DiagStructuralGap
}

// Report accumulates diagnostics across one generation run.
type Report struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Add appends a diagnostic to the report.
func (r *Report) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// Addf appends a diagnostic built from a format string.
func (r *Report) Addf(code, form, subject, format string, args ...any) {
	r.Add(Diagnostic{
		Code:    code,
		Form:    form,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
	})
}

// Count returns the number of diagnostics with the given code.
func (r *Report) Count(code string) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Code == code {
			n++
		}
	}
	return n
}

// HasFatal reports whether any recorded diagnostic is fatal.
func (r *Report) HasFatal() bool {
	for _, d := range r.Diagnostics {
		if d.Fatal() {
			return true
		}
	}
	return false
}
