package formmodel

import (
	"fmt"

	"github.com/homepresso/formgraph/model"
)

// VError describes a single validation error in an input document.
type VError struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e VError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validator checks input documents structurally and referentially before
// generation starts. Anything it accepts the generators must handle without
// hard failure.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks all documents.
func (v *Validator) Validate(docs []model.Document) []VError {
	var errs []VError
	for i, doc := range docs {
		prefix := fmt.Sprintf("documents[%d]", i)
		if len(doc.Forms) == 0 {
			errs = append(errs, VError{Path: prefix + ".forms", Code: "REQUIRED", Message: "at least one form is required"})
			continue
		}
		for name, form := range doc.Forms {
			fp := fmt.Sprintf("%s.forms[%s]", prefix, name)
			errs = append(errs, v.validateForm(fp, name, form)...)
		}
	}
	return errs
}

func (v *Validator) validateForm(prefix, name string, form model.FormInput) []VError {
	var errs []VError

	if name == "" {
		errs = append(errs, VError{Path: prefix, Code: "REQUIRED", Message: "form display name is required"})
	}
	if len(form.Views) == 0 {
		errs = append(errs, VError{Path: prefix + ".views", Code: "REQUIRED", Message: "at least one view is required"})
	}

	groupNames := make(map[string]bool)
	for i, view := range form.Views {
		vp := fmt.Sprintf("%s.views[%d]", prefix, i)
		if view.Name == "" {
			errs = append(errs, VError{Path: vp + ".name", Code: "REQUIRED", Message: "view name is required"})
		}

		seen := make(map[string]int)
		for j, c := range view.Controls {
			cp := fmt.Sprintf("%s.controls[%d]", vp, j)
			if c.Name == "" {
				errs = append(errs, VError{Path: cp + ".name", Code: "REQUIRED", Message: "control name is required"})
			}
			if c.Group.InGroup && c.Group.GroupName == "" {
				errs = append(errs, VError{Path: cp + ".group.group_name", Code: "REQUIRED", Message: "group name is required when in_group is set"})
			}
			if c.Group.GroupName != "" {
				groupNames[c.Group.GroupName] = true
			}
			if prev, dup := seen[c.Name]; dup {
				errs = append(errs, VError{
					Path:    cp + ".name",
					Code:    "DUPLICATE",
					Message: fmt.Sprintf("control name %q already used at controls[%d]", c.Name, prev),
				})
			}
			seen[c.Name] = j
		}
	}

	for _, col := range form.Data {
		if col.IsRepeating && col.RepeatingGroupName != "" {
			groupNames[col.RepeatingGroupName] = true
		}
	}

	// Nesting overrides must reference known groups on both sides.
	for child, parent := range form.Nesting {
		np := fmt.Sprintf("%s.nesting[%s]", prefix, child)
		if !groupNames[child] {
			errs = append(errs, VError{Path: np, Code: "REF_NOT_FOUND", Message: fmt.Sprintf("group %q not found in form", child)})
		}
		if parent == "" {
			errs = append(errs, VError{Path: np, Code: "REQUIRED", Message: "parent group name is required"})
		} else if !groupNames[parent] {
			errs = append(errs, VError{Path: np, Code: "REF_NOT_FOUND", Message: fmt.Sprintf("parent group %q not found in form", parent)})
		}
	}

	return errs
}
