package model

// ControlType classifies a control as read from the input model.
type ControlType string

// Known control types. Anything not data-bearing is structural.
const (
	ControlText      ControlType = "text"
	ControlMultiline ControlType = "multiline"
	ControlNumber    ControlType = "number"
	ControlDate      ControlType = "date"
	ControlChoice    ControlType = "choice"
	ControlBoolean   ControlType = "boolean"
	ControlLabel     ControlType = "label"
	ControlImage     ControlType = "image"
	ControlButton    ControlType = "button"
)

// IsData reports whether values of this control type are bound to form data.
// Labels, images, and buttons are structural only.
func (t ControlType) IsData() bool {
	switch t {
	case ControlLabel, ControlImage, ControlButton:
		return false
	}
	return true
}

// Control is one control of the structural model. Controls are immutable
// once built from the input document.
type Control struct {
	ID          string      `json:"id"`
	FieldName   string      `json:"field_name"`
	DisplayName string      `json:"display_name"`
	Type        ControlType `json:"type"`
	Row         int         `json:"row"`
	Column      int         `json:"column"`
	GroupName   string      `json:"group_name,omitempty"`
	ReadOnly    bool        `json:"read_only,omitempty"`
}

// ViewRole distinguishes the three kinds of generated views.
type ViewRole string

const (
	// RolePrimary views are bound to the root entity.
	RolePrimary ViewRole = "primary"
	// RoleDetailItem views edit one repeating-group row.
	RoleDetailItem ViewRole = "detail-item"
	// RoleDetailList views display the repeating-group collection.
	RoleDetailList ViewRole = "detail-list"
)

// View is one generated view. Ownership of a view's controls never changes
// after creation.
type View struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Role        ViewRole  `json:"role"`
	GroupName   string    `json:"group_name,omitempty"`
	Controls    []Control `json:"controls"`
}

// Control returns the view's control with the given canonical field name.
func (v *View) Control(fieldName string) (Control, bool) {
	for _, c := range v.Controls {
		if c.FieldName == fieldName {
			return c, true
		}
	}
	return Control{}, false
}

// RepeatingGroup is a named, contiguous cluster of controls representing a
// one-to-many child record set.
type RepeatingGroup struct {
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Controls    []Control `json:"controls"`

	// Depth is the nesting depth: 0 when the group is the form's only
	// top-level structure, 1 for groups under the synthetic root, and
	// parent depth + 1 for groups declared in the override table.
	Depth int `json:"depth"`
	// Parent names the enclosing group; empty means the synthetic root.
	Parent string `json:"parent,omitempty"`
	// ParentUnresolved marks a declared parent that could not be located.
	ParentUnresolved bool     `json:"parent_unresolved,omitempty"`
	Children         []string `json:"children,omitempty"`
}

// SegmentKind tags a segment as a plain run or a repeating-group run.
type SegmentKind string

const (
	SegmentRegular SegmentKind = "regular"
	SegmentGroup   SegmentKind = "group"
)

// Segment is one run of the segmented control list.
type Segment struct {
	Kind      SegmentKind `json:"kind"`
	GroupName string      `json:"group_name,omitempty"`
	Controls  []Control   `json:"controls"`
}

// ViewIdentifiers are the runtime identifiers assigned to a deployed view.
type ViewIdentifiers struct {
	ViewID         string `json:"view_id"`
	ViewInstanceID string `json:"view_instance_id"`
}

// FieldMapping is one item-control to list-control correspondence, keyed by
// canonical field name.
type FieldMapping struct {
	FieldName     string `json:"field_name"`
	ItemControlID string `json:"item_control_id"`
	ListControlID string `json:"list_control_id"`
}

// ViewPair is the generated (item, list) view pair for a repeating group.
// Runtime identifiers are filled in only after deployment.
type ViewPair struct {
	Group *RepeatingGroup `json:"-"`
	Item  *View           `json:"item"`
	List  *View           `json:"list"`

	ItemIDs ViewIdentifiers `json:"item_ids"`
	ListIDs ViewIdentifiers `json:"list_ids"`

	Mappings []FieldMapping `json:"mappings"`
}

// ViewButtons records the navigation controls generated into a view.
// Registered during view generation and read back during rule generation.
type ViewButtons struct {
	AddID      string `json:"add_id,omitempty"`
	AddName    string `json:"add_name,omitempty"`
	DeleteID   string `json:"delete_id,omitempty"`
	DeleteName string `json:"delete_name,omitempty"`
	CancelID   string `json:"cancel_id,omitempty"`
	CancelName string `json:"cancel_name,omitempty"`
	SubmitID   string `json:"submit_id,omitempty"`
	SubmitName string `json:"submit_name,omitempty"`
	ClearID    string `json:"clear_id,omitempty"`
	ClearName  string `json:"clear_name,omitempty"`
}

// SourceField is one field feeding a calculated field's expression.
type SourceField struct {
	FieldName string `json:"field_name"`
	GroupName string `json:"group_name"`
}

// CalculationField is a derived field candidate discovered by the
// calculation heuristics.
type CalculationField struct {
	FieldName string        `json:"field_name"`
	Type      ControlType   `json:"type"`
	Sources   []SourceField `json:"sources"`
}

// Form is the structural model built once from the input document.
// It owns the rule graph root produced for it.
type Form struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name"`
	Views       []*View           `json:"views"`
	Pairs       []*ViewPair       `json:"pairs"`
	Groups      []*RepeatingGroup `json:"groups"`
}

// PrimaryViews returns the form's views bound to the root entity, in order.
func (f *Form) PrimaryViews() []*View {
	var out []*View
	for _, v := range f.Views {
		if v.Role == RolePrimary {
			out = append(out, v)
		}
	}
	return out
}

// Group returns the form's repeating group with the given name.
func (f *Form) Group(name string) (*RepeatingGroup, bool) {
	for _, g := range f.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// Pair returns the view pair generated for the named group.
func (f *Form) Pair(groupName string) (*ViewPair, bool) {
	for _, p := range f.Pairs {
		if p.Group != nil && p.Group.Name == groupName {
			return p, true
		}
	}
	return nil, false
}
