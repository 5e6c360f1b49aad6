package model

// Document is the root structure of a form-model input file. Each file
// declares one or more forms keyed by display name.
type Document struct {
	Forms map[string]FormInput `yaml:"forms" json:"forms"`

	// Checksum is computed at load time and not part of the YAML.
	Checksum string `yaml:"-" json:"-"`
	// SourceFile records the originating file path.
	SourceFile string `yaml:"-" json:"-"`
}

// FormInput is one form definition as read from the input model.
type FormInput struct {
	Views []ViewInput  `yaml:"views" json:"views"`
	Data  []DataColumn `yaml:"data"  json:"data,omitempty"`

	// Nesting is the explicit override table mapping a repeating group name
	// to its declared parent group name. Supplied data, never inferred.
	Nesting map[string]string `yaml:"nesting" json:"nesting,omitempty"`

	DynamicSections       []string         `yaml:"dynamic_sections"       json:"dynamic_sections,omitempty"`
	ConditionalVisibility []VisibilityRule `yaml:"conditional_visibility" json:"conditional_visibility,omitempty"`
}

// ViewInput describes one view of the input form.
type ViewInput struct {
	Name     string         `yaml:"name"     json:"name"`
	Controls []ControlInput `yaml:"controls" json:"controls"`
}

// ControlInput describes a single control as declared in the input model.
type ControlInput struct {
	Name    string          `yaml:"name"    json:"name"`
	Type    string          `yaml:"type"    json:"type"`
	Label   string          `yaml:"label"   json:"label,omitempty"`
	Grid    GridPosition    `yaml:"grid"    json:"grid"`
	Group   GroupMembership `yaml:"group"   json:"group,omitempty"`
	Options ControlOptions  `yaml:"options" json:"options,omitempty"`
}

// GridPosition is the control's location in the view's layout grid.
// A zero row means the input carried no usable row metadata.
type GridPosition struct {
	Row    int `yaml:"row"    json:"row"`
	Column int `yaml:"column" json:"column"`
}

// GroupMembership declares a control's membership in a repeating group.
type GroupMembership struct {
	InGroup   bool   `yaml:"in_group"   json:"in_group,omitempty"`
	GroupName string `yaml:"group_name" json:"group_name,omitempty"`
}

// ControlOptions carries per-control data options from the input model.
type ControlOptions struct {
	DisableEditing bool `yaml:"disable_editing" json:"disable_editing,omitempty"`
	Multiline      bool `yaml:"multiline"       json:"multiline,omitempty"`
}

// DataColumn describes one column of the form's backing data table.
type DataColumn struct {
	ColumnName         string `yaml:"column_name"          json:"column_name"`
	DataType           string `yaml:"data_type"            json:"data_type,omitempty"`
	IsRepeating        bool   `yaml:"is_repeating"         json:"is_repeating,omitempty"`
	RepeatingGroupName string `yaml:"repeating_group_name" json:"repeating_group_name,omitempty"`
}

// VisibilityRule describes a data-dependent visibility rule from the input.
type VisibilityRule struct {
	Control   string `yaml:"control"    json:"control"`
	DependsOn string `yaml:"depends_on" json:"depends_on"`
	Operator  string `yaml:"operator"   json:"operator"`
	Value     any    `yaml:"value"      json:"value,omitempty"`
}
