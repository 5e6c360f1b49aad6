// Package fieldmeta resolves declared data types for entity fields. The
// generators consult it when emitting create-record parameters.
package fieldmeta

import (
	"strings"

	"github.com/homepresso/formgraph/internal/sanitize"
	"github.com/homepresso/formgraph/model"
)

// Lookup resolves the declared data type of an entity field.
type Lookup interface {
	FieldDataType(entityName, fieldName string) string
}

// DefaultType is returned when no declaration covers a field.
const DefaultType = "text"

// Static is a Lookup backed by the input document's data-column table.
type Static struct {
	types map[string]string
}

// NewStatic builds a Static lookup from the form's data columns. Column
// names are canonicalized so lookups match the structural model.
func NewStatic(columns []model.DataColumn) *Static {
	s := &Static{types: make(map[string]string, len(columns))}
	for _, col := range columns {
		if col.DataType == "" {
			continue
		}
		entity := ""
		if col.IsRepeating {
			entity = sanitize.CanonicalizeName(col.RepeatingGroupName)
		}
		s.types[key(entity, sanitize.CanonicalizeName(col.ColumnName))] = strings.ToLower(col.DataType)
	}
	return s
}

// FieldDataType returns the declared type for the field, trying the entity
// scope first and the unscoped column next. Unknown fields default to text.
func (s *Static) FieldDataType(entityName, fieldName string) string {
	if t, ok := s.types[key(entityName, fieldName)]; ok {
		return t
	}
	if t, ok := s.types[key("", fieldName)]; ok {
		return t
	}
	return DefaultType
}

func key(entity, field string) string {
	return entity + "." + field
}
