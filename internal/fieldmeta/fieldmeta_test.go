package fieldmeta

import (
	"testing"

	"github.com/homepresso/formgraph/model"
)

func TestStatic_entityScopedLookup(t *testing.T) {
	s := NewStatic([]model.DataColumn{
		{ColumnName: "amount", DataType: "Decimal", IsRepeating: true, RepeatingGroupName: "LineItems"},
		{ColumnName: "order date", DataType: "date"},
	})

	if got := s.FieldDataType("LineItems", "Amount"); got != "decimal" {
		t.Errorf("FieldDataType(LineItems, Amount) = %q, want decimal", got)
	}
	// Unscoped columns resolve regardless of the entity asked for.
	if got := s.FieldDataType("ExpenseReport", "OrderDate"); got != "date" {
		t.Errorf("FieldDataType(ExpenseReport, OrderDate) = %q, want date", got)
	}
}

func TestStatic_unknownFieldDefaultsToText(t *testing.T) {
	s := NewStatic(nil)
	if got := s.FieldDataType("Anything", "Whatever"); got != DefaultType {
		t.Errorf("FieldDataType = %q, want %q", got, DefaultType)
	}
}

func TestStatic_columnsWithoutTypeAreSkipped(t *testing.T) {
	s := NewStatic([]model.DataColumn{{ColumnName: "notes"}})
	if got := s.FieldDataType("", "Notes"); got != DefaultType {
		t.Errorf("FieldDataType = %q, want default for untyped column", got)
	}
}
